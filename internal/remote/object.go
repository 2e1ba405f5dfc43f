// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// binaryAnnotation is the OData suffix that marks a base64 string property as
// binary, e.g. "FileData@odata.type": "#Binary".
const binaryAnnotation = "@odata.type"

// Object is an ordered property bag. Field order is the order fields were
// added, which for decoded JSON is the order the service sent them.
type Object struct {
	names  []string
	values map[string]Value
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// Set stores a field. Replacing an existing field keeps its position.
func (o *Object) Set(name string, v Value) *Object {
	if o.values == nil {
		o.values = make(map[string]Value)
	}
	if _, exists := o.values[name]; !exists {
		o.names = append(o.names, name)
	}
	o.values[name] = v
	return o
}

// Delete removes a field if present.
func (o *Object) Delete(name string) {
	if _, exists := o.values[name]; !exists {
		return
	}
	delete(o.values, name)
	for i, n := range o.names {
		if n == name {
			o.names = append(o.names[:i], o.names[i+1:]...)
			break
		}
	}
}

// Lookup returns the named field and whether it exists.
func (o *Object) Lookup(name string) (Value, bool) {
	if o == nil {
		return Null(), false
	}
	v, ok := o.values[name]
	return v, ok
}

// Get returns the named field, or null when absent.
func (o *Object) Get(name string) Value {
	v, _ := o.Lookup(name)
	return v
}

// Names returns the field names in enumeration order.
func (o *Object) Names() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.names))
	copy(out, o.names)
	return out
}

// Len returns the number of fields.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.names)
}

// MarshalJSON writes fields in enumeration order. Byte fields are followed
// by their binary annotation so the output decodes back to the same object.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := o.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *Object) writeJSON(buf *bytes.Buffer) error {
	if o == nil {
		buf.WriteString("null")
		return nil
	}
	buf.WriteByte('{')
	first := true
	writeField := func(name string, v Value) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := writeJSONString(buf, name); err != nil {
			return err
		}
		buf.WriteByte(':')
		return v.writeJSON(buf)
	}
	for _, name := range o.names {
		v := o.values[name]
		if err := writeField(name, v); err != nil {
			return err
		}
		if v.kind == KindBytes {
			annotation := name + binaryAnnotation
			if _, explicit := o.values[annotation]; !explicit {
				if err := writeField(annotation, String("#Binary")); err != nil {
					return err
				}
			}
		}
	}
	buf.WriteByte('}')
	return nil
}

// UnmarshalJSON decodes a JSON object preserving field order.
func (o *Object) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeObject(data)
	if err != nil {
		return err
	}
	*o = *decoded
	return nil
}

// DecodeObject parses a JSON document whose top level is an object.
func DecodeObject(data []byte) (*Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	obj, ok := v.AsObject()
	if !ok {
		if v.kind == KindNull {
			return NewObject(), nil
		}
		return nil, fmt.Errorf("expected a JSON object, got %s", v.kind)
	}
	return obj, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Null(), err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Null(), err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Null(), fmt.Errorf("unexpected object key %v", keyTok)
				}
				v, err := decodeValue(dec)
				if err != nil {
					return Null(), err
				}
				obj.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return Null(), err
			}
			obj.applyBinaryAnnotations()
			return ObjectValue(obj), nil
		case '[':
			items := []Value{}
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return Null(), err
				}
				items = append(items, v)
			}
			if _, err := dec.Token(); err != nil {
				return Null(), err
			}
			return List(items...), nil
		}
		return Null(), fmt.Errorf("unexpected delimiter %v", t)
	case string:
		return String(t), nil
	case json.Number:
		return Number(t.String()), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	}
	return Null(), fmt.Errorf("unexpected token %v", tok)
}

// applyBinaryAnnotations converts annotated base64 strings to byte values
// and drops the consumed annotations.
func (o *Object) applyBinaryAnnotations() {
	for _, name := range o.Names() {
		if !strings.HasSuffix(name, binaryAnnotation) {
			continue
		}
		marker, _ := o.values[name].AsString()
		if marker != "#Binary" && marker != "Edm.Binary" {
			continue
		}
		target := strings.TrimSuffix(name, binaryAnnotation)
		encoded, ok := o.values[target].AsString()
		if !ok {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			continue
		}
		o.values[target] = Bytes(decoded)
		o.Delete(name)
	}
}

// FromMap converts a generic map, such as structpb.Struct.AsMap, into an
// Object. Maps carry no order, so fields are sorted by name.
func FromMap(m map[string]any) *Object {
	obj := NewObject()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		obj.Set(k, fromAny(m[k]))
	}
	obj.applyBinaryAnnotations()
	return obj
}

func fromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case string:
		return String(t)
	case []byte:
		return Bytes(t)
	case bool:
		return Bool(t)
	case float64:
		return Number(strconv.FormatFloat(t, 'f', -1, 64))
	case int:
		return Number(strconv.Itoa(t))
	case int64:
		return Number(strconv.FormatInt(t, 10))
	case map[string]any:
		return ObjectValue(FromMap(t))
	case []any:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			items = append(items, fromAny(item))
		}
		return List(items...)
	default:
		return String(fmt.Sprint(t))
	}
}

// ToMap converts the object into a generic map suitable for structpb.
// Byte values become base64 strings with a binary annotation.
func (o *Object) ToMap() map[string]any {
	out := make(map[string]any, o.Len())
	if o == nil {
		return out
	}
	for _, name := range o.names {
		v := o.values[name]
		out[name] = v.toAny()
		if v.kind == KindBytes {
			out[name+binaryAnnotation] = "#Binary"
		}
	}
	return out
}

func (v Value) toAny() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindBytes:
		return base64.StdEncoding.EncodeToString(v.raw)
	case KindNumber:
		f, err := strconv.ParseFloat(v.str, 64)
		if err != nil {
			return v.str
		}
		return f
	case KindBool:
		return v.flag
	case KindObject:
		return v.obj.ToMap()
	case KindList:
		items := make([]any, 0, len(v.list))
		for _, item := range v.list {
			items = append(items, item.toAny())
		}
		return items
	default:
		return nil
	}
}
