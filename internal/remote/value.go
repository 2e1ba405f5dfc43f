// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package remote models the loosely-typed objects returned by the compliance
// service. The service does not guarantee a schema, so every response is kept
// as an ordered property bag of tagged values.
package remote

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strings"
)

// Kind identifies which member of the Value union is populated.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindBytes
	KindNumber
	KindBool
	KindObject
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	default:
		return "null"
	}
}

// Value is a single field value of a remote object. The zero Value is null.
type Value struct {
	kind Kind
	str  string // string contents, or the literal of a number
	raw  []byte
	flag bool
	obj  *Object
	list []Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bytes wraps a binary payload. A nil slice is still a (zero-length) byte value.
func Bytes(b []byte) Value { return Value{kind: KindBytes, raw: b} }

// Number wraps a numeric literal as received on the wire.
func Number(literal string) Value { return Value{kind: KindNumber, str: literal} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// ObjectValue wraps a nested object. A nil object is null.
func ObjectValue(o *Object) Value {
	if o == nil {
		return Null()
	}
	return Value{kind: KindObject, obj: o}
}

// List wraps a sequence of values.
func List(items ...Value) Value {
	return Value{kind: KindList, list: items}
}

// Kind reports which member is populated.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v carries no value.
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

func (v Value) AsBytes() ([]byte, bool) {
	return v.raw, v.kind == KindBytes
}

func (v Value) AsNumber() (string, bool) {
	return v.str, v.kind == KindNumber
}

func (v Value) AsBool() (bool, bool) {
	return v.flag, v.kind == KindBool
}

func (v Value) AsObject() (*Object, bool) {
	return v.obj, v.kind == KindObject
}

func (v Value) AsList() ([]Value, bool) {
	return v.list, v.kind == KindList
}

// IsEmpty reports whether the value should be treated as absent.
// Whitespace-only strings, zero-length payloads and empty containers are empty.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return strings.TrimSpace(v.str) == ""
	case KindBytes:
		return len(v.raw) == 0
	case KindObject:
		return v.obj.Len() == 0
	case KindList:
		return len(v.list) == 0
	default:
		return false
	}
}

// Text renders scalar values for display. Bytes, objects and lists render as
// an empty string; binary content is never coerced to text.
func (v Value) Text() string {
	switch v.kind {
	case KindString, KindNumber:
		return v.str
	case KindBool:
		if v.flag {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// MarshalJSON encodes the value. Byte payloads are base64 encoded.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindString:
		return writeJSONString(buf, v.str)
	case KindBytes:
		return writeJSONString(buf, base64.StdEncoding.EncodeToString(v.raw))
	case KindNumber:
		buf.WriteString(v.str)
	case KindBool:
		if v.flag {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindObject:
		return v.obj.writeJSON(buf)
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		buf.WriteString("null")
	}
	return nil
}

// writeJSONString writes s as a JSON string without HTML escaping, so XML
// payloads stay readable in reports.
func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
