// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package resolve finds values in remote objects whose schema varies between
// service versions, and resolves operator selections against numbered lists.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"compliance-tools/internal/remote"
)

var (
	// ErrNotFound is returned when no candidate field or list item matches.
	ErrNotFound = errors.New("not found")
	// ErrOutOfRange is returned for an index outside the selectable list.
	ErrOutOfRange = errors.New("selection out of range")
	// ErrAmbiguousSelection is returned when a name matches several items.
	ErrAmbiguousSelection = errors.New("ambiguous selection")
)

// Fields is the read-only key/value view the resolvers work against.
// *remote.Object satisfies it.
type Fields interface {
	Lookup(name string) (remote.Value, bool)
	Names() []string
}

// Candidates is an ordered list of field names, most preferred first.
type Candidates []string

// Well-known candidate lists for the concepts the tools look up.
var (
	IdentityFields = Candidates{"Identity", "RuleCollectionName", "Id", "Guid", "DistinguishedName"}
	NameFields     = Candidates{"LocalizedName", "Name", "RuleCollectionName", "DisplayName", "Identity"}
	PayloadFields  = Candidates{"SerializedClassificationRuleCollection", "ClassificationRuleCollectionXml", "RulePackXml", "Xml"}
)

// Field returns the first candidate whose value is present and not empty.
func Field(obj Fields, candidates Candidates) (remote.Value, error) {
	if obj != nil {
		for _, name := range candidates {
			v, ok := obj.Lookup(name)
			if ok && !v.IsEmpty() {
				return v, nil
			}
		}
	}
	return remote.Null(), notFound(candidates)
}

// FieldString resolves a candidate and renders it as text. Byte payloads
// and containers do not qualify.
func FieldString(obj Fields, candidates Candidates) (string, error) {
	if obj != nil {
		for _, name := range candidates {
			v, ok := obj.Lookup(name)
			if !ok || v.IsEmpty() {
				continue
			}
			if s := strings.TrimSpace(v.Text()); s != "" {
				return s, nil
			}
		}
	}
	return "", notFound(candidates)
}

// Payload resolves an embedded document. When no candidate matches it scans
// every field in enumeration order for a non-empty byte value or a string
// that looks like XML.
func Payload(obj Fields, candidates Candidates) (remote.Value, error) {
	if v, err := Field(obj, candidates); err == nil {
		return v, nil
	}
	if obj != nil {
		for _, name := range obj.Names() {
			v, _ := obj.Lookup(name)
			if isPayload(v) {
				return v, nil
			}
		}
	}
	return remote.Null(), fmt.Errorf("payload %w: tried %s, then scanned all fields for binary or XML content",
		ErrNotFound, strings.Join(candidates, ", "))
}

func isPayload(v remote.Value) bool {
	if b, ok := v.AsBytes(); ok {
		return len(b) > 0
	}
	if s, ok := v.AsString(); ok {
		return strings.HasPrefix(strings.TrimLeft(s, " \t\r\n\ufeff"), "<")
	}
	return false
}

func notFound(candidates Candidates) error {
	if len(candidates) == 0 {
		return fmt.Errorf("field %w: no candidates given", ErrNotFound)
	}
	return fmt.Errorf("field %w: tried %s", ErrNotFound, strings.Join(candidates, ", "))
}
