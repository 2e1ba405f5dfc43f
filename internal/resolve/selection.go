// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"compliance-tools/internal/remote"
)

// Item is one entry of a numbered list shown to the operator.
type Item struct {
	Index    int    // 1-based display index
	Name     string // display name
	Identity string
	Object   *remote.Object
}

// Items numbers objects for display, resolving names and identities through
// the given candidate lists. Objects without a resolvable name fall back to
// their identity, then to a positional placeholder.
func Items(objs []*remote.Object, names, identities Candidates) []Item {
	items := make([]Item, 0, len(objs))
	for i, obj := range objs {
		identity, _ := FieldString(obj, identities)
		name, err := FieldString(obj, names)
		if err != nil {
			name = identity
		}
		if name == "" {
			name = fmt.Sprintf("item %d", i+1)
		}
		items = append(items, Item{
			Index:    i + 1,
			Name:     name,
			Identity: identity,
			Object:   obj,
		})
	}
	return items
}

// Select resolves token against items. A token that parses as an integer,
// ignoring surrounding spaces, is a 1-based index; anything else must equal
// exactly one item's name. Name matching is exact and case-sensitive, and
// surrounding spaces are part of the name.
func Select(items []Item, token string) (Item, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return Item{}, fmt.Errorf("selection %w: empty selection", ErrNotFound)
	}

	if n, err := strconv.Atoi(trimmed); err == nil {
		if n < 1 || n > len(items) {
			return Item{}, fmt.Errorf("index %d: %w (valid range 1-%d)", n, ErrOutOfRange, len(items))
		}
		return items[n-1], nil
	}

	var matches []Item
	for _, item := range items {
		if item.Name == token {
			matches = append(matches, item)
		}
	}
	switch len(matches) {
	case 0:
		return Item{}, fmt.Errorf("name %q %w among %d items", token, ErrNotFound, len(items))
	case 1:
		return matches[0], nil
	default:
		indexes := make([]string, 0, len(matches))
		for _, m := range matches {
			indexes = append(indexes, strconv.Itoa(m.Index))
		}
		return Item{}, fmt.Errorf("name %q is an %w: it matches items %s; select by index instead",
			token, ErrAmbiguousSelection, strings.Join(indexes, ", "))
	}
}
