// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliance-tools/internal/remote"
)

func TestField_FirstNonEmptyCandidateWins(t *testing.T) {
	obj := remote.NewObject().
		Set("Name", remote.String("   ")).
		Set("DisplayName", remote.String("Finance")).
		Set("LocalizedName", remote.Null())

	v, err := Field(obj, Candidates{"LocalizedName", "Name", "DisplayName", "Identity"})
	require.NoError(t, err)
	assert.Equal(t, "Finance", v.Text())
}

func TestField_PriorityOrderNotFieldOrder(t *testing.T) {
	obj := remote.NewObject().
		Set("Id", remote.String("second")).
		Set("Identity", remote.String("first"))

	v, err := Field(obj, Candidates{"Identity", "Id"})
	require.NoError(t, err)
	assert.Equal(t, "first", v.Text())
}

func TestField_NotFoundNamesCandidates(t *testing.T) {
	obj := remote.NewObject().
		Set("Identity", remote.String("")).
		Set("Blob", remote.Bytes(nil))

	_, err := Field(obj, Candidates{"Identity", "Blob", "Missing"})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "Identity, Blob, Missing")
}

func TestField_NilObject(t *testing.T) {
	var obj *remote.Object
	_, err := Field(obj, IdentityFields)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFieldString_SkipsBinary(t *testing.T) {
	obj := remote.NewObject().
		Set("Name", remote.Bytes([]byte("raw"))).
		Set("DisplayName", remote.String(" Default "))

	s, err := FieldString(obj, Candidates{"Name", "DisplayName"})
	require.NoError(t, err)
	assert.Equal(t, "Default", s)
}

func TestPayload_CandidateBeforeScan(t *testing.T) {
	obj := remote.NewObject().
		Set("Other", remote.String("<Other/>")).
		Set("SerializedClassificationRuleCollection", remote.Bytes([]byte{0xFF, 0xFE, '<', 0}))

	v, err := Payload(obj, PayloadFields)
	require.NoError(t, err)
	raw, ok := v.AsBytes()
	require.True(t, ok, "byte payloads must not be coerced to text")
	assert.Equal(t, []byte{0xFF, 0xFE, '<', 0}, raw)
}

func TestPayload_FallbackScanInFieldOrder(t *testing.T) {
	obj := remote.NewObject().
		Set("Identity", remote.String("Microsoft Rule Package")).
		Set("Comment", remote.String("not xml")).
		Set("Body", remote.String("\n  <RulePackage/>")).
		Set("Blob", remote.Bytes([]byte("later")))

	v, err := Payload(obj, PayloadFields)
	require.NoError(t, err)
	s, ok := v.AsString()
	require.True(t, ok)
	assert.Equal(t, "\n  <RulePackage/>", s)
}

func TestPayload_FallbackFindsBytes(t *testing.T) {
	obj := remote.NewObject().
		Set("Empty", remote.Bytes([]byte{})).
		Set("Data", remote.Bytes([]byte("x")))

	v, err := Payload(obj, PayloadFields)
	require.NoError(t, err)
	assert.Equal(t, remote.KindBytes, v.Kind())
}

func TestPayload_NotFound(t *testing.T) {
	obj := remote.NewObject().
		Set("Identity", remote.String("x")).
		Set("Count", remote.Number("4"))

	_, err := Payload(obj, PayloadFields)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "SerializedClassificationRuleCollection")
}

func numbered(names ...string) []Item {
	items := make([]Item, 0, len(names))
	for i, n := range names {
		items = append(items, Item{Index: i + 1, Name: n})
	}
	return items
}

func TestSelect_ByIndex(t *testing.T) {
	items := numbered("a", "b", "c", "d", "e")

	item, err := Select(items, "2")
	require.NoError(t, err)
	assert.Equal(t, 2, item.Index)
	assert.Equal(t, "b", item.Name)
}

func TestSelect_IndexOutOfRange(t *testing.T) {
	items := numbered("a", "b", "c", "d", "e")

	for _, token := range []string{"6", "0", "-1"} {
		_, err := Select(items, token)
		assert.ErrorIs(t, err, ErrOutOfRange, "token %q", token)
	}
}

func TestSelect_ByName(t *testing.T) {
	item, err := Select(numbered("Default", "Finance"), "Finance")
	require.NoError(t, err)
	assert.Equal(t, 2, item.Index)
}

func TestSelect_NameIsCaseSensitive(t *testing.T) {
	_, err := Select(numbered("Finance"), "finance")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSelect_NameKeepsSurroundingSpaces(t *testing.T) {
	_, err := Select(numbered("Default", "Finance"), " Finance")
	assert.ErrorIs(t, err, ErrNotFound)

	item, err := Select(numbered("Default", " Finance "), " Finance ")
	require.NoError(t, err)
	assert.Equal(t, 2, item.Index)

	item, err = Select(numbered("Default", "Finance"), " 2 ")
	require.NoError(t, err)
	assert.Equal(t, "Finance", item.Name)
}

func TestSelect_Ambiguous(t *testing.T) {
	_, err := Select(numbered("Finance", "HR", "Finance"), "Finance")
	require.ErrorIs(t, err, ErrAmbiguousSelection)
	assert.Contains(t, err.Error(), "1, 3")

	_, err = Select(numbered("Default", "Default"), "Default")
	assert.ErrorIs(t, err, ErrAmbiguousSelection)
}

func TestSelect_Empty(t *testing.T) {
	_, err := Select(numbered("a"), "  ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItems_ResolvesNamesAndIdentity(t *testing.T) {
	objs := []*remote.Object{
		remote.NewObject().Set("Identity", remote.String("id-1")).Set("LocalizedName", remote.String("Microsoft Rule Package")),
		remote.NewObject().Set("Identity", remote.String("id-2")),
		remote.NewObject(),
	}

	items := Items(objs, NameFields, IdentityFields)
	require.Len(t, items, 3)
	assert.Equal(t, Item{Index: 1, Name: "Microsoft Rule Package", Identity: "id-1", Object: objs[0]}, items[0])
	assert.Equal(t, "id-2", items[1].Name, "name falls back to identity")
	assert.Equal(t, "item 3", items[2].Name)
}
