// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"compliance-tools/internal/formatters"
	_ "compliance-tools/internal/formatters/csv"
	_ "compliance-tools/internal/formatters/json"
	_ "compliance-tools/internal/formatters/text"
	_ "compliance-tools/internal/formatters/xlsx"
	_ "compliance-tools/internal/formatters/yaml"
)

type listing struct {
	Items []string `json:"Items" yaml:"Items"`
	Note  *string  `json:"Note" yaml:"Note"`
}

func (l listing) Table() formatters.Table {
	t := formatters.Table{Title: "Rule packages", Headers: []string{"#", "Name"}}
	for i, item := range l.Items {
		t.Rows = append(t.Rows, []string{string(rune('1' + i)), item})
	}
	return t
}

func TestRegistry_ListsAllFormats(t *testing.T) {
	assert.Equal(t, []string{"csv", "json", "text", "xlsx", "yaml"}, formatters.List())

	_, err := formatters.Lookup("sarif")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available formats: csv, json, text, xlsx, yaml")
}

func TestJSON_KeepsNullsAndMarkup(t *testing.T) {
	out, err := formatters.Export("json", listing{Items: []string{"<Rules/>"}}, formatters.FormatterOptions{Compact: true})
	require.NoError(t, err)
	assert.Equal(t, `{"Items":["<Rules/>"],"Note":null}`+"\n", string(out))
}

func TestYAML_KeepsNulls(t *testing.T) {
	out, err := formatters.Export("yaml", listing{Items: []string{"a"}}, formatters.FormatterOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Items:\n  - a\nNote: null\n", string(out))
}

func TestCSV_NeutralizesFormulas(t *testing.T) {
	out, err := formatters.Export("csv", listing{Items: []string{"=SUM(A1)", "plain, with comma"}}, formatters.FormatterOptions{})
	require.NoError(t, err)
	assert.Equal(t, "#,Name\n1,'=SUM(A1)\n2,\"plain, with comma\"\n", string(out))
}

func TestText_RendersTable(t *testing.T) {
	out, err := formatters.Export("text", listing{Items: []string{"Default", "Finance"}}, formatters.FormatterOptions{NoColor: true})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Rule packages", lines[0])
	assert.Equal(t, "#  Name", lines[2])
	assert.Equal(t, "2  Finance", lines[5])
}

func TestText_EmptyTable(t *testing.T) {
	out, err := formatters.Export("text", listing{}, formatters.FormatterOptions{NoColor: true})
	require.NoError(t, err)
	assert.Contains(t, string(out), "No entries.")
}

func TestXLSX_WritesWorkbook(t *testing.T) {
	f, ok := formatters.Get("xlsx")
	require.True(t, ok)
	assert.True(t, f.Binary())

	out, err := f.Format(listing{Items: []string{"Default"}}, formatters.FormatterOptions{})
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Results")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"#", "Name"}, {"1", "Default"}}, rows)
}
