// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"compliance-tools/internal/formatters"

	"github.com/fatih/color"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"title":  color.New(color.FgWhite, color.Bold),
			"header": color.New(color.FgBlue, color.Bold),
			"note":   color.New(color.FgYellow),
			"empty":  color.New(color.FgCyan),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors and tables"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Binary() bool {
	return false
}

func (f *Formatter) Format(doc formatters.Document, options formatters.FormatterOptions) ([]byte, error) {
	// Disable colors if requested
	if options.NoColor {
		color.NoColor = true
	}

	table := doc.Table()
	var buf bytes.Buffer

	if table.Title != "" {
		buf.WriteString(f.colors["title"].Sprint(table.Title))
		buf.WriteString("\n")
		buf.WriteString(strings.Repeat("=", len(table.Title)))
		buf.WriteString("\n")
	}

	if len(table.Rows) == 0 {
		buf.WriteString(f.colors["empty"].Sprint("No entries."))
		buf.WriteString("\n")
	} else {
		// Columns are aligned before coloring so escape codes do not skew widths
		var tbl bytes.Buffer
		w := tabwriter.NewWriter(&tbl, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, strings.Join(table.Headers, "\t"))
		fmt.Fprintln(w, strings.Join(underline(table.Headers), "\t"))
		for _, row := range table.Rows {
			fmt.Fprintln(w, strings.Join(sanitizeRow(row), "\t"))
		}
		if err := w.Flush(); err != nil {
			return nil, err
		}
		header, rest, _ := strings.Cut(tbl.String(), "\n")
		buf.WriteString(f.colors["header"].Sprint(header))
		buf.WriteString("\n")
		buf.WriteString(rest)
	}

	for _, note := range table.Notes {
		buf.WriteString(f.colors["note"].Sprint(note))
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

func underline(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.Repeat("-", len(h))
	}
	return out
}

// sanitizeRow keeps each cell on one line so the table stays aligned
func sanitizeRow(row []string) []string {
	out := make([]string, len(row))
	replacer := strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")
	for i, cell := range row {
		out[i] = replacer.Replace(cell)
	}
	return out
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
