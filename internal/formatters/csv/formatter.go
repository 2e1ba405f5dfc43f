// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"compliance-tools/internal/formatters"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Binary() bool {
	return false
}

func (f *Formatter) Format(doc formatters.Document, options formatters.FormatterOptions) ([]byte, error) {
	table := doc.Table()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(table.Headers); err != nil {
		return nil, fmt.Errorf("error formatting CSV: %w", err)
	}
	for _, row := range table.Rows {
		safe := make([]string, len(row))
		for i, cell := range row {
			safe[i] = SanitizeFormulaInjection(cell)
		}
		if err := w.Write(safe); err != nil {
			return nil, fmt.Errorf("error formatting CSV: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("error formatting CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// SanitizeFormulaInjection prevents CSV injection attacks by sanitizing formula characters
func SanitizeFormulaInjection(field string) string {
	if len(field) == 0 {
		return field
	}

	// Check if field starts with formula characters that could be dangerous in spreadsheets
	firstChar := field[0]
	if firstChar == '=' || firstChar == '+' || firstChar == '-' || firstChar == '@' {
		// Prefix with single quote to prevent formula execution
		return "'" + field
	}

	return field
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
