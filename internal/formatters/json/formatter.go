// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"bytes"
	"encoding/json"
	"fmt"

	"compliance-tools/internal/formatters"
)

// Formatter implements JSON output formatting
type Formatter struct{}

// NewFormatter creates a new JSON formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Structured JSON output for programmatic consumption"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

func (f *Formatter) Binary() bool {
	return false
}

// Format serializes the document itself. HTML escaping is disabled so XML
// payloads carried in reports stay readable.
func (f *Formatter) Format(doc formatters.Document, options formatters.FormatterOptions) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if !options.Compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("error formatting JSON: %w", err)
	}
	return buf.Bytes(), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
