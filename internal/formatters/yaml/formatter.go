// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"bytes"
	"fmt"

	"compliance-tools/internal/formatters"

	"gopkg.in/yaml.v3"
)

// Formatter implements YAML output formatting
type Formatter struct{}

// NewFormatter creates a new YAML formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "yaml"
}

func (f *Formatter) Description() string {
	return "YAML format output, same structure as JSON"
}

func (f *Formatter) FileExtension() string {
	return ".yaml"
}

func (f *Formatter) Binary() bool {
	return false
}

func (f *Formatter) Format(doc formatters.Document, options formatters.FormatterOptions) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("error formatting YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("error formatting YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
