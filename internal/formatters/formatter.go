// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"fmt"
	"sort"
	"strings"
)

// Table is the tabular view of an output document, used by the row-oriented
// formats (text, csv, xlsx).
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Notes   []string
}

// Document is anything the tools print or write. Structured formats
// (json, yaml) serialize the document itself; the others render Table().
type Document interface {
	Table() Table
}

// FormatterOptions defines configuration options for formatters
type FormatterOptions struct {
	NoColor bool // Whether to disable colored output
	Compact bool // Whether to emit compact structured output
}

// Formatter interface defines methods that all output formatters must implement
type Formatter interface {
	// Format renders the document in the formatter's output format
	Format(doc Document, options FormatterOptions) ([]byte, error)

	// Name returns the name of the formatter (e.g., "json", "text", "csv")
	Name() string

	// Description returns a brief description of what this formatter outputs
	Description() string

	// FileExtension returns the recommended file extension for this format (e.g., ".json", ".txt", ".csv")
	FileExtension() string

	// Binary reports whether the output must be written to a file rather than a terminal
	Binary() bool
}

// Registry holds all registered formatters
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates a new formatter registry
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
	}
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name
func (r *Registry) Get(name string) (Formatter, bool) {
	formatter, exists := r.formatters[name]
	return formatter, exists
}

// List returns all registered formatter names, sorted
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry
var DefaultRegistry = NewRegistry()

// Register is a convenience function to register a formatter with the default registry
func Register(formatter Formatter) {
	DefaultRegistry.Register(formatter)
}

// Get is a convenience function to get a formatter from the default registry
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// List is a convenience function to list all formatters in the default registry
func List() []string {
	return DefaultRegistry.List()
}

// Lookup returns the named formatter or an error listing the available ones
func Lookup(format string) (Formatter, error) {
	formatter, exists := Get(format)
	if !exists {
		return nil, fmt.Errorf("unsupported format '%s'. Available formats: %s", format, strings.Join(List(), ", "))
	}
	return formatter, nil
}

// Export formats a document with the named formatter
func Export(format string, doc Document, options FormatterOptions) ([]byte, error) {
	formatter, err := Lookup(format)
	if err != nil {
		return nil, err
	}
	return formatter.Format(doc, options)
}
