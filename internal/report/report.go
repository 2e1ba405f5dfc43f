// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package report joins a text extraction result with optional per-stream
// classification results into one document whose shape never varies.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"compliance-tools/internal/formatters"
	"compliance-tools/internal/preflight"
	"compliance-tools/internal/remote"
	"compliance-tools/internal/resolve"
)

// Status is the overall outcome recorded in a report.
type Status string

const (
	StatusSucceeded Status = "Succeeded"
	StatusFailed    Status = "Failed"
)

// Report is the output document of a text extraction run. Absent values are
// serialized as null, never omitted.
type Report struct {
	SourceFile              string          `json:"SourceFile" yaml:"SourceFile"`
	Streams                 []Stream        `json:"Streams" yaml:"Streams"`
	Extraction              *remote.Object  `json:"Extraction" yaml:"Extraction"`
	DataClassification      *remote.Object  `json:"DataClassification" yaml:"DataClassification"`
	ClassificationRequested bool            `json:"ClassificationRequested" yaml:"ClassificationRequested"`
	Status                  Status          `json:"Status" yaml:"Status"`
	Error                   *string         `json:"Error" yaml:"Error"`
	Source                  *preflight.Info `json:"Source" yaml:"Source"`
}

// Stream is the normalized view of one extracted stream.
type Stream struct {
	Name            string         `json:"Name" yaml:"Name"`
	Classification  *remote.Object `json:"Classification" yaml:"Classification"`
	ExtractionIndex int            `json:"ExtractionIndex" yaml:"ExtractionIndex"`
	RawID           *string        `json:"RawId" yaml:"RawId"`
	Text            *string        `json:"Text" yaml:"Text"`
	TextLength      int            `json:"TextLength" yaml:"TextLength"`
}

// Classifications holds classification results keyed by derived stream name,
// in insertion order.
type Classifications struct {
	names   []string
	results map[string]*remote.Object
}

// NewClassifications returns an empty set.
func NewClassifications() *Classifications {
	return &Classifications{results: make(map[string]*remote.Object)}
}

// Add records the result for a stream. A nil result is kept as an explicit null.
func (c *Classifications) Add(stream string, result *remote.Object) {
	if _, exists := c.results[stream]; !exists {
		c.names = append(c.names, stream)
	}
	c.results[stream] = result
}

// Lookup returns the result recorded for stream.
func (c *Classifications) Lookup(stream string) (*remote.Object, bool) {
	if c == nil {
		return nil, false
	}
	r, ok := c.results[stream]
	return r, ok
}

// Names returns the stream names in insertion order.
func (c *Classifications) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Assemble builds the report. It never fails: an extraction that reports an
// error yields a report with no streams and a Failed status. When
// classification is nil, classification was not requested and every stream
// carries a null classification.
func Assemble(sourceFile string, extraction *remote.Object, classification *Classifications) *Report {
	r := &Report{
		SourceFile:              sourceFile,
		Streams:                 []Stream{},
		Extraction:              extraction,
		ClassificationRequested: classification != nil,
		Status:                  StatusSucceeded,
	}

	if msg, failed := FailureMessage(extraction); failed {
		r.Status = StatusFailed
		r.Error = &msg
	} else {
		for _, s := range DeriveStreams(extraction) {
			rec := Stream{
				Name:            s.Name,
				ExtractionIndex: s.Position,
			}
			if s.HasRawID {
				id := s.RawID
				rec.RawID = &id
			}
			if s.HasText {
				text := s.Text
				rec.Text = &text
				rec.TextLength = len([]rune(text))
			}
			if result, ok := classification.Lookup(s.Name); ok {
				rec.Classification = result
			}
			r.Streams = append(r.Streams, rec)
		}
	}

	if classification != nil {
		r.DataClassification = classificationDocument(r.Streams, classification)
	}
	return r
}

// classificationDocument lists results in stream order with explicit nulls
// for streams that were not classified. Results for names that match no
// stream are appended so nothing the service returned is lost.
func classificationDocument(streams []Stream, c *Classifications) *remote.Object {
	doc := remote.NewObject()
	for _, s := range streams {
		doc.Set(s.Name, remote.ObjectValue(s.Classification))
	}
	for _, name := range c.Names() {
		if _, seen := doc.Lookup(name); seen {
			continue
		}
		result, _ := c.Lookup(name)
		doc.Set(name, remote.ObjectValue(result))
	}
	return doc
}

var (
	findingListFields  = resolve.Candidates{"ClassificationResults", "Results", "SensitiveInformationTypes"}
	findingNameFields  = resolve.Candidates{"ClassificationName", "SensitiveInformationTypeName", "Name", "Id"}
	findingCountFields = resolve.Candidates{"Count", "MatchCount"}
)

// Findings summarizes the sensitive information types in a classification
// result as "name (count)" strings.
func Findings(result *remote.Object) []string {
	if result == nil {
		return nil
	}
	v, err := resolve.Field(result, findingListFields)
	if err != nil {
		return nil
	}
	list, ok := v.AsList()
	if !ok {
		list = []remote.Value{v}
	}
	var out []string
	for _, item := range list {
		obj, ok := item.AsObject()
		if !ok {
			continue
		}
		name, err := resolve.FieldString(obj, findingNameFields)
		if err != nil {
			continue
		}
		if count, err := resolve.FieldString(obj, findingCountFields); err == nil {
			name = fmt.Sprintf("%s (%s)", name, count)
		}
		out = append(out, name)
	}
	return out
}

// Table renders one row per stream.
func (r *Report) Table() formatters.Table {
	t := formatters.Table{
		Title:   "Text extraction: " + r.SourceFile,
		Headers: []string{"Stream", "Raw ID", "Characters", "Sensitive information types"},
	}
	for _, s := range r.Streams {
		rawID := ""
		if s.RawID != nil {
			rawID = *s.RawID
		}
		findings := "not classified"
		if s.Classification != nil {
			if names := Findings(s.Classification); len(names) > 0 {
				findings = strings.Join(names, "; ")
			} else {
				findings = "none"
			}
		}
		t.Rows = append(t.Rows, []string{s.Name, rawID, strconv.Itoa(s.TextLength), findings})
	}
	t.Notes = append(t.Notes, "Status: "+string(r.Status))
	if r.Error != nil {
		t.Notes = append(t.Notes, "Error: "+*r.Error)
	}
	return t
}
