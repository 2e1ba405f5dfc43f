// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema returns the JSON Schema every serialized report satisfies. All
// properties are required so a missing field is caught as a shape change.
func Schema() map[string]any {
	objectOrNull := map[string]any{"type": []string{"object", "null"}}
	stringOrNull := map[string]any{"type": []string{"string", "null"}}

	stream := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"Name":            map[string]any{"type": "string", "pattern": `^(Body|Attachment(-[1-9][0-9]*)?)$`},
			"Classification":  objectOrNull,
			"ExtractionIndex": map[string]any{"type": "integer", "minimum": 0},
			"RawId":           stringOrNull,
			"Text":            stringOrNull,
			"TextLength":      map[string]any{"type": "integer", "minimum": 0},
		},
		"required": []string{"Name", "Classification", "ExtractionIndex", "RawId", "Text", "TextLength"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"SourceFile":              map[string]any{"type": "string"},
			"Streams":                 map[string]any{"type": "array", "items": stream},
			"Extraction":              objectOrNull,
			"DataClassification":      objectOrNull,
			"ClassificationRequested": map[string]any{"type": "boolean"},
			"Status":                  map[string]any{"enum": []string{string(StatusSucceeded), string(StatusFailed)}},
			"Error":                   stringOrNull,
			"Source":                  objectOrNull,
		},
		"required": []string{
			"SourceFile", "Streams", "Extraction", "DataClassification",
			"ClassificationRequested", "Status", "Error", "Source",
		},
	}
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func compileSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = buildSchema()
	})
	return compiledSchema, schemaErr
}

func buildSchema() (*jsonschema.Schema, error) {
	b, err := json.Marshal(Schema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("report.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("report.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// Validate checks a serialized report against Schema.
func Validate(data []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal report: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("report does not match schema: %w", err)
	}
	return nil
}

// Check serializes r and validates it.
func (r *Report) Check() error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return Validate(data)
}
