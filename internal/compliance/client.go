// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package compliance wraps the cmdlets the tools call.
package compliance

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"compliance-tools/internal/remote"
	"compliance-tools/internal/report"
	"compliance-tools/internal/session"
)

// Cmdlet names
const (
	CmdletTextExtraction     = "Test-TextExtraction"
	CmdletDataClassification = "Test-DataClassification"
	CmdletListRulePackages   = "Get-DlpSensitiveInformationTypeRulePackage"
	CmdletNewDictionary      = "New-DlpKeywordDictionary"
)

// Client runs cmdlets over one session.
type Client struct {
	session session.Session
	logger  *zap.Logger
}

// New returns a client. The caller keeps ownership of s.
func New(s session.Session, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{session: s, logger: logger}
}

// TestTextExtraction uploads a file and returns the extraction result, or
// nil when the service returned nothing.
func (c *Client) TestTextExtraction(ctx context.Context, fileData []byte) (*remote.Object, error) {
	params := remote.NewObject().Set("FileData", remote.Bytes(fileData))
	results, err := c.session.Invoke(ctx, CmdletTextExtraction, params)
	if err != nil {
		return nil, err
	}
	return first(results), nil
}

// TestDataClassification classifies one block of text.
func (c *Client) TestDataClassification(ctx context.Context, text string) (*remote.Object, error) {
	params := remote.NewObject().Set("TextToClassify", remote.String(text))
	results, err := c.session.Invoke(ctx, CmdletDataClassification, params)
	if err != nil {
		return nil, err
	}
	return first(results), nil
}

// ClassifyStreams classifies every extracted stream that carries text,
// keyed by derived stream name. Streams without text are left out and
// show up as null in the report. The first failing call ends the run.
func (c *Client) ClassifyStreams(ctx context.Context, extraction *remote.Object) (*report.Classifications, error) {
	classifications := report.NewClassifications()
	if _, failed := report.FailureMessage(extraction); failed {
		return classifications, nil
	}

	for _, stream := range report.DeriveStreams(extraction) {
		if !stream.HasText || strings.TrimSpace(stream.Text) == "" {
			c.logger.Info("skipping stream without text", zap.String("stream", stream.Name))
			continue
		}
		result, err := c.TestDataClassification(ctx, stream.Text)
		if err != nil {
			return nil, err
		}
		if result != nil {
			classifications.Add(stream.Name, result)
		}
	}
	return classifications, nil
}

// ListRulePackages returns every classification rule package in the tenant.
func (c *Client) ListRulePackages(ctx context.Context) ([]*remote.Object, error) {
	return c.session.Invoke(ctx, CmdletListRulePackages, nil)
}

// DictionaryRequest holds the New-DlpKeywordDictionary parameters.
type DictionaryRequest struct {
	Name        string
	Description string
	FileData    []byte
}

// NewKeywordDictionary creates a keyword dictionary.
func (c *Client) NewKeywordDictionary(ctx context.Context, req DictionaryRequest) (*remote.Object, error) {
	params := remote.NewObject().Set("Name", remote.String(req.Name))
	if req.Description != "" {
		params.Set("Description", remote.String(req.Description))
	}
	params.Set("FileData", remote.Bytes(req.FileData))

	results, err := c.session.Invoke(ctx, CmdletNewDictionary, params)
	if err != nil {
		return nil, err
	}
	return first(results), nil
}

func first(results []*remote.Object) *remote.Object {
	if len(results) == 0 {
		return nil
	}
	return results[0]
}
