// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"strings"

	"compliance-tools/internal/remote"
	"compliance-tools/internal/resolve"
)

const (
	BodyStreamName       = "Body"
	AttachmentStreamName = "Attachment"
)

// Candidate fields observed on text extraction results.
var (
	streamListFields = resolve.Candidates{"ExtractedResults", "Streams", "Results"}
	streamTextFields = resolve.Candidates{"ExtractedStreamText", "ExtractedText", "Text", "Content"}
	streamIDFields   = resolve.Candidates{"StreamId", "StreamName", "Name", "Identity", "Id"}
	bodyFlagFields   = resolve.Candidates{"IsBody", "IsPrimary", "IsPrimaryStream"}
	streamTypeFields = resolve.Candidates{"StreamType", "Type", "Kind"}
	errorFields      = resolve.Candidates{"ErrorMessage", "Error", "FailureReason"}
	statusFields     = resolve.Candidates{"Status", "ExtractionStatus"}
)

// ExtractedStream is one stream of an extraction result with its derived name.
type ExtractedStream struct {
	Name     string
	Position int // position in the extraction result
	RawID    string
	HasRawID bool
	Text     string
	HasText  bool
}

// DeriveStreams names the streams of an extraction result. A stream marked as
// the body (or, failing that, the first stream) comes first and is named
// Body; the rest keep extraction order and are named Attachment, or
// Attachment-<n> when there is more than one.
func DeriveStreams(extraction *remote.Object) []ExtractedStream {
	raw := streamValues(extraction)
	if len(raw) == 0 {
		return []ExtractedStream{}
	}

	body := 0
	for i, v := range raw {
		if isBodyStream(v) {
			body = i
			break
		}
	}

	ordered := make([]ExtractedStream, 0, len(raw))
	ordered = append(ordered, describeStream(raw[body], body))
	for i, v := range raw {
		if i != body {
			ordered = append(ordered, describeStream(v, i))
		}
	}

	ordered[0].Name = BodyStreamName
	attachments := len(ordered) - 1
	for n := 1; n <= attachments; n++ {
		if attachments == 1 {
			ordered[n].Name = AttachmentStreamName
		} else {
			ordered[n].Name = fmt.Sprintf("%s-%d", AttachmentStreamName, n)
		}
	}
	return ordered
}

// FailureMessage reports whether the extraction result describes a failure
// and, if so, the service-provided message.
func FailureMessage(extraction *remote.Object) (string, bool) {
	if extraction == nil {
		return "no extraction result was returned", true
	}
	if msg, err := resolve.FieldString(extraction, errorFields); err == nil {
		return msg, true
	}
	if status, err := resolve.FieldString(extraction, statusFields); err == nil {
		switch strings.ToLower(status) {
		case "failed", "failure", "error":
			return fmt.Sprintf("extraction status %s", status), true
		}
	}
	return "", false
}

func streamValues(extraction *remote.Object) []remote.Value {
	if extraction == nil {
		return nil
	}
	v, err := resolve.Field(extraction, streamListFields)
	if err != nil {
		return nil
	}
	if list, ok := v.AsList(); ok {
		return list
	}
	// a single stream reported without a list wrapper
	return []remote.Value{v}
}

func isBodyStream(v remote.Value) bool {
	obj, ok := v.AsObject()
	if !ok {
		return false
	}
	for _, name := range bodyFlagFields {
		if b, ok := obj.Get(name).AsBool(); ok && b {
			return true
		}
	}
	kind, err := resolve.FieldString(obj, streamTypeFields)
	if err != nil {
		return false
	}
	switch strings.ToLower(kind) {
	case "body", "primary", "messagebody":
		return true
	}
	return false
}

func describeStream(v remote.Value, position int) ExtractedStream {
	s := ExtractedStream{Position: position}
	if text, ok := v.AsString(); ok {
		s.Text, s.HasText = text, true
		return s
	}
	obj, ok := v.AsObject()
	if !ok {
		return s
	}
	if id, err := resolve.FieldString(obj, streamIDFields); err == nil {
		s.RawID, s.HasRawID = id, true
	}
	for _, name := range streamTextFields {
		if text, ok := obj.Get(name).AsString(); ok {
			s.Text, s.HasText = text, true
			break
		}
	}
	return s
}

// StreamNames returns the derived stream names in report order.
func StreamNames(extraction *remote.Object) []string {
	streams := DeriveStreams(extraction)
	names := make([]string, len(streams))
	for i, s := range streams {
		names[i] = s.Name
	}
	return names
}
