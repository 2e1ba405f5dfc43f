// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliance-tools/internal/remote"
)

func decode(t *testing.T, data string) *remote.Object {
	t.Helper()
	obj, err := remote.DecodeObject([]byte(data))
	require.NoError(t, err)
	return obj
}

func streamNames(r *Report) []string {
	names := make([]string, 0, len(r.Streams))
	for _, s := range r.Streams {
		names = append(names, s.Name)
	}
	return names
}

const threeStreams = `{
	"ExtractedResults": [
		{"StreamId": "att-a", "ExtractedStreamText": "first attachment"},
		{"StreamId": "msg", "IsBody": true, "ExtractedStreamText": "hello body"},
		{"StreamId": "att-b", "ExtractedStreamText": "second attachment"}
	]
}`

func TestAssemble_BodyFirstThenNumberedAttachments(t *testing.T) {
	r := Assemble("mail.msg", decode(t, threeStreams), nil)

	if diff := cmp.Diff([]string{"Body", "Attachment-1", "Attachment-2"}, streamNames(r)); diff != "" {
		t.Errorf("stream names mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, r.Streams[0].ExtractionIndex)
	assert.Equal(t, "msg", *r.Streams[0].RawID)
	assert.Equal(t, 0, r.Streams[1].ExtractionIndex)
	assert.Equal(t, 2, r.Streams[2].ExtractionIndex)
}

func TestAssemble_FirstStreamIsBodyWithoutMarker(t *testing.T) {
	extraction := decode(t, `{"ExtractedResults":[{"StreamId":"s0"},{"StreamId":"s1"}]}`)
	assert.Equal(t, []string{"Body", "Attachment"}, StreamNames(extraction))
}

func TestAssemble_StreamTypeMarksBody(t *testing.T) {
	extraction := decode(t, `{"Streams":[{"Id":"a"},{"Id":"b","StreamType":"MessageBody"}]}`)
	r := Assemble("mail.eml", extraction, nil)
	require.Len(t, r.Streams, 2)
	assert.Equal(t, "b", *r.Streams[0].RawID)
	assert.Equal(t, "Attachment", r.Streams[1].Name)
}

func TestAssemble_NoClassificationRequested(t *testing.T) {
	r := Assemble("mail.msg", decode(t, threeStreams), nil)

	assert.Len(t, r.Streams, 3)
	assert.False(t, r.ClassificationRequested)
	assert.Nil(t, r.DataClassification)
	for _, s := range r.Streams {
		assert.Nil(t, s.Classification, s.Name)
	}
}

func TestAssemble_PartialClassificationIsNull(t *testing.T) {
	body := decode(t, `{"ClassificationResults":[{"ClassificationName":"Credit Card Number","Count":2}]}`)
	classification := NewClassifications()
	classification.Add("Body", body)

	r := Assemble("mail.msg", decode(t, threeStreams), classification)

	assert.Equal(t, StatusSucceeded, r.Status)
	assert.True(t, r.ClassificationRequested)
	assert.Same(t, body, r.Streams[0].Classification)
	assert.Nil(t, r.Streams[1].Classification)
	assert.Nil(t, r.Streams[2].Classification)

	require.NotNil(t, r.DataClassification)
	assert.Equal(t, []string{"Body", "Attachment-1", "Attachment-2"}, r.DataClassification.Names())
	assert.True(t, r.DataClassification.Get("Attachment-1").IsNull())
}

func TestAssemble_KeepsUnmatchedClassification(t *testing.T) {
	classification := NewClassifications()
	classification.Add("Attachment-7", remote.NewObject().Set("Note", remote.String("orphan")))

	r := Assemble("mail.msg", decode(t, threeStreams), classification)
	assert.Equal(t, []string{"Body", "Attachment-1", "Attachment-2", "Attachment-7"}, r.DataClassification.Names())
}

func TestAssemble_CarriesExtractionVerbatim(t *testing.T) {
	extraction := decode(t, threeStreams)
	r := Assemble("mail.msg", extraction, nil)
	assert.Same(t, extraction, r.Extraction)
}

func TestAssemble_TextLengthCountsCharacters(t *testing.T) {
	r := Assemble("note.txt", decode(t, `{"ExtractedResults":[{"ExtractedStreamText":"héllo"}]}`), nil)
	require.Len(t, r.Streams, 1)
	assert.Equal(t, 5, r.Streams[0].TextLength)
	assert.Nil(t, r.Streams[0].RawID)
}

func TestAssemble_SingleStreamWithoutList(t *testing.T) {
	r := Assemble("a.txt", decode(t, `{"ExtractedResults":{"StreamId":"only"}}`), nil)
	assert.Equal(t, []string{"Body"}, streamNames(r))
}

func TestAssemble_ExtractionFailure(t *testing.T) {
	r := Assemble("movie.mkv", decode(t, `{"ErrorMessage":"File type not supported","ExtractedResults":[{"StreamId":"x"}]}`), NewClassifications())

	assert.Equal(t, StatusFailed, r.Status)
	assert.Empty(t, r.Streams)
	require.NotNil(t, r.Error)
	assert.Equal(t, "File type not supported", *r.Error)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Streams":[]`)
	assert.NoError(t, r.Check())
}

func TestAssemble_FailedStatus(t *testing.T) {
	r := Assemble("a.pdf", decode(t, `{"Status":"Failed"}`), nil)
	assert.Equal(t, StatusFailed, r.Status)
	assert.Equal(t, "extraction status Failed", *r.Error)
}

func TestAssemble_NilExtraction(t *testing.T) {
	r := Assemble("a.pdf", nil, nil)
	assert.Equal(t, StatusFailed, r.Status)
	assert.NotNil(t, r.Streams)
}

func TestAssemble_SerializationIsDeterministic(t *testing.T) {
	build := func() []byte {
		classification := NewClassifications()
		classification.Add("Attachment-2", decode(t, `{"ClassificationResults":[]}`))
		classification.Add("Body", decode(t, `{"ClassificationResults":[{"ClassificationName":"SSN","Count":1}]}`))
		data, err := json.Marshal(Assemble("mail.msg", decode(t, threeStreams), classification))
		require.NoError(t, err)
		return data
	}
	assert.Equal(t, string(build()), string(build()))
}

func TestAssemble_InvoiceScenario(t *testing.T) {
	extraction := decode(t, `{"ExtractedResults":[{"StreamId":"stream0","ExtractedStreamText":"Invoice 42"}]}`)
	data, err := json.Marshal(Assemble("invoice.pdf", extraction, nil))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(data),
		`{"SourceFile":"invoice.pdf","Streams":[{"Name":"Body","Classification":null,"ExtractionIndex":0,"RawId":"stream0","Text":"Invoice 42","TextLength":10}]`),
		string(data))
	assert.Contains(t, string(data), `"DataClassification":null`)
	assert.Contains(t, string(data), `"Error":null`)
}

func TestCheck_MatchesSchema(t *testing.T) {
	classification := NewClassifications()
	classification.Add("Body", decode(t, `{"ClassificationResults":[]}`))

	assert.NoError(t, Assemble("mail.msg", decode(t, threeStreams), nil).Check())
	assert.NoError(t, Assemble("mail.msg", decode(t, threeStreams), classification).Check())
}

func TestCheck_RejectsStreamNameOutsideScheme(t *testing.T) {
	r := Assemble("mail.msg", decode(t, threeStreams), nil)
	require.NoError(t, r.Check())

	r.Streams[0].Name = "Stream0"
	assert.Error(t, r.Check())
}

func TestValidate_RejectsShapeChanges(t *testing.T) {
	assert.Error(t, Validate([]byte(`{"SourceFile":"x"}`)))

	data, err := json.Marshal(Assemble("a.txt", decode(t, `{"ExtractedResults":[{"StreamId":"s"}]}`), nil))
	require.NoError(t, err)
	renamed := strings.Replace(string(data), `"Name":"Body"`, `"Name":"Primary"`, 1)
	assert.Error(t, Validate([]byte(renamed)))
}

func TestFindings(t *testing.T) {
	result := decode(t, `{"ClassificationResults":[
		{"ClassificationName":"Credit Card Number","Count":2},
		{"SensitiveInformationTypeName":"U.S. Social Security Number (SSN)"},
		"noise"
	]}`)
	assert.Equal(t, []string{"Credit Card Number (2)", "U.S. Social Security Number (SSN)"}, Findings(result))
	assert.Nil(t, Findings(nil))
	assert.Empty(t, Findings(remote.NewObject()))
}

func TestTable(t *testing.T) {
	classification := NewClassifications()
	classification.Add("Body", decode(t, `{"ClassificationResults":[{"ClassificationName":"SSN","Count":1}]}`))
	classification.Add("Attachment-1", decode(t, `{"ClassificationResults":[]}`))

	table := Assemble("mail.msg", decode(t, threeStreams), classification).Table()

	want := [][]string{
		{"Body", "msg", "10", "SSN (1)"},
		{"Attachment-1", "att-a", "16", "none"},
		{"Attachment-2", "att-b", "17", "not classified"},
	}
	if diff := cmp.Diff(want, table.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"Status: Succeeded"}, table.Notes)
}
