// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package dictionary prepares keyword lists for New-DlpKeywordDictionary.
package dictionary

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"compliance-tools/internal/failure"
	"compliance-tools/internal/formatters"
	"compliance-tools/internal/remote"
	"compliance-tools/internal/resolve"
)

// MaxPayloadBytes is the largest keyword payload the service accepts.
const MaxPayloadBytes = 1 << 20

// ParseKeywords reads keywords separated by newlines or commas. Lines
// starting with '#' are comments.
func ParseKeywords(r io.Reader) ([]string, error) {
	var keywords []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxPayloadBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if strings.HasPrefix(line, "#") {
			continue
		}
		keywords = append(keywords, strings.Split(line, ",")...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return keywords, nil
}

// ReadKeywordsFile parses a keyword file.
func ReadKeywordsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, failure.Configuration("keywords file %s does not exist", path)
		}
		return nil, failure.WrapConfiguration(err, "cannot read keywords file")
	}
	defer f.Close()

	keywords, err := ParseKeywords(f)
	if err != nil {
		return nil, failure.WrapConfiguration(err, "cannot read keywords file %s", path)
	}
	return keywords, nil
}

// Normalize trims every keyword, drops empty ones, and removes duplicates
// ignoring case. The first spelling and the original order are kept.
func Normalize(lists ...[]string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, list := range lists {
		for _, k := range list {
			k = strings.TrimSpace(k)
			if k == "" {
				continue
			}
			key := strings.ToLower(k)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, k)
		}
	}
	return out
}

// Encode joins keywords with CRLF and encodes them as UTF-16LE without a
// byte order mark.
func Encode(keywords []string) ([]byte, error) {
	if len(keywords) == 0 {
		return nil, failure.Configuration("no keywords given; use --keywords-file or --keyword")
	}
	encoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	data, err := encoder.Bytes([]byte(strings.Join(keywords, "\r\n")))
	if err != nil {
		return nil, failure.WrapConfiguration(err, "cannot encode keywords")
	}
	if len(data) > MaxPayloadBytes {
		return nil, failure.Configuration("keyword payload is %d bytes; the service accepts at most %d", len(data), MaxPayloadBytes)
	}
	return data, nil
}

// Decode reverses Encode.
func Decode(data []byte) ([]string, error) {
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	text, err := decoder.Bytes(data)
	if err != nil {
		return nil, err
	}
	if len(text) == 0 {
		return []string{}, nil
	}
	return strings.Split(string(text), "\r\n"), nil
}

// Summary is the output document for a created dictionary.
type Summary struct {
	Name        string         `json:"Name" yaml:"Name"`
	Description *string        `json:"Description" yaml:"Description"`
	Identity    *string        `json:"Identity" yaml:"Identity"`
	Keywords    int            `json:"KeywordCount" yaml:"KeywordCount"`
	Result      *remote.Object `json:"Result" yaml:"Result"`
}

// NewSummary describes the dictionary the service returned.
func NewSummary(name, description string, keywords int, result *remote.Object) *Summary {
	s := &Summary{Name: name, Keywords: keywords, Result: result}
	if description != "" {
		s.Description = &description
	}
	if identity, err := resolve.FieldString(result, resolve.IdentityFields); err == nil {
		s.Identity = &identity
	}
	return s
}

// Table renders the summary as a single row.
func (s *Summary) Table() formatters.Table {
	identity := ""
	if s.Identity != nil {
		identity = *s.Identity
	}
	return formatters.Table{
		Title:   "Keyword dictionary",
		Headers: []string{"Name", "Identity", "Keywords"},
		Rows:    [][]string{{s.Name, identity, strconv.Itoa(s.Keywords)}},
	}
}
