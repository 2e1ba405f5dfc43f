// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package preflight checks an input file locally before it is uploaded for
// text extraction, and records what it learned for the report.
package preflight

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rwcarlsen/goexif/exif"

	"compliance-tools/internal/failure"
)

// DefaultMaxFileSize is the largest file uploaded when no limit is configured.
const DefaultMaxFileSize int64 = 50 << 20

// Content kinds recognised locally.
const (
	KindPDF     = "pdf"
	KindImage   = "image"
	KindOffice  = "office"
	KindEmail   = "email"
	KindText    = "text"
	KindUnknown = "unknown"
)

// Info describes the source file. Fields that do not apply to the content
// kind are null.
type Info struct {
	FileName    string   `json:"FileName" yaml:"FileName"`
	SizeBytes   int64    `json:"SizeBytes" yaml:"SizeBytes"`
	SHA256      string   `json:"SHA256" yaml:"SHA256"`
	MediaType   string   `json:"MediaType" yaml:"MediaType"`
	ContentKind string   `json:"ContentKind" yaml:"ContentKind"`
	PageCount   *int     `json:"PageCount" yaml:"PageCount"`
	Encrypted   *bool    `json:"Encrypted" yaml:"Encrypted"`
	HasExif     *bool    `json:"HasExif" yaml:"HasExif"`
	CameraModel *string  `json:"CameraModel" yaml:"CameraModel"`
	Warnings    []string `json:"Warnings" yaml:"Warnings"`
}

// Check reads the file at path and inspects it. Missing, empty, non-regular
// or oversized files are configuration errors. Problems reading the document
// structure are only warnings; the service is the authority on extraction.
func Check(path string, maxSize int64) (*Info, []byte, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil, failure.Configuration("input file path is required")
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	st, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, failure.Configuration("input file %s does not exist", path)
		}
		return nil, nil, failure.WrapConfiguration(err, "cannot access input file %s", path)
	}
	if !st.Mode().IsRegular() {
		return nil, nil, failure.Configuration("input path %s is not a regular file", path)
	}
	if st.Size() == 0 {
		return nil, nil, failure.Configuration("input file %s is empty", path)
	}
	if st.Size() > maxSize {
		return nil, nil, failure.Configuration("input file %s is %d bytes, above the %d byte limit", path, st.Size(), maxSize)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, nil, failure.WrapConfiguration(err, "reading input file %s", path)
	}
	return Inspect(filepath.Base(path), data), data, nil
}

// Inspect describes in-memory file content.
func Inspect(name string, data []byte) *Info {
	sum := sha256.Sum256(data)
	info := &Info{
		FileName:  name,
		SizeBytes: int64(len(data)),
		SHA256:    hex.EncodeToString(sum[:]),
		MediaType: http.DetectContentType(data),
		Warnings:  []string{},
	}
	info.ContentKind = contentKind(name, info.MediaType)

	switch info.ContentKind {
	case KindPDF:
		inspectPDF(info, data)
	case KindImage:
		inspectImage(info, data)
	}
	return info
}

func contentKind(name, mediaType string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case mediaType == "application/pdf":
		return KindPDF
	case strings.HasPrefix(mediaType, "image/"):
		return KindImage
	}
	switch ext {
	case ".docx", ".xlsx", ".pptx", ".doc", ".xls", ".ppt", ".vsdx", ".one":
		return KindOffice
	case ".msg", ".eml":
		return KindEmail
	case ".txt", ".csv", ".xml", ".json", ".htm", ".html", ".md":
		return KindText
	}
	if strings.HasPrefix(mediaType, "text/") {
		return KindText
	}
	return KindUnknown
}

func inspectPDF(info *Info, data []byte) {
	if pages, err := pdfPageCount(data); err != nil {
		info.Warnings = append(info.Warnings, fmt.Sprintf("PDF page count unavailable: %v", err))
	} else {
		info.PageCount = &pages
	}

	ctx, err := readPDFContext(data)
	if err != nil {
		info.Warnings = append(info.Warnings, fmt.Sprintf("PDF structure could not be read locally: %v", err))
		return
	}
	encrypted := ctx.Encrypt != nil
	info.Encrypted = &encrypted
	if encrypted {
		info.Warnings = append(info.Warnings, "PDF is encrypted; the service may not be able to extract its text")
	}
	if info.PageCount == nil {
		pages := ctx.PageCount
		info.PageCount = &pages
	}
}

// readPDFContext recovers from panics raised by pdfcpu on malformed
// cross-reference or trailer data.
func readPDFContext(data []byte) (ctx *model.Context, err error) {
	defer func() {
		if r := recover(); r != nil {
			ctx, err = nil, fmt.Errorf("malformed PDF: %v", r)
		}
	}()
	return api.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
}

// pdfPageCount recovers from panics raised by the reader on malformed files.
func pdfPageCount(data []byte) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	return r.NumPage(), nil
}

func inspectImage(info *Info, data []byte) {
	hasExif := false
	info.HasExif = &hasExif
	info.Warnings = append(info.Warnings, "image files are only extracted when the tenant has OCR enabled")

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return
	}
	hasExif = true
	if tag, err := x.Get(exif.Model); err == nil {
		if camera, err := tag.StringVal(); err == nil {
			camera = strings.TrimSpace(strings.TrimRight(camera, "\x00"))
			if camera != "" {
				info.CameraModel = &camera
			}
		}
	}
}
