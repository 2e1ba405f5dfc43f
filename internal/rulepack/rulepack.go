// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package rulepack lists classification rule packages and exports one of
// them to a file.
package rulepack

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"compliance-tools/internal/failure"
	"compliance-tools/internal/formatters"
	"compliance-tools/internal/paths"
	"compliance-tools/internal/platform"
	"compliance-tools/internal/remote"
	"compliance-tools/internal/resolve"
)

// Entry is the listed view of one rule package.
type Entry struct {
	Index    int     `json:"Index" yaml:"Index"`
	Name     string  `json:"Name" yaml:"Name"`
	Identity *string `json:"Identity" yaml:"Identity"`
}

// Catalog is the numbered list of rule packages an operator selects from.
type Catalog struct {
	RulePackages []Entry `json:"RulePackages" yaml:"RulePackages"`

	items []resolve.Item
}

// NewCatalog numbers the rule packages in the order the service returned them.
func NewCatalog(objs []*remote.Object) *Catalog {
	c := &Catalog{
		RulePackages: []Entry{},
		items:        resolve.Items(objs, resolve.NameFields, resolve.IdentityFields),
	}
	for _, item := range c.items {
		entry := Entry{Index: item.Index, Name: item.Name}
		if item.Identity != "" {
			identity := item.Identity
			entry.Identity = &identity
		}
		c.RulePackages = append(c.RulePackages, entry)
	}
	return c
}

// Len returns the number of rule packages.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Items returns the numbered list for display.
func (c *Catalog) Items() []resolve.Item {
	return c.items
}

// Select resolves an index or exact name.
func (c *Catalog) Select(token string) (resolve.Item, error) {
	if len(c.items) == 0 {
		return resolve.Item{}, failure.Resolution(resolve.ErrNotFound, "no rule packages were returned")
	}
	item, err := resolve.Select(c.items, token)
	if err != nil {
		return resolve.Item{}, failure.Resolution(err, "cannot select rule package")
	}
	return item, nil
}

// Table renders one row per rule package.
func (c *Catalog) Table() formatters.Table {
	t := formatters.Table{
		Title:   "Classification rule packages",
		Headers: []string{"#", "Name", "Identity"},
	}
	for _, e := range c.RulePackages {
		identity := ""
		if e.Identity != nil {
			identity = *e.Identity
		}
		t.Rows = append(t.Rows, []string{strconv.Itoa(e.Index), e.Name, identity})
	}
	return t
}

// Result describes a written export.
type Result struct {
	Name     string `json:"Name" yaml:"Name"`
	Identity string `json:"Identity" yaml:"Identity"`
	Path     string `json:"Path" yaml:"Path"`
	Bytes    int    `json:"Bytes" yaml:"Bytes"`
	Binary   bool   `json:"Binary" yaml:"Binary"`
}

// Table renders the export as a single row.
func (r *Result) Table() formatters.Table {
	return formatters.Table{
		Title:   "Exported rule package",
		Headers: []string{"Name", "Identity", "Path", "Bytes"},
		Rows:    [][]string{{r.Name, r.Identity, r.Path, strconv.Itoa(r.Bytes)}},
	}
}

// CheckOutputDir fails with a configuration error unless dir is an
// existing directory.
func CheckOutputDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return failure.Configuration("no output directory given")
	}
	if err := paths.ValidatePath(dir); err != nil {
		return failure.WrapConfiguration(err, "invalid output directory")
	}
	if !paths.IsDir(dir) {
		return failure.Configuration("output directory %s does not exist", dir)
	}
	return nil
}

// FileName returns the export file name for a display name.
func FileName(displayName string) string {
	return paths.SanitizeFileName(displayName) + ".xml"
}

// Export writes the payload of item into dir. Byte payloads are written
// verbatim; text payloads as UTF-8.
func Export(item resolve.Item, dir string) (*Result, error) {
	if err := CheckOutputDir(dir); err != nil {
		return nil, err
	}

	payload, err := resolve.Payload(item.Object, resolve.PayloadFields)
	if err != nil {
		return nil, failure.Resolution(err, "rule package %q has no exportable content", item.Name)
	}

	data, binary := payload.AsBytes()
	if !binary {
		text, _ := payload.AsString()
		data = []byte(text)
	}

	path := filepath.Join(dir, FileName(item.Name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, platform.WrapFileError(err, path, "write")
	}
	return &Result{
		Name:     item.Name,
		Identity: item.Identity,
		Path:     path,
		Bytes:    len(data),
		Binary:   binary,
	}, nil
}

// String is a one-line summary for status output.
func (r *Result) String() string {
	return fmt.Sprintf("exported %q (%d bytes) to %s", r.Name, r.Bytes, r.Path)
}
