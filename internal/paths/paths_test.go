// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"path/filepath"
	"testing"

	"compliance-tools/internal/platform"
)

func TestSanitizeFileNameFor(t *testing.T) {
	windows := platform.ForOS("windows")
	unix := platform.ForOS("linux")

	cases := []struct {
		name string
		p    platform.Platform
		in   string
		want string
	}{
		{"plain", windows, "Microsoft Rule Package", "Microsoft Rule Package"},
		{"windows invalid", windows, `Finance: EU/UK <draft>?`, "Finance_ EU_UK _draft__"},
		{"unix keeps colon", unix, "Finance: EU/UK", "Finance: EU_UK"},
		{"trimmed", windows, "  Contoso rules.  ", "Contoso rules"},
		{"empty", windows, "   ", DefaultFileName},
		{"only invalid", windows, "???", DefaultFileName},
		{"reserved", windows, "CON", DefaultFileName},
		{"control chars", unix, "a\tb\nc", "a_b_c"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeFileNameFor(tc.p, tc.in); got != tc.want {
				t.Errorf("SanitizeFileNameFor(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestGetConfigFile_UsesOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(platform.ConfigDirEnv, dir)

	if got := GetConfigFile(); got != filepath.Join(dir, "config.yaml") {
		t.Errorf("unexpected config file %q", got)
	}
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	if !IsDir(dir) {
		t.Error("temp dir should be a directory")
	}
	if IsDir(filepath.Join(dir, "missing")) {
		t.Error("missing path is not a directory")
	}
}

func TestValidatePath_NullByte(t *testing.T) {
	if platform.IsWindows() {
		t.Skip("unix validation")
	}
	if err := ValidatePath("a\x00b"); err == nil {
		t.Error("expected null byte to be rejected")
	}
	if err := ValidatePath("/tmp/out"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	got, err := ResolvePath("exports")
	if err != nil {
		t.Fatalf("ResolvePath failed: %v", err)
	}
	if !filepath.IsAbs(got) || filepath.Base(got) != "exports" {
		t.Errorf("expected an absolute path ending in exports, got %q", got)
	}

	if got, _ := ResolvePath(dir); got != filepath.Clean(dir) {
		t.Errorf("absolute path changed: %q", got)
	}
	if got, _ := ResolvePath(""); got != "" {
		t.Errorf("empty path should stay empty, got %q", got)
	}
}
