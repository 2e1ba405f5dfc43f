// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetConfigDir_Override(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, dir)

	for _, goos := range []string{"linux", "windows"} {
		if got := ForOS(goos).GetConfigDir(); got != dir {
			t.Errorf("%s: expected override %q, got %q", goos, dir, got)
		}
	}
}

func TestGetConfigDir_Defaults(t *testing.T) {
	t.Setenv(ConfigDirEnv, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	t.Setenv("APPDATA", `C:\Users\u\AppData\Roaming`)

	if got := ForOS("linux").GetConfigDir(); got != filepath.Join("/xdg", AppName) {
		t.Errorf("unexpected unix config dir %q", got)
	}
	if got := ForOS("windows").GetConfigDir(); !strings.HasSuffix(got, AppName) {
		t.Errorf("unexpected windows config dir %q", got)
	}
}

func TestDefaultExportDir_PrefersDesktop(t *testing.T) {
	desktop := t.TempDir()
	t.Setenv("XDG_DESKTOP_DIR", desktop)

	if got := DefaultExportDir(&UnixPlatform{}); got != desktop {
		t.Errorf("expected desktop %q, got %q", desktop, got)
	}
}

func TestDefaultExportDir_FallsBackToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DESKTOP_DIR", filepath.Join(home, "missing"))

	if got := DefaultExportDir(&UnixPlatform{}); got != home {
		t.Errorf("expected home %q, got %q", home, got)
	}
}

func TestIsReservedFileName(t *testing.T) {
	w := &WindowsPlatform{}
	for _, name := range []string{"CON", "nul.xml", "Com1", ".."} {
		if !w.IsReservedFileName(name) {
			t.Errorf("%q should be reserved on windows", name)
		}
	}
	if w.IsReservedFileName("Console") {
		t.Error("Console is a valid windows file name")
	}
	if (&UnixPlatform{}).IsReservedFileName("CON") {
		t.Error("CON is a valid unix file name")
	}
}

func TestWrapFileError(t *testing.T) {
	if WrapFileError(nil, "x", "write") != nil {
		t.Fatal("nil error should stay nil")
	}

	err := WrapFileError(&os.PathError{Op: "open", Path: "/out/a.xml", Err: os.ErrPermission}, "/out/a.xml", "write")
	var fileErr *FileError
	if !errors.As(err, &fileErr) {
		t.Fatalf("expected *FileError, got %T", err)
	}
	if fileErr.Suggestion == "" {
		t.Error("permission errors should carry a suggestion")
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Error("wrapped error should unwrap to the cause")
	}
}
