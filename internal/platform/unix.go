// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// UnixPlatform implements Platform interface for Unix-like systems (Linux, macOS, etc.)
type UnixPlatform struct{}

// GetConfigDir returns the Unix-appropriate configuration directory
func (u *UnixPlatform) GetConfigDir() string {
	// Check for explicit override first
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}

	// Check XDG Base Directory specification
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, AppName)
	}

	// Default to home directory
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "."+AppName)
}

// GetDesktopDir returns XDG_DESKTOP_DIR or ~/Desktop
func (u *UnixPlatform) GetDesktopDir() string {
	if dir := os.Getenv("XDG_DESKTOP_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Desktop")
}

// IsAbsolutePath checks if a path is absolute on Unix
func (u *UnixPlatform) IsAbsolutePath(path string) bool {
	return filepath.IsAbs(path)
}

// NormalizePath normalizes a path for Unix
func (u *UnixPlatform) NormalizePath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return filepath.Clean(path)
}

// InvalidFileNameChars returns the characters a file name may not contain
func (u *UnixPlatform) InvalidFileNameChars() string {
	return "/\x00"
}

// IsReservedFileName reports names the file system refuses
func (u *UnixPlatform) IsReservedFileName(name string) bool {
	return name == "." || name == ".."
}

// SupportsCaseSensitivePaths returns true for Unix (case-sensitive)
func (u *UnixPlatform) SupportsCaseSensitivePaths() bool {
	return true
}
