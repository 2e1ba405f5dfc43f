// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"os"
	"path/filepath"
	"strings"

	"compliance-tools/internal/platform"
)

// DefaultFileName replaces a display name that sanitizes to nothing.
const DefaultFileName = "rulepack"

// GetConfigDir returns the compliance-tools configuration directory
// Uses platform-specific logic for Windows APPDATA directories and Unix home directories
func GetConfigDir() string {
	return platform.GetPlatform().GetConfigDir()
}

// GetConfigFile returns the path to the main config file
func GetConfigFile() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// DefaultExportDir returns the directory exports go to when none is given
func DefaultExportDir() string {
	return platform.DefaultExportDir(platform.GetPlatform())
}

// NormalizePath normalizes a file path for the current platform
// Handles Windows UNC paths, drive letters, home expansion, and path separators
func NormalizePath(path string) string {
	if path == "" {
		return path
	}
	return platform.GetPlatform().NormalizePath(path)
}

// ResolvePath resolves a path to its absolute form with platform-specific handling
func ResolvePath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	p := platform.GetPlatform()
	normalized := p.NormalizePath(path)
	if p.IsAbsolutePath(normalized) {
		return normalized, nil
	}
	return filepath.Abs(normalized)
}

// IsDir reports whether path names an existing directory
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// SanitizeFileName turns a display name into a file name valid on the
// current platform.
func SanitizeFileName(name string) string {
	return SanitizeFileNameFor(platform.GetPlatform(), name)
}

// SanitizeFileNameFor replaces characters p rejects with '_', trims spaces
// and trailing dots, and falls back to DefaultFileName when nothing usable
// remains.
func SanitizeFileNameFor(p platform.Platform, name string) string {
	invalid := p.InvalidFileNameChars()
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(invalid, r) {
			return '_'
		}
		return r
	}, name)
	cleaned = strings.TrimRight(strings.TrimSpace(cleaned), ". ")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" || strings.Trim(cleaned, "_") == "" || p.IsReservedFileName(cleaned) {
		return DefaultFileName
	}
	return cleaned
}

// ValidatePath validates a path for the current platform
func ValidatePath(path string) error {
	if path == "" {
		return nil // Empty path is valid
	}

	if platform.IsWindows() {
		return validateWindowsPath(path)
	}

	return validateUnixPath(path)
}

// validateWindowsPath validates a Windows path
func validateWindowsPath(path string) error {
	invalidChars := []rune{'<', '>', '"', '|', '?', '*'}
	for i, char := range path {
		// A colon is only allowed as part of a drive letter (position 1: C:)
		if char == ':' && i != 1 {
			return &PathValidationError{Path: path, Reason: "contains invalid character: :"}
		}
		for _, invalid := range invalidChars {
			if char == invalid {
				return &PathValidationError{
					Path:   path,
					Reason: "contains invalid character: " + string(char),
				}
			}
		}
	}

	if len(path) > 32767 {
		return &PathValidationError{
			Path:   path,
			Reason: "path exceeds maximum length of 32,767 characters",
		}
	}

	return nil
}

// validateUnixPath validates a Unix path
func validateUnixPath(path string) error {
	// Main restriction is null bytes
	if strings.ContainsRune(path, 0) {
		return &PathValidationError{
			Path:   path,
			Reason: "contains null byte",
		}
	}

	return nil
}

// PathValidationError represents a path validation error
type PathValidationError struct {
	Path   string
	Reason string
}

func (e *PathValidationError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Reason
}
