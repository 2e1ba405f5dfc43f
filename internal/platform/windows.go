// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// WindowsPlatform implements Platform interface for Windows systems
type WindowsPlatform struct{}

// GetConfigDir returns the Windows-appropriate configuration directory
func (w *WindowsPlatform) GetConfigDir() string {
	// Check for explicit override first
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}

	// Try APPDATA first (recommended for Windows applications)
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, AppName)
	}

	// Fallback to user profile directory
	if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
		return filepath.Join(userProfile, "."+AppName)
	}

	// Last resort fallback
	return "." + AppName
}

// GetDesktopDir returns %USERPROFILE%\Desktop, preferring a OneDrive
// redirected desktop when one exists
func (w *WindowsPlatform) GetDesktopDir() string {
	if oneDrive := os.Getenv("OneDrive"); oneDrive != "" {
		desktop := filepath.Join(oneDrive, "Desktop")
		if isDir(desktop) {
			return desktop
		}
	}
	if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
		return filepath.Join(userProfile, "Desktop")
	}
	return ""
}

// IsAbsolutePath checks if a path is absolute on Windows
func (w *WindowsPlatform) IsAbsolutePath(path string) bool {
	return filepath.IsAbs(path)
}

// NormalizePath normalizes a path for Windows
func (w *WindowsPlatform) NormalizePath(path string) string {
	// Convert forward slashes to backslashes
	normalized := filepath.Clean(path)

	// Handle UNC paths (\\server\share)
	if strings.HasPrefix(path, "\\\\") && !strings.HasPrefix(normalized, "\\\\") {
		normalized = "\\\\" + strings.TrimPrefix(normalized, "\\")
	}

	return normalized
}

// InvalidFileNameChars returns the characters Windows rejects in file names
func (w *WindowsPlatform) InvalidFileNameChars() string {
	return `<>:"/\|?*` + "\x00"
}

var windowsReserved = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// IsReservedFileName reports device names Windows reserves, with or without extension
func (w *WindowsPlatform) IsReservedFileName(name string) bool {
	base, _, _ := strings.Cut(name, ".")
	return name == "." || name == ".." || windowsReserved[strings.ToUpper(strings.TrimSpace(base))]
}

// SupportsCaseSensitivePaths returns false for Windows (case-insensitive by default)
func (w *WindowsPlatform) SupportsCaseSensitivePaths() bool {
	return false
}
