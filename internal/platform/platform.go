// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"os"
	"runtime"
)

// AppName names the per-user configuration directory.
const AppName = "compliance-tools"

// ConfigDirEnv overrides the configuration directory on every platform.
const ConfigDirEnv = "COMPLIANCE_TOOLS_CONFIG_DIR"

// Platform defines the interface for platform-specific operations
type Platform interface {
	GetConfigDir() string
	GetDesktopDir() string
	IsAbsolutePath(path string) bool
	NormalizePath(path string) string
	InvalidFileNameChars() string
	IsReservedFileName(name string) bool
	SupportsCaseSensitivePaths() bool
}

// Config holds platform-specific configuration
type Config struct {
	OS                 string `json:"os" yaml:"os"`
	Architecture       string `json:"architecture" yaml:"architecture"`
	ConfigDirectory    string `json:"config_directory" yaml:"config_directory"`
	ExportDirectory    string `json:"export_directory" yaml:"export_directory"`
	CaseSensitivePaths bool   `json:"case_sensitive_paths" yaml:"case_sensitive_paths"`
}

// GetPlatform returns the appropriate platform implementation for the current OS
func GetPlatform() Platform {
	return ForOS(runtime.GOOS)
}

// ForOS returns the implementation for the named GOOS value.
func ForOS(goos string) Platform {
	switch goos {
	case "windows":
		return &WindowsPlatform{}
	default:
		return &UnixPlatform{}
	}
}

// GetConfig returns platform configuration for the current system
func GetConfig() *Config {
	platform := GetPlatform()
	return &Config{
		OS:                 runtime.GOOS,
		Architecture:       runtime.GOARCH,
		ConfigDirectory:    platform.GetConfigDir(),
		ExportDirectory:    DefaultExportDir(platform),
		CaseSensitivePaths: platform.SupportsCaseSensitivePaths(),
	}
}

// DefaultExportDir picks where exported files go when no directory was
// given: the desktop when it exists, else the home directory, else the
// working directory.
func DefaultExportDir(p Platform) string {
	if desktop := p.GetDesktopDir(); desktop != "" && isDir(desktop) {
		return desktop
	}
	if home, err := os.UserHomeDir(); err == nil && isDir(home) {
		return home
	}
	return "."
}

// IsWindows returns true if running on Windows
func IsWindows() bool {
	return runtime.GOOS == "windows"
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
