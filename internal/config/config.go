// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"compliance-tools/internal/paths"
	"compliance-tools/internal/platform"
	"compliance-tools/internal/preflight"

	"gopkg.in/yaml.v3"
)

// Supported session transports
const (
	TransportREST = "rest"
	TransportGRPC = "grpc"
)

// DefaultTimeout bounds a single remote call
const DefaultTimeout = 2 * time.Minute

// Settings are the values a run can take from the config file
type Settings struct {
	Format            string        `yaml:"format"`
	NoColor           bool          `yaml:"no_color"`
	Verbose           bool          `yaml:"verbose"`
	Debug             bool          `yaml:"debug"`
	UserPrincipalName string        `yaml:"user_principal_name"`
	Endpoint          string        `yaml:"endpoint"`
	Transport         string        `yaml:"transport"`
	Timeout           time.Duration `yaml:"timeout"`
	OutputDir         string        `yaml:"output_dir"`
	Classify          bool          `yaml:"classify"`
	MaxFileSize       int64         `yaml:"max_file_size"`
}

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults Settings `yaml:"defaults"`

	// Profiles for different tenants or scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile overrides the defaults. Empty values and false flags leave the
// default in place.
type Profile struct {
	Settings    `yaml:",inline"`
	Description string `yaml:"description"`
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := defaultConfig()

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if config.Profiles == nil {
		config.Profiles = make(map[string]Profile)
	}

	ApplyPlatformDefaults(config)

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func defaultConfig() *Config {
	config := &Config{
		Profiles: make(map[string]Profile),
	}
	config.Defaults.Transport = TransportREST
	config.Defaults.Timeout = DefaultTimeout
	config.Defaults.MaxFileSize = preflight.DefaultMaxFileSize

	config.Profiles["ci"] = Profile{
		Settings: Settings{
			Format:  "json",
			NoColor: true,
		},
		Description: "Unattended runs: JSON output without colors",
	}
	return config
}

// Resolve merges the named profile over the defaults. An empty name
// returns the defaults.
func (c *Config) Resolve(profile string) (Settings, error) {
	settings := c.Defaults
	if profile == "" {
		return settings, nil
	}
	p := c.GetProfile(profile)
	if p == nil {
		return settings, fmt.Errorf("profile '%s' not found. Available profiles: %s", profile, strings.Join(c.ListProfiles(), ", "))
	}
	settings.Merge(p.Settings)
	return settings, nil
}

// Merge copies every non-zero value of o into s
func (s *Settings) Merge(o Settings) {
	if o.Format != "" {
		s.Format = o.Format
	}
	s.NoColor = s.NoColor || o.NoColor
	s.Verbose = s.Verbose || o.Verbose
	s.Debug = s.Debug || o.Debug
	s.Classify = s.Classify || o.Classify
	if o.UserPrincipalName != "" {
		s.UserPrincipalName = o.UserPrincipalName
	}
	if o.Endpoint != "" {
		s.Endpoint = o.Endpoint
	}
	if o.Transport != "" {
		s.Transport = o.Transport
	}
	if o.Timeout != 0 {
		s.Timeout = o.Timeout
	}
	if o.OutputDir != "" {
		s.OutputDir = o.OutputDir
	}
	if o.MaxFileSize != 0 {
		s.MaxFileSize = o.MaxFileSize
	}
}

// FindConfigFile looks for a configuration file in standard locations using platform-aware paths
func FindConfigFile() string {
	// Project-specific config in the current directory comes first
	for _, name := range []string{"compliance-tools.yaml", "compliance-tools.yml", ".compliance-tools.yaml", ".compliance-tools.yml"} {
		if fileExists(name) {
			return name
		}
	}

	// Check standard location using platform-aware paths
	standardConfig := paths.GetConfigFile()
	if fileExists(standardConfig) {
		return standardConfig
	}

	// Check platform-specific locations
	if runtime.GOOS == "windows" {
		return findWindowsConfigFile()
	}
	return findUnixConfigFile()
}

// findWindowsConfigFile looks for configuration files in Windows-specific locations
func findWindowsConfigFile() string {
	// Check USERPROFILE directory (fallback)
	if userProfile := resolveWindowsEnvVar("USERPROFILE"); userProfile != "" {
		for _, name := range []string{"config.yaml", "config.yml"} {
			configFile := filepath.Join(userProfile, "."+platform.AppName, name)
			if fileExists(configFile) {
				return configFile
			}
		}
	}

	// Check system-wide configuration (PROGRAMDATA)
	if programData := resolveWindowsEnvVar("PROGRAMDATA"); programData != "" {
		configFile := filepath.Join(programData, platform.AppName, "config.yaml")
		if fileExists(configFile) {
			return configFile
		}
	}

	return ""
}

// findUnixConfigFile looks for configuration files in Unix-specific locations
func findUnixConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	// Check XDG config directory
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		configFile := filepath.Join(xdgConfig, platform.AppName, name)
		if fileExists(configFile) {
			return configFile
		}
	}

	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ListProfiles returns the available profile names, sorted
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// resolveWindowsEnvVar resolves Windows environment variables with proper expansion
func resolveWindowsEnvVar(varName string) string {
	value := os.Getenv(varName)
	if value == "" {
		return ""
	}

	// Expand any embedded environment variables (e.g., %USERPROFILE%\AppData)
	return paths.NormalizePath(os.ExpandEnv(value))
}

// ValidateConfig checks the defaults and every profile
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if err := ValidateSettings(config.Defaults); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	for _, name := range config.ListProfiles() {
		if err := ValidateSettings(config.Profiles[name].Settings); err != nil {
			return fmt.Errorf("profile '%s': %w", name, err)
		}
	}
	return nil
}

// ValidateSettings checks transport, limits and paths
func ValidateSettings(s Settings) error {
	switch s.Transport {
	case "", TransportREST, TransportGRPC:
	default:
		return fmt.Errorf("unsupported transport '%s' (use %s or %s)", s.Transport, TransportREST, TransportGRPC)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if s.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must not be negative")
	}
	if s.OutputDir != "" {
		if err := paths.ValidatePath(s.OutputDir); err != nil {
			return fmt.Errorf("invalid output directory: %w", err)
		}
	}
	return nil
}

// ApplyPlatformDefaults normalizes the paths in the configuration for the
// current platform
func ApplyPlatformDefaults(config *Config) {
	if config == nil {
		return
	}

	config.Defaults.OutputDir = paths.NormalizePath(config.Defaults.OutputDir)
	for profileName, profile := range config.Profiles {
		profile.OutputDir = paths.NormalizePath(profile.OutputDir)
		config.Profiles[profileName] = profile
	}
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard locations
// when configFile is empty). If loading fails, it returns a default configuration
// and the load error so the caller can warn.
func LoadConfigOrDefault(configFile string) (*Config, error) {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		// Fall back to defaults; a missing or bad config file never stops a run
		return defaultConfig(), err
	}
	return cfg, nil
}
