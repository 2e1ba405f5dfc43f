// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"compliance-tools/internal/platform"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoadConfigOrDefault_NoFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv(platform.ConfigDirEnv, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// With no config file, should return defaults without error
	cfg, err := LoadConfigOrDefault("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Transport != TransportREST {
		t.Errorf("expected default transport rest, got %q", cfg.Defaults.Transport)
	}
}

func TestLoadConfigOrDefault_NonexistentFile(t *testing.T) {
	// A path that doesn't exist should fall back to defaults and report why
	cfg, err := LoadConfigOrDefault("/nonexistent/path/config.yaml")
	if cfg == nil {
		t.Fatal("expected non-nil config (fallback to defaults)")
	}
	if err == nil {
		t.Error("expected the read error to be reported")
	}
}

func TestLoadConfigOrDefault_ValidFile(t *testing.T) {
	configPath := writeConfig(t, `
defaults:
  format: yaml
  user_principal_name: admin@contoso.onmicrosoft.com
  transport: grpc
  timeout: 45s
`)

	cfg, err := LoadConfigOrDefault(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Format != "yaml" {
		t.Errorf("expected format=yaml, got %q", cfg.Defaults.Format)
	}
	if cfg.Defaults.Transport != TransportGRPC {
		t.Errorf("expected transport=grpc, got %q", cfg.Defaults.Transport)
	}
	if cfg.Defaults.Timeout != 45*time.Second {
		t.Errorf("expected timeout=45s, got %v", cfg.Defaults.Timeout)
	}
	if cfg.Defaults.MaxFileSize == 0 {
		t.Error("unset max_file_size should keep its default")
	}
}

func TestLoadConfigOrDefault_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, ":::invalid yaml:::")

	// Should fall back to defaults, not panic
	cfg, err := LoadConfigOrDefault(configPath)
	if cfg == nil {
		t.Fatal("expected non-nil config (fallback to defaults on parse error)")
	}
	if err == nil {
		t.Error("expected parse error to be reported")
	}
}

func TestLoadConfig_RejectsUnknownTransport(t *testing.T) {
	configPath := writeConfig(t, `
profiles:
  legacy:
    transport: soap
`)
	if _, err := LoadConfig(configPath); err == nil {
		t.Fatal("expected validation error for transport 'soap'")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout, got %v", cfg.Defaults.Timeout)
	}
	if _, ok := cfg.Profiles["ci"]; !ok {
		t.Error("expected 'ci' profile to exist in defaults")
	}
}

func TestResolve_ProfileOverridesDefaults(t *testing.T) {
	configPath := writeConfig(t, `
defaults:
  user_principal_name: admin@contoso.com
  endpoint: https://gateway.contoso.com
profiles:
  fabrikam:
    description: Fabrikam tenant
    user_principal_name: admin@fabrikam.com
    classify: true
`)
	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	settings, err := cfg.Resolve("fabrikam")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.UserPrincipalName != "admin@fabrikam.com" {
		t.Errorf("profile user should win, got %q", settings.UserPrincipalName)
	}
	if settings.Endpoint != "https://gateway.contoso.com" {
		t.Errorf("default endpoint should be kept, got %q", settings.Endpoint)
	}
	if !settings.Classify {
		t.Error("profile classify flag should apply")
	}

	if _, err := cfg.Resolve("missing"); err == nil {
		t.Error("expected error for unknown profile")
	}
}
