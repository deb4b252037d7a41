// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MINBAO_BACKEND_URL", "MINBAO_ADMIN_PASSPHRASE", "MINBAO_AUTH_MODE",
		"MINBAO_AUTH_SERVICE_URL", "MINBAO_UPLOAD_DIR", "MINBAO_LOG_PAGE_SIZE",
		"MINBAO_LANG", "MINBAO_LOG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Backend.URL != "http://127.0.0.1:8000" {
		t.Errorf("Backend.URL = %q, want %q", cfg.Backend.URL, "http://127.0.0.1:8000")
	}
	if cfg.Auth.Passphrase != "admin888" {
		t.Errorf("Auth.Passphrase = %q, want %q", cfg.Auth.Passphrase, "admin888")
	}
	if cfg.Admin.LogPageSize != 20 {
		t.Errorf("Admin.LogPageSize = %d, want 20", cfg.Admin.LogPageSize)
	}
	assert.Equal(t, []string{".txt", ".pdf"}, cfg.Admin.AllowedExts)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultBackendURL, cfg.Backend.URL)
}

func TestLoadFromPath_TOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[backend]
url = "http://advisor.local:9000/"

[admin]
log_page_size = 50
upload_dir = "/srv/kb"

[ui]
markdown = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	if cfg.Backend.URL != "http://advisor.local:9000" {
		t.Errorf("Backend.URL = %q, want trailing slash trimmed", cfg.Backend.URL)
	}
	assert.Equal(t, 50, cfg.Admin.LogPageSize)
	assert.Equal(t, "/srv/kb", cfg.Admin.UploadDir)
	assert.False(t, cfg.UI.Markdown)
	// Unset sections keep their defaults.
	assert.Equal(t, "admin888", cfg.Auth.Passphrase)
	assert.Equal(t, "zh-Hans", cfg.UI.Language)
}

func TestLoadFromPath_JSON(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ui":{"language":"en"}}`), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.UI.Language)
}

func TestLoadFromPath_FixesPermissions(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"dark\"\n"), 0644))

	_, err := LoadFromPath(path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	if info.Mode().Perm() != 0600 {
		t.Errorf("permissions = %o, want 0600", info.Mode().Perm())
	}
}

func TestLoad_BrokenFileReturnsDefaultsWithError(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".minbao")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[backend\nurl="), 0600))

	cfg, err := Load()
	require.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultBackendURL, cfg.Backend.URL)
}

func TestApplyEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MINBAO_BACKEND_URL", "https://minbao.example.com/")
	t.Setenv("MINBAO_ADMIN_PASSPHRASE", "s3cret")
	t.Setenv("MINBAO_LOG_PAGE_SIZE", "10")
	t.Setenv("MINBAO_LANG", "en-US")

	cfg := Default()
	cfg.Auth.PassphraseHash = "$2a$10$abc"
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "https://minbao.example.com", cfg.Backend.URL)
	assert.Equal(t, "s3cret", cfg.Auth.Passphrase)
	assert.Empty(t, cfg.Auth.PassphraseHash, "env passphrase should replace a configured hash")
	assert.Equal(t, 10, cfg.Admin.LogPageSize)
	assert.Equal(t, "en-US", cfg.UI.Language)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad scheme", func(c *Config) { c.Backend.URL = "ftp://host" }, "backend.url"},
		{"no host", func(c *Config) { c.Backend.URL = "http://" }, "backend.url"},
		{"unknown auth mode", func(c *Config) { c.Auth.Mode = "ldap" }, "auth.mode"},
		{"service without url", func(c *Config) { c.Auth.Mode = AuthModeService }, "auth.service_url"},
		{"totp without secret", func(c *Config) { c.Auth.Mode = AuthModeTOTP }, "auth.totp_secret"},
		{"static without secret", func(c *Config) { c.Auth.Passphrase = "" }, "auth.passphrase"},
		{"page size too large", func(c *Config) { c.Admin.LogPageSize = 101 }, "admin.log_page_size"},
		{"page size zero", func(c *Config) { c.Admin.LogPageSize = 0 }, "admin.log_page_size"},
		{"extension without dot", func(c *Config) { c.Admin.AllowedExts = []string{"txt"} }, "admin.allowed_exts"},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			found := false
			for _, v := range verrs {
				if v.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() = %v, want error on field %q", err, tt.field)
			}
		})
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Backend.URL = "http://10.0.0.5:8000"
	cfg.Admin.UploadDir = "/tmp/kb"
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Backend.URL, loaded.Backend.URL)
	assert.Equal(t, cfg.Admin.UploadDir, loaded.Admin.UploadDir)
}

func TestString_MasksSecrets(t *testing.T) {
	cfg := Default()
	cfg.Auth.PassphraseHash = "$2a$10$hash"

	out := cfg.String()
	if strings.Contains(out, "admin888") || strings.Contains(out, "$2a$10$hash") {
		t.Errorf("String() leaked a secret:\n%s", out)
	}
	assert.Contains(t, out, "127.0.0.1:8000")
}

func TestLogPath(t *testing.T) {
	cfg := Default()
	cfg.Log.File = "/var/log/minbao.log"
	path, err := cfg.LogPath()
	require.NoError(t, err)
	assert.Equal(t, "/var/log/minbao.log", path)
}
