// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/minbao/minbao-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete minbao client configuration.
type Config struct {
	Backend BackendConfig `toml:"backend" json:"backend"`
	Auth    AuthConfig    `toml:"auth" json:"auth"`
	Admin   AdminConfig   `toml:"admin" json:"admin"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// BackendConfig points the client at the advisory backend.
type BackendConfig struct {
	// URL is the backend origin, e.g. http://127.0.0.1:8000
	URL string `toml:"url" json:"url"`
}

// Auth modes.
const (
	AuthModeStatic  = "static"
	AuthModeService = "service"
	AuthModeTOTP    = "totp"
)

// AuthConfig selects how the admin passphrase is verified.
type AuthConfig struct {
	// Mode is "static" (compare locally), "service" (delegate to ServiceURL)
	// or "totp" (a one-time code from an authenticator app).
	Mode string `toml:"mode" json:"mode"`
	// Passphrase is the shared admin secret used in static mode.
	Passphrase string `toml:"passphrase" json:"passphrase"`
	// PassphraseHash is a bcrypt hash. When set it takes precedence over Passphrase.
	PassphraseHash string `toml:"passphrase_hash" json:"passphrase_hash"`
	// ServiceURL is the credential service origin used in service mode.
	ServiceURL string `toml:"service_url" json:"service_url"`
	// TOTPSecret is the base32 shared secret used in totp mode.
	TOTPSecret string `toml:"totp_secret,omitempty" json:"totp_secret,omitempty"`
}

// AdminConfig controls the admin console.
type AdminConfig struct {
	// LogPageSize is the number of conversation log entries fetched on entry.
	LogPageSize int `toml:"log_page_size" json:"log_page_size"`
	// UploadDir is a local staging directory offered as upload candidates.
	UploadDir string `toml:"upload_dir" json:"upload_dir"`
	// AllowedExts lists the file extensions the backend accepts.
	AllowedExts []string `toml:"allowed_exts" json:"allowed_exts"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Language is a BCP 47 tag; unsupported tags fall back to zh-Hans.
	Language string `toml:"language" json:"language"`
	// Markdown renders assistant answers through glamour.
	Markdown bool `toml:"markdown" json:"markdown"`
	// Theme is "auto", "dark" or "light".
	Theme string `toml:"theme" json:"theme"`
}

// LogConfig controls the client log file.
type LogConfig struct {
	// File is the log path (empty = ~/.minbao/minbao.log).
	File string `toml:"file" json:"file"`
}

// DefaultBackendURL is the origin the production backend listens on.
const DefaultBackendURL = "http://127.0.0.1:8000"

// DefaultPassphrase is the shared secret shipped with the backend.
const DefaultPassphrase = "admin888"

// Default returns a Config with built-in defaults.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL: DefaultBackendURL,
		},
		Auth: AuthConfig{
			Mode:       AuthModeStatic,
			Passphrase: DefaultPassphrase,
		},
		Admin: AdminConfig{
			LogPageSize: 20,
			AllowedExts: []string{".txt", ".pdf"},
		},
		UI: UIConfig{
			Language: "zh-Hans",
			Markdown: true,
			Theme:    "auto",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the minbao configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".minbao"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LogPath returns the effective log file path.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "minbao.log"), nil
}

// ensureSecurePermissions tightens config files to 0600; they may hold the
// admin passphrase.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
//
// When a file exists but cannot be decoded, the defaults are returned
// together with the load error so callers can warn and continue.
func Load() (*Config, error) {
	var loadErr error

	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			cfg, err := LoadFromPath(tomlPath)
			if err == nil {
				return cfg, nil
			}
			loadErr = err
		}
	}

	if loadErr == nil {
		if jsonPath, err := ConfigPathJSON(); err == nil {
			if _, statErr := os.Stat(jsonPath); statErr == nil {
				cfg, err := LoadFromPath(jsonPath)
				if err == nil {
					return cfg, nil
				}
				loadErr = err
			}
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid config: %w", err)
	}
	return cfg, loadErr
}

// LoadTOML decodes a TOML file on top of cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	fillDefaults(cfg)
	return nil
}

// LoadJSON decodes a JSON file on top of cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	fillDefaults(cfg)
	return nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in values a file explicitly blanked out.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Backend.URL == "" {
		cfg.Backend.URL = defaults.Backend.URL
	}
	cfg.Backend.URL = strings.TrimRight(cfg.Backend.URL, "/")

	if cfg.Auth.Mode == "" {
		cfg.Auth.Mode = defaults.Auth.Mode
	}
	if cfg.Auth.Passphrase == "" && cfg.Auth.PassphraseHash == "" {
		cfg.Auth.Passphrase = defaults.Auth.Passphrase
	}

	if cfg.Admin.LogPageSize == 0 {
		cfg.Admin.LogPageSize = defaults.Admin.LogPageSize
	}
	if len(cfg.Admin.AllowedExts) == 0 {
		cfg.Admin.AllowedExts = defaults.Admin.AllowedExts
	}

	if cfg.UI.Language == "" {
		cfg.UI.Language = defaults.UI.Language
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration atomically with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	err := util.WriteFileAtomic(path, 0600, func(w io.Writer) error {
		io.WriteString(w, "# minbao configuration file\n")
		io.WriteString(w, "# Generated by `minbao config init` - edit with care\n\n")
		if err := toml.NewEncoder(w).Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if err := validateHTTPURL(c.Backend.URL); err != nil {
		errs = append(errs, ValidationError{Field: "backend.url", Message: err.Error()})
	}

	switch strings.ToLower(c.Auth.Mode) {
	case AuthModeStatic:
		if c.Auth.Passphrase == "" && c.Auth.PassphraseHash == "" {
			errs = append(errs, ValidationError{
				Field:   "auth.passphrase",
				Message: "static mode requires passphrase or passphrase_hash",
			})
		}
	case AuthModeService:
		if c.Auth.ServiceURL == "" {
			errs = append(errs, ValidationError{
				Field:   "auth.service_url",
				Message: "service mode requires service_url",
			})
		} else if err := validateHTTPURL(c.Auth.ServiceURL); err != nil {
			errs = append(errs, ValidationError{Field: "auth.service_url", Message: err.Error()})
		}
	case AuthModeTOTP:
		if c.Auth.TOTPSecret == "" {
			errs = append(errs, ValidationError{
				Field:   "auth.totp_secret",
				Message: "totp mode requires totp_secret",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "auth.mode",
			Message: fmt.Sprintf("invalid mode '%s', must be one of: static, service, totp", c.Auth.Mode),
		})
	}

	if c.Admin.LogPageSize < 1 || c.Admin.LogPageSize > 100 {
		errs = append(errs, ValidationError{
			Field:   "admin.log_page_size",
			Message: fmt.Sprintf("must be between 1 and 100, got %d", c.Admin.LogPageSize),
		})
	}
	for _, ext := range c.Admin.AllowedExts {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, ValidationError{
				Field:   "admin.allowed_exts",
				Message: fmt.Sprintf("extension '%s' must start with '.'", ext),
			})
		}
	}

	validThemes := map[string]bool{"auto": true, "dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https scheme, got '%s'", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must include a host")
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
// Supported environment variables:
//   - MINBAO_BACKEND_URL: overrides backend.url
//   - MINBAO_ADMIN_PASSPHRASE: overrides auth.passphrase (clears passphrase_hash)
//   - MINBAO_AUTH_MODE: overrides auth.mode
//   - MINBAO_AUTH_SERVICE_URL: overrides auth.service_url
//   - MINBAO_TOTP_SECRET: overrides auth.totp_secret
//   - MINBAO_UPLOAD_DIR: overrides admin.upload_dir
//   - MINBAO_LOG_PAGE_SIZE: overrides admin.log_page_size
//   - MINBAO_LANG: overrides ui.language
//   - MINBAO_LOG_FILE: overrides log.file
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("MINBAO_BACKEND_URL"); v != "" {
		c.Backend.URL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("MINBAO_ADMIN_PASSPHRASE"); v != "" {
		c.Auth.Passphrase = v
		c.Auth.PassphraseHash = ""
	}
	if v := os.Getenv("MINBAO_AUTH_MODE"); v != "" {
		c.Auth.Mode = strings.ToLower(v)
	}
	if v := os.Getenv("MINBAO_AUTH_SERVICE_URL"); v != "" {
		c.Auth.ServiceURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("MINBAO_TOTP_SECRET"); v != "" {
		c.Auth.TOTPSecret = v
	}
	if v := os.Getenv("MINBAO_UPLOAD_DIR"); v != "" {
		c.Admin.UploadDir = v
	}
	if v := os.Getenv("MINBAO_LOG_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Admin.LogPageSize = n
		}
	}
	if v := os.Getenv("MINBAO_LANG"); v != "" {
		c.UI.Language = v
	}
	if v := os.Getenv("MINBAO_LOG_FILE"); v != "" {
		c.Log.File = v
	}
}

// =============================================================================
// DISPLAY
// =============================================================================

// String returns the config as TOML with secrets masked.
func (c *Config) String() string {
	safe := *c
	if safe.Auth.Passphrase != "" {
		safe.Auth.Passphrase = "********"
	}
	if safe.Auth.PassphraseHash != "" {
		safe.Auth.PassphraseHash = "********"
	}
	if safe.Auth.TOTPSecret != "" {
		safe.Auth.TOTPSecret = "********"
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(safe); err != nil {
		return fmt.Sprintf("<unprintable config: %v>", err)
	}
	return buf.String()
}
