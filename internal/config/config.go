// ABOUTME: Configuration loading for windsurf-quota
// ABOUTME: TOML file with env overrides, validated before use

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all tool settings. Defaults work without any file present.
type Config struct {
	Discovery DiscoveryConfig `toml:"discovery"`
	Display   DisplayConfig   `toml:"display"`
}

// DiscoveryConfig tunes the locator and fetcher.
type DiscoveryConfig struct {
	ProcessPattern      string `toml:"process_pattern" validate:"required"`
	ProbeTimeoutSeconds int    `toml:"probe_timeout_seconds" validate:"min=1,max=30"`
	FetchTimeoutSeconds int    `toml:"fetch_timeout_seconds" validate:"min=1,max=120"`
}

// DisplayConfig tunes presentation. Thresholds apply to remaining quota
// fractions: at or above HealthyThreshold is healthy, at or above
// WarningThreshold is warning, below is critical.
type DisplayConfig struct {
	HealthyThreshold float64 `toml:"healthy_threshold" validate:"gte=0,lte=1,gtefield=WarningThreshold"`
	WarningThreshold float64 `toml:"warning_threshold" validate:"gte=0,lte=1"`
	Locale           string  `toml:"locale" validate:"required"`
	NerdFonts        bool    `toml:"nerd_fonts"`
}

var validate = validator.New()

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Discovery: DiscoveryConfig{
			ProcessPattern:      "language_server",
			ProbeTimeoutSeconds: 3,
			FetchTimeoutSeconds: 10,
		},
		Display: DisplayConfig{
			HealthyThreshold: 0.7,
			WarningThreshold: 0.3,
			Locale:           "en",
		},
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Dir returns the tool's config directory.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "windsurf-quota")
}

// Load reads the config file at path, falling back to DefaultPath when path
// is empty and to pure defaults when no file exists. Environment variables
// override file values. The result is validated.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// No file is fine; defaults apply.
	default:
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	applyEnv(&cfg)

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Save writes the config to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// applyEnv layers WINDSURF_QUOTA_* variables over file values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("WINDSURF_QUOTA_PROCESS_PATTERN"); v != "" {
		cfg.Discovery.ProcessPattern = v
	}
	if v := os.Getenv("WINDSURF_QUOTA_LOCALE"); v != "" {
		cfg.Display.Locale = v
	}
	if v := os.Getenv("WINDSURF_QUOTA_PROBE_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.Discovery.ProbeTimeoutSeconds = secs
		}
	}
	if v := os.Getenv("WINDSURF_QUOTA_FETCH_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.Discovery.FetchTimeoutSeconds = secs
		}
	}
}

// ProbeTimeout returns the probe timeout as a duration.
func (c *DiscoveryConfig) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSeconds) * time.Second
}

// FetchTimeout returns the metrics call timeout as a duration.
func (c *DiscoveryConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}
