// Package core contains the client configuration: where the backend lives,
// how long requests may take, and where durable client storage is kept.
package core

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the resolved client configuration.
type Config struct {
	// BaseURL is the backend's base URL, without a trailing slash.
	BaseURL string
	// RequestTimeout bounds each API call.
	RequestTimeout time.Duration
	// DataDir is where session and collection snapshots are stored.
	DataDir string
}

// ConfigurationManager loads and validates the client configuration from
// the .taskdeck.yaml file in the base directory.
type ConfigurationManager interface {
	Load() (*Config, error)
	Validate(cfg *Config) error
}

// viperConfigManager implements ConfigurationManager using Viper.
type viperConfigManager struct {
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// configuration relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// defaultConfig returns a Config populated with sensible defaults.
func defaultConfig(basePath string) *Config {
	return &Config{
		BaseURL:        "http://localhost:3000",
		RequestTimeout: 10 * time.Second,
		DataDir:        basePath,
	}
}

// Load reads .taskdeck.yaml from the base path. If the file does not exist,
// defaults are returned.
func (cm *viperConfigManager) Load() (*Config, error) {
	cfg := defaultConfig(cm.basePath)

	v := viper.New()
	v.SetConfigName(".taskdeck")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("api.base_url", cfg.BaseURL)
	v.SetDefault("api.timeout_seconds", int(cfg.RequestTimeout/time.Second))
	v.SetDefault("data.dir", cfg.DataDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .taskdeck.yaml: %w", err)
	}

	cfg.BaseURL = strings.TrimRight(v.GetString("api.base_url"), "/")
	cfg.RequestTimeout = time.Duration(v.GetInt("api.timeout_seconds")) * time.Second
	cfg.DataDir = v.GetString("data.dir")

	return cfg, nil
}

// Validate checks the configuration and reports every problem in one error.
func (cm *viperConfigManager) Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("api.base_url %q is not a valid URL", cfg.BaseURL))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, fmt.Sprintf("api.base_url scheme %q must be http or https", u.Scheme))
	}

	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("api.timeout_seconds must be positive, got %s", cfg.RequestTimeout))
	}

	if cfg.DataDir == "" {
		errs = append(errs, "data.dir must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
