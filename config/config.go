// Package config handles configuration loading and saving.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/evanmaki/nutrichat/logger"
)

const (
	configFileName = "config.yaml"

	// EnvAPIBase overrides the configured service base URL.
	EnvAPIBase = "NUTRICHAT_API_BASE"
	// envConfigDir relocates the config directory (mainly for tests).
	envConfigDir = "NUTRICHAT_CONFIG_DIR"
)

var configDirOverride string

// SetConfigDir overrides the config directory for the current process.
// Empty value clears the override.
func SetConfigDir(dir string) {
	configDirOverride = strings.TrimSpace(dir)
}

// Config is the root configuration structure.
type Config struct {
	API     APIConfig     `json:"api" yaml:"api"`
	UI      UIConfig      `json:"ui,omitempty" yaml:"ui,omitempty"`
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// APIConfig describes how to reach the nutrition service.
type APIConfig struct {
	BaseURL              string `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`                           // defaults to http://localhost:8000
	HealthTimeoutSeconds int    `json:"healthTimeoutSeconds,omitempty" yaml:"healthTimeoutSeconds,omitempty"` // defaults to 5
}

// UIConfig contains terminal UI options.
type UIConfig struct {
	WordWrap int `json:"wordWrap,omitempty" yaml:"wordWrap,omitempty"` // markdown wrap column, defaults to 80
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Level   string `json:"level,omitempty" yaml:"level,omitempty"`   // debug, info, warn, error
	Stdout  bool   `json:"stdout,omitempty" yaml:"stdout,omitempty"` // log to stdout
	File    string `json:"file,omitempty" yaml:"file,omitempty"`     // log file path
}

// ConfigDir returns the directory holding config and logs
// (override > NUTRICHAT_CONFIG_DIR > ~/.nutrichat).
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	if dir := strings.TrimSpace(os.Getenv(envConfigDir)); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".nutrichat"), nil
}

// ConfigPath returns the path of the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file, applying defaults for missing fields.
// A .env file in the working directory is side-loaded first so
// NUTRICHAT_API_BASE can live there during development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config file, creating the config directory if needed.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	logger.Debug("config saved", "path", path)
	return nil
}

// ResolveBaseURL picks the service base URL: explicit override (flag) >
// NUTRICHAT_API_BASE env > config file > built-in default.
func (c *Config) ResolveBaseURL(override string) string {
	if v := strings.TrimSpace(override); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIBase)); v != "" {
		return v
	}
	if v := strings.TrimSpace(c.API.BaseURL); v != "" {
		return v
	}
	return defaultBaseURL
}

// HealthTimeout returns the health probe timeout.
func (c *Config) HealthTimeout() time.Duration {
	if c.API.HealthTimeoutSeconds > 0 {
		return time.Duration(c.API.HealthTimeoutSeconds) * time.Second
	}
	return defaultHealthTimeoutSeconds * time.Second
}

// BuildLoggerConfig converts the logging section into logger settings.
func (c *Config) BuildLoggerConfig() logger.Config {
	enabled := true
	if c.Logging.Enabled != nil {
		enabled = *c.Logging.Enabled
	}
	return logger.Config{
		Enabled: enabled,
		Level:   c.Logging.Level,
		Stdout:  c.Logging.Stdout,
		File:    c.Logging.File,
	}
}
