// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-confidential.
//
// go-confidential is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package config loads and validates the confidential store configuration
// from a YAML file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete confidential store configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Storage StorageConfig `yaml:"storage"`
	Store   StoreConfig   `yaml:"store"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// StorageConfig selects and configures the blob storage backend
type StorageConfig struct {
	Backend string `yaml:"backend"` // memory, file
	Root    string `yaml:"root"`    // root directory for the file backend
}

// StoreConfig controls the confidential store's at-rest encryption
type StoreConfig struct {
	// PassphraseFile is the path to a file holding the master passphrase.
	// The CONFIDENTIAL_PASSPHRASE environment variable takes precedence.
	PassphraseFile string `yaml:"passphrase_file"`
}

// MetricsConfig controls the Prometheus metrics endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Default returns a configuration with sensible defaults: file storage
// under the user's home directory, info logging, metrics disabled.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Storage: StorageConfig{
			Backend: "file",
			Root:    home + "/.confidential/secrets",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  ":9090",
		},
	}
}

// Load reads a YAML configuration file, applies environment variable
// overrides and validates the result. An empty path returns the default
// configuration (still subject to env overrides and validation).
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides overrides file-based settings with environment
// variables where set.
func applyEnvOverrides(cfg *Config) {
	if level := os.Getenv("CONFIDENTIAL_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if backend := os.Getenv("CONFIDENTIAL_STORAGE_BACKEND"); backend != "" {
		cfg.Storage.Backend = backend
	}
	if root := os.Getenv("CONFIDENTIAL_STORAGE_ROOT"); root != "" {
		cfg.Storage.Root = root
	}
	if passFile := os.Getenv("CONFIDENTIAL_PASSPHRASE_FILE"); passFile != "" {
		cfg.Store.PassphraseFile = passFile
	}
	if listen := os.Getenv("CONFIDENTIAL_METRICS_LISTEN"); listen != "" {
		cfg.Metrics.Listen = listen
		cfg.Metrics.Enabled = true
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	switch c.Storage.Backend {
	case "memory":
	case "file":
		if c.Storage.Root == "" {
			return fmt.Errorf("storage root must be specified for the file backend")
		}
	default:
		return fmt.Errorf("invalid storage backend: %s (must be memory or file)", c.Storage.Backend)
	}

	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return fmt.Errorf("metrics listen address must be specified when metrics are enabled")
	}

	return nil
}

// Passphrase resolves the master passphrase: the CONFIDENTIAL_PASSPHRASE
// environment variable wins, then the configured passphrase file. The
// passphrase itself is never logged.
func (c *Config) Passphrase() ([]byte, error) {
	if pass := os.Getenv("CONFIDENTIAL_PASSPHRASE"); pass != "" {
		return []byte(pass), nil
	}
	if c.Store.PassphraseFile != "" {
		data, err := os.ReadFile(c.Store.PassphraseFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read passphrase file: %w", err)
		}
		return []byte(strings.TrimRight(string(data), "\r\n")), nil
	}
	return nil, fmt.Errorf("no master passphrase: set CONFIDENTIAL_PASSPHRASE or store.passphrase_file")
}
