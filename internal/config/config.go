/*
Package config handles loading and saving calc-hub configuration.

Configuration is stored in ~/.calc-hub.json (or the file named by
CALC_HUB_CONFIG). Every section is optional; missing values take the
defaults of NewConfig.

Schema:
  {
    "storage": {
      "backend": "sqlite",
      "path": "~/.calc-hub/state.db"
    },
    "experimentsFile": "experiments.yaml",
    "tracking": {
      "enabled": true,
      "sink": "storage"
    },
    "logging": {
      "level": "info",
      "format": "console"
    },
    "recommendations": {
      "limit": 5,
      "personalized": true
    }
  }
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// EnvConfigPath overrides the default config location.
const EnvConfigPath = "CALC_HUB_CONFIG"

// Config represents the root configuration structure.
type Config struct {
	// Storage selects the persistence backend.
	Storage *StorageConfig `json:"storage,omitempty"`

	// ExperimentsFile is a YAML file replacing the built-in experiments.
	// Relative paths are resolved against the config file's directory.
	ExperimentsFile string `json:"experimentsFile,omitempty"`

	// Tracking controls analytics events.
	Tracking *TrackingConfig `json:"tracking,omitempty"`

	// Logging controls diagnostic output.
	Logging *LoggingConfig `json:"logging,omitempty"`

	// Recommendations controls the related tools list.
	Recommendations *RecommendationConfig `json:"recommendations,omitempty"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Backend is "sqlite", "bolt" or "memory".
	Backend string `json:"backend,omitempty"`

	// Path is the database file. Empty uses the backend's default under ~/.calc-hub.
	Path string `json:"path,omitempty"`
}

// TrackingConfig controls analytics events.
type TrackingConfig struct {
	Enabled bool `json:"enabled"`

	// Sink is "storage" (kept for export) or "log".
	Sink string `json:"sink,omitempty"`
}

// LoggingConfig controls diagnostic output.
type LoggingConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is "console" or "json".
	Format string `json:"format,omitempty"`
}

// RecommendationConfig controls the related tools list.
type RecommendationConfig struct {
	// Limit caps the list length. Zero or less shows every recommendation.
	Limit int `json:"limit"`

	// Personalized blends usage history into the list.
	Personalized bool `json:"personalized"`
}

// NewConfig creates a configuration with every section set to its default.
func NewConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills sections and fields left empty.
func (c *Config) applyDefaults() {
	if c.Storage == nil {
		c.Storage = &StorageConfig{}
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "sqlite"
	}

	if c.Tracking == nil {
		c.Tracking = &TrackingConfig{Enabled: true}
	}
	if c.Tracking.Sink == "" {
		c.Tracking.Sink = "storage"
	}

	if c.Logging == nil {
		c.Logging = &LoggingConfig{}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "warn"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}

	if c.Recommendations == nil {
		c.Recommendations = &RecommendationConfig{Limit: 5, Personalized: true}
	}
}

// GetDefaultConfigPath returns $CALC_HUB_CONFIG, or ~/.calc-hub.json.
func GetDefaultConfigPath() (string, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".calc-hub.json"), nil
}

// Load reads the configuration at path, or at GetDefaultConfigPath when
// path is empty, and returns it with the path used. A missing file yields
// the defaults.
func Load(path string) (*Config, string, error) {
	if path == "" {
		var err error
		if path, err = GetDefaultConfigPath(); err != nil {
			return nil, "", err
		}
	}
	cfg, err := LoadOrDefault(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// LoadOrDefault reads the configuration at path, returning defaults when the
// file does not exist. Other errors are returned as is.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadFrom(path)
	if err != nil {
		var notFound *ConfigNotFoundError
		if errors.As(err, &notFound) {
			return NewConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// ResolveExperimentsFile returns ExperimentsFile relative to the directory of
// configPath, or "" when no file is configured.
func (c *Config) ResolveExperimentsFile(configPath string) string {
	if c.ExperimentsFile == "" {
		return ""
	}
	if filepath.IsAbs(c.ExperimentsFile) || configPath == "" {
		return c.ExperimentsFile
	}
	return filepath.Join(filepath.Dir(configPath), c.ExperimentsFile)
}
