package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// LoadFrom reads the config file at path, validates it and fills defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, &ConfigNotFoundError{Path: path}
	case errors.Is(err, fs.ErrPermission):
		return nil, &PermissionError{Path: path, Op: "read", Err: err}
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := decode(data)
	if err != nil {
		return nil, invalidConfig(path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// decode parses and validates a config document. Unknown keys are rejected
// so a misspelled setting is reported rather than ignored.
func decode(data []byte) (*Config, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("JSON: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func invalidConfig(path string, err error) *InvalidConfigError {
	invalid := &InvalidConfigError{Path: path, Err: err}
	var field *FieldError
	if errors.As(err, &field) {
		invalid.Field = field.Field
	}
	return invalid
}
