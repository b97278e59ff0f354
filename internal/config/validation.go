package config

import (
	"strconv"

	"go.uber.org/zap/zapcore"
)

var (
	validBackends = map[string]bool{"sqlite": true, "bolt": true, "memory": true}
	validSinks    = map[string]bool{"storage": true, "log": true}
	validFormats  = map[string]bool{"console": true, "json": true}
)

// Validate checks the values that are set and returns a *FieldError for the
// first one rejected. Empty values are valid and take their defaults.
func Validate(cfg *Config) error {
	if s := cfg.Storage; s != nil && s.Backend != "" && !validBackends[s.Backend] {
		return &FieldError{Field: "storage.backend", Value: s.Backend, Want: "want sqlite, bolt or memory"}
	}

	if t := cfg.Tracking; t != nil && t.Sink != "" && !validSinks[t.Sink] {
		return &FieldError{Field: "tracking.sink", Value: t.Sink, Want: "want storage or log"}
	}

	if l := cfg.Logging; l != nil {
		if l.Level != "" {
			if _, err := zapcore.ParseLevel(l.Level); err != nil {
				return &FieldError{Field: "logging.level", Value: l.Level, Want: "want debug, info, warn or error"}
			}
		}
		if l.Format != "" && !validFormats[l.Format] {
			return &FieldError{Field: "logging.format", Value: l.Format, Want: "want console or json"}
		}
	}

	if r := cfg.Recommendations; r != nil && r.Limit < 0 {
		return &FieldError{Field: "recommendations.limit", Value: strconv.Itoa(r.Limit), Want: "must not be negative"}
	}

	return nil
}
