package config

import (
	"fmt"
	"runtime"
)

// FieldError is a config value Validate rejected. Field is the dotted JSON
// key, e.g. "storage.backend".
type FieldError struct {
	Field string
	Value string
	Want  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Want)
}

// ConfigNotFoundError means no config file exists at Path. Commands run on
// the defaults in that case.
type ConfigNotFoundError struct {
	Path string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s\nHint: run 'calc-hub config init' to create it", e.Path)
}

// InvalidConfigError means the file at Path exists but cannot be used.
// Field names the offending key when a single value was rejected.
type InvalidConfigError struct {
	Path  string
	Field string
	Err   error
}

func (e *InvalidConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid config %s: %v\nHint: fix %q or remove it to use the default ('calc-hub config show' prints the effective values)",
			e.Path, e.Err, e.Field)
	}
	return fmt.Sprintf("invalid config %s: %v\nHint: restore %s.bak or run 'calc-hub config init --force'",
		e.Path, e.Err, e.Path)
}

func (e *InvalidConfigError) Unwrap() error { return e.Err }

// PermissionError means the config file or its directory cannot be read or
// written by the current user.
type PermissionError struct {
	Path string
	Op   string // "read" or "write"
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied (cannot %s config): %s\nFix: %s", e.Op, e.Path, e.fix())
}

func (e *PermissionError) Unwrap() error { return e.Err }

func (e *PermissionError) fix() string {
	if runtime.GOOS == "windows" {
		return fmt.Sprintf("grant your user %s access to %s in its Security properties", e.Op, e.Path)
	}
	if e.Op == "read" {
		return "chmod u+r " + e.Path
	}
	return "chmod u+w " + e.Path
}
