package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Save validates cfg and replaces the file at path atomically. The previous
// file, if any, is kept as path+".bak".
func Save(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	// Validate what LoadFrom will read back.
	if _, err := decode(data); err != nil {
		return invalidConfig(path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return writeError(filepath.Dir(path), err)
	}
	// Rename replaces read-only files too, so check the target explicitly.
	if f, err := os.OpenFile(path, os.O_WRONLY, 0); err == nil {
		f.Close()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return writeError(path, err)
	}

	if err := backupConfig(path); err != nil {
		return writeError(path+".bak", err)
	}
	if err := atomicWrite(path, append(data, '\n')); err != nil {
		return writeError(path, err)
	}
	return nil
}

func writeError(path string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return &PermissionError{Path: path, Op: "write", Err: err}
	}
	return fmt.Errorf("failed to write config: %w", err)
}

// backupConfig copies the file at path to path+".bak". A missing file is
// not an error.
func backupConfig(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path+".bak", data, 0644)
}

// atomicWrite writes data to a temp file next to path and renames it over
// path, so readers never see a partial file.
func atomicWrite(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
