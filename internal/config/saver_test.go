package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestAtomicWrite(t *testing.T) {
	tmpDir := t.TempDir()
	testPath := filepath.Join(tmpDir, "config.json")

	data := []byte(`{"test": "data"}`)
	if err := atomicWrite(testPath, data); err != nil {
		t.Fatalf("atomicWrite failed: %v", err)
	}

	// Verify no temp file was left behind
	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the config file, got %d entries", len(entries))
	}

	readData, err := os.ReadFile(testPath)
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	if string(readData) != string(data) {
		t.Errorf("content mismatch: got %q, want %q", string(readData), string(data))
	}
}

func TestAtomicWriteCreatesDir(t *testing.T) {
	tmpDir := t.TempDir()
	testPath := filepath.Join(tmpDir, "subdir", "config.json")

	if err := atomicWrite(testPath, []byte(`{}`)); err != nil {
		t.Fatalf("atomicWrite failed: %v", err)
	}

	if _, err := os.Stat(testPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}
}

func TestBackupConfig(t *testing.T) {
	tmpDir := t.TempDir()
	testPath := filepath.Join(tmpDir, "config.json")

	original := []byte(`{"experimentsFile": "old.yaml"}`)
	if err := os.WriteFile(testPath, original, 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if err := backupConfig(testPath); err != nil {
		t.Fatalf("backupConfig failed: %v", err)
	}

	bakData, err := os.ReadFile(testPath + ".bak")
	if err != nil {
		t.Fatalf("failed to read backup: %v", err)
	}
	if string(bakData) != string(original) {
		t.Errorf("backup content mismatch: got %q", string(bakData))
	}
}

func TestBackupConfigFirstRun(t *testing.T) {
	tmpDir := t.TempDir()
	testPath := filepath.Join(tmpDir, "config.json")

	// No existing config: nothing to back up
	if err := backupConfig(testPath); err != nil {
		t.Errorf("backupConfig should succeed on first run, got %v", err)
	}
	if _, err := os.Stat(testPath + ".bak"); !os.IsNotExist(err) {
		t.Error("backup should not be created on first run")
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
		errMsg  string
	}{
		{name: "empty object", data: `{}`},
		{name: "valid", data: `{"storage": {"backend": "memory"}, "tracking": {"enabled": true, "sink": "log"}}`},
		{name: "malformed", data: `{"storage":`, wantErr: true},
		{name: "bad backend", data: `{"storage": {"backend": "redis"}}`, wantErr: true, errMsg: "storage.backend"},
		{name: "bad sink", data: `{"tracking": {"sink": "kafka"}}`, wantErr: true, errMsg: "tracking.sink"},
		{name: "bad level", data: `{"logging": {"level": "loud"}}`, wantErr: true, errMsg: "logging.level"},
		{name: "bad format", data: `{"logging": {"format": "xml"}}`, wantErr: true, errMsg: "logging.format"},
		{name: "negative limit", data: `{"recommendations": {"limit": -1}}`, wantErr: true, errMsg: "recommendations.limit"},
		{name: "unknown key", data: `{"storage": {"backnd": "bolt"}}`, wantErr: true, errMsg: "backnd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error message should contain %q, got %q", tt.errMsg, err.Error())
			}
		})
	}
}

func TestSaveCreatesBackup(t *testing.T) {
	tmpDir := t.TempDir()
	testPath := filepath.Join(tmpDir, "config.json")

	cfg := NewConfig()
	cfg.ExperimentsFile = "first.yaml"
	if err := Save(cfg, testPath); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	cfg.ExperimentsFile = "second.yaml"
	if err := Save(cfg, testPath); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	bakData, err := os.ReadFile(testPath + ".bak")
	if err != nil {
		t.Fatalf("failed to read backup: %v", err)
	}
	if !strings.Contains(string(bakData), "first.yaml") || strings.Contains(string(bakData), "second.yaml") {
		t.Error("backup should contain old config, not new config")
	}
}

func TestSaveValidatesBeforeWrite(t *testing.T) {
	tmpDir := t.TempDir()
	testPath := filepath.Join(tmpDir, "config.json")

	cfg := NewConfig()
	cfg.Storage.Backend = "redis"

	err := Save(cfg, testPath)
	if err == nil {
		t.Fatal("Save should fail validation for unknown backend")
	}
	if !strings.Contains(err.Error(), "invalid config") {
		t.Errorf("error should mention invalid config, got: %v", err)
	}
	var invalid *InvalidConfigError
	if !errors.As(err, &invalid) || invalid.Field != "storage.backend" {
		t.Errorf("expected InvalidConfigError for storage.backend, got %#v", err)
	}

	if _, err := os.Stat(testPath); !os.IsNotExist(err) {
		t.Error("config file should not exist after failed validation")
	}
}

func TestSaveReadOnlyFile(t *testing.T) {
	skipIfRoot(t)
	tmpDir := t.TempDir()
	testPath := filepath.Join(tmpDir, "readonly.json")
	if err := os.WriteFile(testPath, []byte(`{}`), 0444); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	defer os.Chmod(testPath, 0644)

	err := Save(NewConfig(), testPath)
	if err == nil {
		t.Fatal("Save should error for read-only file")
	}
	if !strings.Contains(err.Error(), "permission denied") || !strings.Contains(err.Error(), "Fix:") {
		t.Errorf("error should mention permission and a fix, got: %v", err)
	}
}

func TestSaveConcurrentWrites(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping concurrent write test in short mode")
	}

	tmpDir := t.TempDir()
	testPath := filepath.Join(tmpDir, "config.json")

	const numGoroutines = 10
	var wg sync.WaitGroup
	errs := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			cfg := NewConfig()
			cfg.Recommendations.Limit = idx
			if err := Save(cfg, testPath); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	// Some failures are acceptable under contention
	for err := range errs {
		t.Logf("concurrent save error: %v", err)
	}

	// Critical: the final file is valid, never a torn write
	data, err := os.ReadFile(testPath)
	if err != nil {
		t.Fatalf("failed to read config after concurrent writes: %v", err)
	}
	if _, err := decode(data); err != nil {
		t.Errorf("config file is corrupted after concurrent writes: %v", err)
	}
}
