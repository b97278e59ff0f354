package experiments

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of an experiments file.
//
//	tests:
//	  - id: result-layout
//	    name: Result card layout
//	    enabled: true
//	    start: 2026-01-01T00:00:00Z
//	    variants:
//	      - {id: control, name: Detailed, weight: 0.5}
//	      - {id: compact, name: Compact, weight: 0.5}
type File struct {
	Tests []Test `yaml:"tests"`
}

// Parse decodes an experiments document. Unknown fields are rejected so
// typos in weights or windows do not silently disable a test.
func Parse(data []byte) ([]Test, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse experiments: %w", err)
	}
	return f.Tests, nil
}

// LoadFile reads and parses an experiments file.
func LoadFile(path string) ([]Test, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read experiments file: %w", err)
	}
	tests, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tests, nil
}

// Marshal encodes tests in the experiments file layout.
func Marshal(tests []Test) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(File{Tests: tests}); err != nil {
		return nil, fmt.Errorf("failed to encode experiments: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
