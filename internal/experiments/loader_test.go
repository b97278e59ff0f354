package experiments

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFile = `
tests:
  - id: result-layout
    name: Result card layout
    enabled: true
    start: 2026-01-01T00:00:00Z
    end: 2026-12-31T00:00:00Z
    variants:
      - id: control
        name: Detailed
        weight: 0.5
      - id: compact
        name: Compact
        weight: 0.5
        description: One-line result
  - id: broken
    name: Broken weights
    enabled: true
    variants:
      - {id: a, name: A, weight: 0.7}
      - {id: b, name: B, weight: 0.7}
`

func TestParse(t *testing.T) {
	tests, err := Parse([]byte(sampleFile))
	require.NoError(t, err)
	require.Len(t, tests, 2)

	layout := tests[0]
	assert.Equal(t, "result-layout", layout.ID)
	assert.True(t, layout.Enabled)
	require.NotNil(t, layout.Start)
	require.NotNil(t, layout.End)
	assert.True(t, layout.Start.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.Len(t, layout.Variants, 2)
	assert.Equal(t, "One-line result", layout.Variants[1].Description)

	reg := NewRegistry(tests)
	assert.True(t, reg.IsValid("result-layout"))
	assert.False(t, reg.IsValid("broken"))
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("tests:\n  - id: x\n    wieght: 1\n"))
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	tests, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, tests)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "experiments.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleFile), 0644))

	tests, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, tests, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshal_RoundTrip(t *testing.T) {
	data, err := Marshal(DefaultTests())
	require.NoError(t, err)

	tests, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, DefaultTests(), tests)
}
