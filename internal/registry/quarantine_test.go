package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridrive/veridrive/internal/registry"
)

func writeQuarantineFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "quarantine.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadQuarantine_Success(t *testing.T) {
	path := writeQuarantineFile(t, `{"vehicles": ["VH-001", " vh-002 ", "VH-003"]}`)

	q, err := registry.LoadQuarantine(path)

	assert.NoError(t, err)
	assert.True(t, q.IsQuarantined("VH-001"))
	assert.True(t, q.IsQuarantined("VH-002"))
	assert.True(t, q.IsQuarantined("vh-003"))
	assert.True(t, q.IsQuarantined("  vh-001  "))
	assert.False(t, q.IsQuarantined("VH-999"))
}

func TestLoadQuarantine_EmptyList(t *testing.T) {
	path := writeQuarantineFile(t, `{"vehicles": []}`)

	q, err := registry.LoadQuarantine(path)

	assert.NoError(t, err)
	assert.False(t, q.IsQuarantined("VH-001"))
}

func TestLoadQuarantine_FileNotFound(t *testing.T) {
	q, err := registry.LoadQuarantine(filepath.Join(t.TempDir(), "missing.json"))

	assert.Error(t, err)
	assert.Nil(t, q)
	assert.Contains(t, err.Error(), "failed to read quarantine file")
}

func TestLoadQuarantine_InvalidJSON(t *testing.T) {
	path := writeQuarantineFile(t, `{"vehicles": [`)

	q, err := registry.LoadQuarantine(path)

	assert.Error(t, err)
	assert.Nil(t, q)
	assert.Contains(t, err.Error(), "failed to parse quarantine JSON")
}
