package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestFindFiles(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.hcl"))
	touch(t, filepath.Join(root, "a.YAML"))
	touch(t, filepath.Join(root, "nested", "c.yml"))
	touch(t, filepath.Join(root, "notes.txt"))

	// --- Act ---
	files, err := FindFiles(root, ".hcl", ".yaml", ".yml")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.YAML"),
		filepath.Join(root, "b.hcl"),
		filepath.Join(root, "nested", "c.yml"),
	}, files)
}

func TestFindFiles_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := FindFiles(filepath.Join(t.TempDir(), "nope"), ".hcl")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFindFiles_NoExtensionsPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { _, _ = FindFiles(t.TempDir()) })
}

func TestHasExtension(t *testing.T) {
	t.Parallel()

	assert.True(t, HasExtension("x.JSON", ".json"))
	assert.False(t, HasExtension("x.json.bak", ".json"))
	assert.False(t, HasExtension("x.json", ""))
}
