package logease

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatedPath(t *testing.T) {
	tests := []struct {
		path  string
		index int
		want  string
	}{
		{"app.log", 1, "app.1.log"},
		{"/var/log/app.log", 2, "/var/log/app.2.log"},
		{"/var/log/app", 1, "/var/log/app.1"},
		{"logs/app.tar.gz", 3, "logs/app.tar.3.gz"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rotatedPath(tt.path, tt.index))
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRotateFilesShiftsChain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	writeFile(t, path, "active")
	writeFile(t, rotatedPath(path, 1), "one")
	writeFile(t, rotatedPath(path, 2), "two")
	writeFile(t, rotatedPath(path, 3), "three")

	require.NoError(t, rotateFiles(path, 4))

	assert.NoFileExists(t, path)
	assert.Equal(t, "active", readFile(t, rotatedPath(path, 1)))
	assert.Equal(t, "one", readFile(t, rotatedPath(path, 2)))
	assert.Equal(t, "two", readFile(t, rotatedPath(path, 3)))
	assert.NoFileExists(t, rotatedPath(path, 4))
}

func TestRotateFilesWithGaps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	writeFile(t, path, "active")
	writeFile(t, rotatedPath(path, 2), "two")

	require.NoError(t, rotateFiles(path, 3))

	assert.Equal(t, "active", readFile(t, rotatedPath(path, 1)))
	assert.NoFileExists(t, rotatedPath(path, 2), "oldest slot is deleted")
	assert.NoFileExists(t, path)
}

func TestRotateFilesMissingActive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	assert.Error(t, rotateFiles(path, 2))
}
