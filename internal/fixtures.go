// Package internal provides fixtures shared by package tests.
package internal

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WritePNG writes a blank width x height PNG to dir/name, creating parent
// directories, and returns its path.
func WritePNG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()

	filePath := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))

	file, err := os.Create(filePath)
	require.NoError(t, err)
	defer file.Close()

	m := image.NewNRGBA(image.Rect(0, 0, width, height))
	require.NoError(t, png.Encode(file, m))
	return filePath
}

// WriteFile writes content to dir/name, creating parent directories, and
// returns its path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	filePath := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
	require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	return filePath
}
