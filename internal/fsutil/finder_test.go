// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	for _, name := range []string{"b.hcl", "a.hcl", ".a-1.tmp", ".hidden.hcl", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.hcl"), 0o755))

	// Act
	files, err := FindFilesByExtension(dir, ".hcl")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.hcl"), filepath.Join(dir, "b.hcl")}, files)
}

func TestFindFilesByExtension_MissingDir(t *testing.T) {
	files, err := FindFilesByExtension(filepath.Join(t.TempDir(), "missing"), ".hcl")

	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestFindFilesByExtension_PanicsOnEmptyExtension(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFilesByExtension(".", "") })
}

func TestStem(t *testing.T) {
	assert.Equal(t, "Default", Stem("/tmp/profiles/Default.hcl"))
	assert.Equal(t, "noext", Stem("noext"))
}
