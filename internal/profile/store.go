// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package profile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/controlgrid/internal/fsutil"
)

// Extension is the file extension of profile documents.
const Extension = ".hcl"

// Store keeps one document per profile in a directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the file that holds profile name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+Extension)
}

// NameOf returns the profile name stored in path, and false when path is not
// a profile document of this store.
func (s *Store) NameOf(path string) (string, bool) {
	if filepath.Ext(path) != Extension || filepath.Clean(filepath.Dir(path)) != filepath.Clean(s.dir) {
		return "", false
	}
	name := fsutil.Stem(path)
	if name == "" || name[0] == '.' {
		return "", false
	}
	return name, true
}

// List returns the names of all stored profiles, sorted.
func (s *Store) List() ([]string, error) {
	files, err := fsutil.FindFilesByExtension(s.dir, Extension)
	if err != nil {
		return nil, fmt.Errorf("list profiles in %s: %w", s.dir, err)
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, fsutil.Stem(f))
	}
	return names, nil
}

// Read returns the raw document of a profile.
func (s *Store) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", name, err)
	}
	return data, nil
}

// Write replaces a profile's document atomically: the data goes to a hidden
// temporary file in the same directory which is then renamed over the target.
func (s *Store) Write(name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp profile: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write profile %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync profile %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close profile %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, s.Path(name)); err != nil {
		return fmt.Errorf("rename profile %s: %w", name, err)
	}

	success = true
	return nil
}
