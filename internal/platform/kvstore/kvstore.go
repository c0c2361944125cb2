// Package kvstore provides the device-style key-value storage surface used
// by the local storage backend. The surface is injected as an explicit
// dependency at startup; callers never probe the environment themselves.
// When no persistent surface exists, the Unavailable variant turns every
// operation into a safe no-op so stores degrade instead of failing.
package kvstore

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// Store is a minimal string-keyed blob surface. Get reports whether the key
// exists; Set overwrites unconditionally.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// FileStore persists each key as a file under dir on the given filesystem.
type FileStore struct {
	fs  afero.Fs
	dir string
}

// NewFileStore creates the backing directory if needed.
func NewFileStore(fs afero.Fs, dir string) (*FileStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create kvstore dir %s: %w", dir, err)
	}
	return &FileStore{fs: fs, dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Get(key string) (string, bool, error) {
	b, err := afero.ReadFile(s.fs, s.path(key))
	if err != nil {
		if ok, _ := afero.Exists(s.fs, s.path(key)); !ok {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read key %s: %w", key, err)
	}
	return string(b), true, nil
}

func (s *FileStore) Set(key, value string) error {
	if err := afero.WriteFile(s.fs, s.path(key), []byte(value), 0o644); err != nil {
		return fmt.Errorf("write key %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Delete(key string) error {
	if ok, _ := afero.Exists(s.fs, s.path(key)); !ok {
		return nil
	}
	return s.fs.Remove(s.path(key))
}

// Unavailable is the no-op variant selected when no persistent surface
// exists. Reads report absence, writes succeed without persisting.
type Unavailable struct{}

func (Unavailable) Get(string) (string, bool, error) { return "", false, nil }
func (Unavailable) Set(string, string) error         { return nil }
func (Unavailable) Delete(string) error              { return nil }
