package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore implements KeyValueStore with one JSON document per key
// under a data directory.
type FileStore struct {
	rootDir string
}

// NewFileStore creates a FileStore rooted at dataDirectory, creating the
// directory if it does not exist.
func NewFileStore(dataDirectory string) (*FileStore, error) {
	if err := os.MkdirAll(dataDirectory, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll > %w", err)
	}
	return &FileStore{rootDir: dataDirectory}, nil
}

func (s *FileStore) filePath(key string) string {
	return filepath.Join(s.rootDir, key+".json")
}

// Get returns the stored value for key, or false if the key is absent.
func (s *FileStore) Get(key string) (string, bool, error) {
	contents, err := os.ReadFile(s.filePath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("os.ReadFile > %w", err)
	}
	return string(contents), true, nil
}

// Set writes value for key, replacing any previous value.
func (s *FileStore) Set(key, value string) error {
	if err := os.WriteFile(s.filePath(key), []byte(value), 0o644); err != nil {
		return fmt.Errorf("os.WriteFile > %w", err)
	}
	return nil
}

// Remove deletes the value for key. Removing an absent key is not an error.
func (s *FileStore) Remove(key string) error {
	err := os.Remove(s.filePath(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("os.Remove > %w", err)
	}
	return nil
}
