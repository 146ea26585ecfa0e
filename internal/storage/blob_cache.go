package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BlobCacheEntry is a cached payload with the time it was written.
// Staleness is decided by the caller, not by the cache.
type BlobCacheEntry struct {
	ID       string
	Payload  json.RawMessage
	CachedAt time.Time
}

// BlobCache defines a keyed cache of timestamped JSON payloads.
type BlobCache interface {
	Get(id string) (*BlobCacheEntry, error)
	Put(id string, payload json.RawMessage) error
	Delete(id string) error
	Clear() error
}

// fileEnvelope is the on-disk shape of a cache entry.
type fileEnvelope struct {
	CachedAt time.Time       `json:"cached_at"`
	Payload  json.RawMessage `json:"payload"`
}

// FileBlobCache implements BlobCache with one envelope file per id.
type FileBlobCache struct {
	rootDir string
	now     func() time.Time
}

// NewFileBlobCache creates a FileBlobCache rooted at cacheDirectory,
// creating the directory if it does not exist.
func NewFileBlobCache(cacheDirectory string) (*FileBlobCache, error) {
	if err := os.MkdirAll(cacheDirectory, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll > %w", err)
	}
	return &FileBlobCache{
		rootDir: cacheDirectory,
		now:     time.Now,
	}, nil
}

func (c *FileBlobCache) filePath(id string) string {
	return filepath.Join(c.rootDir, id+".cache.json")
}

// Get returns the cached entry for id, or nil if there is none.
func (c *FileBlobCache) Get(id string) (*BlobCacheEntry, error) {
	contents, err := os.ReadFile(c.filePath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile > %w", err)
	}

	var envelope fileEnvelope
	if err := json.Unmarshal(contents, &envelope); err != nil {
		return nil, fmt.Errorf("json.Unmarshal > %w", err)
	}
	return &BlobCacheEntry{
		ID:       id,
		Payload:  envelope.Payload,
		CachedAt: envelope.CachedAt,
	}, nil
}

// Put stores payload for id with the current time.
func (c *FileBlobCache) Put(id string, payload json.RawMessage) error {
	contents, err := json.Marshal(fileEnvelope{
		CachedAt: c.now(),
		Payload:  payload,
	})
	if err != nil {
		return fmt.Errorf("json.Marshal > %w", err)
	}
	if err := os.WriteFile(c.filePath(id), contents, 0o644); err != nil {
		return fmt.Errorf("os.WriteFile > %w", err)
	}
	return nil
}

// Delete removes the cached entry for id. Deleting an absent id is not
// an error.
func (c *FileBlobCache) Delete(id string) error {
	err := os.Remove(c.filePath(id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("os.Remove > %w", err)
	}
	return nil
}

// Clear removes every cached entry.
func (c *FileBlobCache) Clear() error {
	entries, err := os.ReadDir(c.rootDir)
	if err != nil {
		return fmt.Errorf("os.ReadDir > %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".cache.json") {
			continue
		}
		if err := os.Remove(filepath.Join(c.rootDir, entry.Name())); err != nil {
			return fmt.Errorf("os.Remove > %w", err)
		}
	}
	return nil
}
