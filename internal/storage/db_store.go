package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// DBStore implements KeyValueStore on a kv_entries table.
type DBStore struct {
	db     *sqlx.DB
	driver string
}

// NewDBStore creates a DBStore for the given driver ("mysql" or "sqlite").
func NewDBStore(db *sqlx.DB, driver string) *DBStore {
	return &DBStore{db: db, driver: driver}
}

// Get returns the stored value for key, or false if the key is absent.
func (s *DBStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.Get(&value, "SELECT entry_value FROM kv_entries WHERE entry_key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("db.Get(kv_entries) > %w", err)
	}
	return value, true, nil
}

// Set writes value for key, replacing any previous value.
func (s *DBStore) Set(key, value string) error {
	query := `INSERT INTO kv_entries (entry_key, entry_value) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE entry_value = VALUES(entry_value)`
	if s.driver == "sqlite" {
		query = `INSERT INTO kv_entries (entry_key, entry_value) VALUES (?, ?)
			ON CONFLICT(entry_key) DO UPDATE SET entry_value = excluded.entry_value`
	}
	if _, err := s.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("db.Exec(upsert kv_entry) > %w", err)
	}
	return nil
}

// Remove deletes the value for key. Removing an absent key is not an error.
func (s *DBStore) Remove(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv_entries WHERE entry_key = ?", key); err != nil {
		return fmt.Errorf("db.Exec(delete kv_entry) > %w", err)
	}
	return nil
}

// cachedBank is the row shape of the bank_cache table.
type cachedBank struct {
	ID       string `db:"id"`
	Payload  string `db:"payload"`
	CachedAt int64  `db:"cached_at"`
}

// DBBlobCache implements BlobCache on a bank_cache table.
type DBBlobCache struct {
	db     *sqlx.DB
	driver string
	now    func() time.Time
}

// NewDBBlobCache creates a DBBlobCache for the given driver.
func NewDBBlobCache(db *sqlx.DB, driver string) *DBBlobCache {
	return &DBBlobCache{db: db, driver: driver, now: time.Now}
}

// Get returns the cached entry for id, or nil if there is none.
func (c *DBBlobCache) Get(id string) (*BlobCacheEntry, error) {
	var row cachedBank
	err := c.db.Get(&row, "SELECT id, payload, cached_at FROM bank_cache WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.Get(bank_cache) > %w", err)
	}
	return &BlobCacheEntry{
		ID:       row.ID,
		Payload:  json.RawMessage(row.Payload),
		CachedAt: time.Unix(row.CachedAt, 0),
	}, nil
}

// Put stores payload for id with the current time.
func (c *DBBlobCache) Put(id string, payload json.RawMessage) error {
	query := `INSERT INTO bank_cache (id, payload, cached_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE payload = VALUES(payload), cached_at = VALUES(cached_at)`
	if c.driver == "sqlite" {
		query = `INSERT INTO bank_cache (id, payload, cached_at) VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, cached_at = excluded.cached_at`
	}
	if _, err := c.db.Exec(query, id, string(payload), c.now().Unix()); err != nil {
		return fmt.Errorf("db.Exec(upsert bank_cache) > %w", err)
	}
	return nil
}

// Delete removes the cached entry for id.
func (c *DBBlobCache) Delete(id string) error {
	if _, err := c.db.Exec("DELETE FROM bank_cache WHERE id = ?", id); err != nil {
		return fmt.Errorf("db.Exec(delete bank_cache) > %w", err)
	}
	return nil
}

// Clear removes every cached entry.
func (c *DBBlobCache) Clear() error {
	if _, err := c.db.Exec("DELETE FROM bank_cache"); err != nil {
		return fmt.Errorf("db.Exec(clear bank_cache) > %w", err)
	}
	return nil
}
