package main

import (
	"fmt"
	"time"

	"github.com/kirostudy/vocabdrill/internal/config"
	"github.com/kirostudy/vocabdrill/internal/storage"
	"github.com/kirostudy/vocabdrill/internal/wordbank"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.Load > %w", err)
	}
	return cfg, nil
}

// environment bundles the storage handles a command needs. Close must
// be called once the command is done.
type environment struct {
	cfg    *config.Config
	store  storage.KeyValueStore
	cache  storage.BlobCache
	closer func() error
}

func (env *environment) Close() error {
	if env.closer == nil {
		return nil
	}
	return env.closer()
}

// newEnvironment opens the configured storage backend. The file driver
// keeps aggregates as JSON files and bank payloads in the cache
// directory; the database drivers keep both in tables.
func newEnvironment(cfg *config.Config) (*environment, error) {
	env := &environment{cfg: cfg}

	switch cfg.Storage.Driver {
	case "file":
		store, err := storage.NewFileStore(cfg.Storage.DataDirectory)
		if err != nil {
			return nil, fmt.Errorf("storage.NewFileStore > %w", err)
		}
		cache, err := storage.NewFileBlobCache(cfg.Banks.CacheDirectory)
		if err != nil {
			return nil, fmt.Errorf("storage.NewFileBlobCache > %w", err)
		}
		env.store = store
		env.cache = cache
	case "sqlite", "mysql":
		db, err := storage.OpenDatabase(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("storage.OpenDatabase > %w", err)
		}
		if err := storage.Migrate(db, cfg.Storage.Driver); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("storage.Migrate > %w", err)
		}
		env.store = storage.NewDBStore(db, cfg.Storage.Driver)
		env.cache = storage.NewDBBlobCache(db, cfg.Storage.Driver)
		env.closer = db.Close
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
	return env, nil
}

// newLoader builds the word bank loader from the catalog file and the
// environment's blob cache.
func newLoader(env *environment) (*wordbank.Loader, *wordbank.Catalog, error) {
	catalog, err := wordbank.LoadCatalog(env.cfg.Banks.CatalogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("wordbank.LoadCatalog > %w", err)
	}
	loader := wordbank.NewLoader(
		catalog,
		wordbank.NewHTTPFetcher(),
		env.cache,
		time.Duration(env.cfg.Banks.CacheMaxAgeDays)*24*time.Hour,
		time.Duration(env.cfg.Banks.RetryDelayMs)*time.Millisecond,
	)
	return loader, catalog, nil
}
