package storage

import (
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/kirostudy/vocabdrill/internal/config"
)

// OpenDatabase opens a database connection for the configured driver.
// Supported drivers are "mysql" and "sqlite".
func OpenDatabase(cfg config.StorageConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case "mysql":
		return openMySQL(cfg)
	case "sqlite":
		db, err := sqlx.Open("sqlite", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlx.Open() > %w", err)
		}
		// modernc sqlite serializes writes; a single connection avoids
		// SQLITE_BUSY under concurrent access.
		db.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %q", cfg.Driver)
	}
}

func openMySQL(cfg config.StorageConfig) (*sqlx.DB, error) {
	mysqlCfg := mysql.NewConfig()
	mysqlCfg.User = cfg.Username
	mysqlCfg.Passwd = cfg.Password
	mysqlCfg.Net = "tcp"
	mysqlCfg.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mysqlCfg.DBName = cfg.Database
	mysqlCfg.ParseTime = true
	if cfg.TLS {
		mysqlCfg.TLSConfig = "true"
	}
	if len(cfg.Params) > 0 {
		mysqlCfg.Params = cfg.Params
	}

	db, err := sqlx.Open("mysql", mysqlCfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open() > %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	return db, nil
}

// Migrate creates the vocabdrill tables if they do not exist yet.
func Migrate(db *sqlx.DB, driver string) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS kv_entries (
			entry_key VARCHAR(191) NOT NULL PRIMARY KEY,
			entry_value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS bank_cache (
			id VARCHAR(191) NOT NULL PRIMARY KEY,
			payload TEXT NOT NULL,
			cached_at BIGINT NOT NULL
		)`,
	}
	for _, statement := range statements {
		if _, err := db.Exec(statement); err != nil {
			return fmt.Errorf("db.Exec(migrate %s) > %w", driver, err)
		}
	}
	return nil
}
