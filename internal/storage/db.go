// ABOUTME: SQLite backend for health records.
// ABOUTME: Opens one shared database through modernc.org/sqlite (pure Go, no CGO).
package storage

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DBFile is the database file name inside the data directory.
const DBFile = "phr.db"

var sqlitePragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
}

// SQLiteRepository keeps every user's records in one SQLite table.
type SQLiteRepository struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

var _ Repository = (*SQLiteRepository)(nil)

// Open opens or creates the records database at path.
func Open(path string, logger *zap.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer at a time; the CLI and server never need more.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := os.Chmod(path, 0600); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	r := &SQLiteRepository{db: db, path: path, logger: logger}
	if err := r.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	logger.Debug("opened sqlite repository", zap.String("path", path))
	return r, nil
}

// sqliteDSN builds a file DSN with pragmas applied on every connection.
func sqliteDSN(path string) string {
	q := url.Values{}
	for _, p := range sqlitePragmas {
		q.Add("_pragma", p)
	}
	return "file:" + path + "?" + q.Encode()
}

// Path returns the database file location.
func (r *SQLiteRepository) Path() string {
	return r.path
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// DataDir returns the default data directory under XDG_DATA_HOME.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "phr")
}
