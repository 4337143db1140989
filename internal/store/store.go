// Package store exports assembled content graphs to SQLite for consumers
// outside the process, with full-text search over titles, descriptions,
// headings and type names.
package store

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/Aman-CERP/contentgraph/internal/errors"
)

// SchemaVersion is the current export schema version.
const SchemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS entries (
	source       TEXT    NOT NULL,
	position     INTEGER NOT NULL,
	route        TEXT    NOT NULL,
	module_key   TEXT    NOT NULL,
	order_key    TEXT    NOT NULL DEFAULT '',
	title        TEXT    NOT NULL,
	description  TEXT    NOT NULL DEFAULT '',
	source_path  TEXT    NOT NULL DEFAULT '',
	previous     TEXT,
	next         TEXT,
	headings     TEXT    NOT NULL DEFAULT '[]',
	front_matter TEXT    NOT NULL DEFAULT '{}',
	PRIMARY KEY (source, route)
);

CREATE TABLE IF NOT EXISTS types (
	source      TEXT    NOT NULL,
	route       TEXT    NOT NULL,
	position    INTEGER NOT NULL,
	name        TEXT    NOT NULL,
	slug        TEXT    NOT NULL,
	kind        TEXT    NOT NULL,
	description TEXT    NOT NULL DEFAULT '',
	source_path TEXT    NOT NULL DEFAULT '',
	props       TEXT    NOT NULL DEFAULT '[]',
	PRIMARY KEY (source, route, position)
);

CREATE TABLE IF NOT EXISTS examples (
	source      TEXT    NOT NULL,
	route       TEXT    NOT NULL,
	position    INTEGER NOT NULL,
	name        TEXT    NOT NULL,
	slug        TEXT    NOT NULL,
	pathname    TEXT    NOT NULL,
	source_path TEXT    NOT NULL DEFAULT '',
	source_text TEXT    NOT NULL DEFAULT '',
	PRIMARY KEY (source, route, position)
);

-- route and source are stored but not searchable
CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
	source UNINDEXED,
	route UNINDEXED,
	content,
	tokenize='unicode61'
);

INSERT OR IGNORE INTO schema_version (version) VALUES (1);
`

// Store is a SQLite export of content graphs, one per source name. It is
// safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	closed bool
	logger *slog.Logger
}

// Open opens or creates the export database at path. An empty path opens
// an in-memory database.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.IOError("failed to create export directory", err).WithDetail("path", path)
		}
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, storeError("failed to open database", err, path)
	}

	// A single connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// modernc.org/sqlite ignores most DSN parameters
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, storeError("failed to set pragma", err, path)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, storeError("failed to initialize schema", err, path)
	}

	logger.Debug("export store opened", slog.String("path", path))
	return &Store{db: db, path: path, logger: logger}, nil
}

// Path returns the database path, empty for an in-memory store.
func (s *Store) Path() string { return s.path }

// Close checkpoints the write-ahead log and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.path != "" {
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	}
	return s.db.Close()
}

func (s *Store) checkOpen() error {
	if s.closed {
		return errors.New(errors.ErrCodeStoreFailed, "store is closed", nil)
	}
	return nil
}

func storeError(msg string, err error, path string) *errors.Error {
	e := errors.New(errors.ErrCodeStoreFailed, msg, err)
	if path != "" {
		e = e.WithDetail("path", path)
	}
	return e
}
