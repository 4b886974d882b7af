package providers

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/solenne/mend/errors"
)

// SQLiteStore is a Store backed by a SQLite existence index: one row per
// known entry, keyed by entry type and id. The index is maintained out of
// band (an ingest job, or the store's own write path); healing only reads.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS entries (
	entry_type TEXT NOT NULL,
	id         TEXT NOT NULL,
	PRIMARY KEY (entry_type, id)
);
`

// OpenSQLiteStore opens (and if needed initializes) an existence index at
// path. Use ":memory:" for an ephemeral index.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening existence index at %s", path)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "initializing existence index schema")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Exists(ctx context.Context, entryType, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM entries WHERE entry_type = ? AND id = ?`, entryType, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "querying existence of %s/%s", entryType, id)
	}
	return true, nil
}

// Add records that an entry exists. Idempotent.
func (s *SQLiteStore) Add(ctx context.Context, entryType, id string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO entries (entry_type, id) VALUES (?, ?)`, entryType, id)
	if err != nil {
		return errors.Wrapf(err, "indexing %s/%s", entryType, id)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
