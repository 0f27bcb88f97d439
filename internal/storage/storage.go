// Package storage persists analytics bundles in a local SQLite database,
// keyed by the record hash so re-imports are idempotent.
package storage

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// DB is a handle on the analytics store.
type DB struct {
	conn *sql.DB
}

// Open opens the SQLite database at path, creating it and applying the
// schema when needed. Schema statements are all IF NOT EXISTS, so opening
// an existing store is a no-op.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close releases the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
