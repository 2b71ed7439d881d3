// SQLite-backed Store.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// the SQLite C code — no C compiler needed, works everywhere Go works.
//
// The schema is a single two-column table. SQLite is doing nothing here but
// durably persisting strings by key; all structure lives in the JSON values
// the repository layer writes.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

var _ Store = (*SQLite)(nil)

// SQLite is a Store persisted in a single SQLite file.
type SQLite struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the store at path and prepares the schema.
//
// path examples:
//   - "data/breakoutedge.db" → file-based, persistent
//   - ":memory:"             → in-memory, lost on close (tests)
func OpenSQLite(path string) (*SQLite, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening database: %w", err)
	}

	// Ping forces an immediate connection so a bad path or permissions
	// problem surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in flight.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: creating kv table: %w", err)
	}

	return &SQLite{conn: conn}, nil
}

// Close closes the underlying connection pool. Always defer this next to
// OpenSQLite — it flushes the WAL and releases the file lock.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

func (s *SQLite) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.conn.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ?`, key,
	).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrNoValue
		}
		return "", fmt.Errorf("store: getting %q: %w", key, err)
	}
	return value, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	// Upsert: last write wins, matching the store's documented semantics.
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("store: setting %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Remove(ctx context.Context, key string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("store: removing %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) List(ctx context.Context, prefix string) ([]string, error) {
	// Range scan on the primary key, open-ended upward. An upper bound of
	// prefix+"￿" would sort BEFORE 4-byte UTF-8 sequences and drop
	// keys containing characters above U+FFFF, so the bound is checked in
	// Go instead; keys are ordered, so iteration stops at the first
	// non-prefixed key.
	rows, err := s.conn.QueryContext(ctx,
		`SELECT key FROM kv WHERE key >= ? ORDER BY key`,
		prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("store: listing %q: %w", prefix, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("store: scanning key: %w", err)
		}
		if !strings.HasPrefix(k, prefix) {
			break
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterating keys: %w", err)
	}
	return keys, nil
}
