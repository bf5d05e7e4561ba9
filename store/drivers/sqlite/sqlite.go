// Package sqlite opens SQLite-backed sessions for the store layer. It is
// the zero-dependency deployment path; embedded migrations create the
// schema.
package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/tokenforge/idpersist/store/sqlstore"

	_ "modernc.org/sqlite"
)

// FileDSN builds the DSN for a file-backed database with a busy timeout and
// WAL journaling, the settings a long-lived process needs when it shares the
// file with another writer. Uses the _pragma query form this driver parses.
func FileDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// DB wraps an open SQLite handle.
type DB struct {
	db  *sql.DB
	dsn string
}

// Open opens (or creates) the database at dsn. In-memory databases are
// pinned to a single connection, since each pool connection would otherwise
// see its own empty database.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{db: db, dsn: dsn}, nil
}

func (d *DB) Close() error { return d.db.Close() }

// Ping verifies the database connection is still alive.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// NewSession returns a store session bound to this database.
func (d *DB) NewSession() *sqlstore.Session {
	return sqlstore.NewSession(d.db, sqlstore.DialectSQLite)
}
