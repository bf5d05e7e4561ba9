// Package postgres opens PostgreSQL-backed sessions for the store layer,
// using the pgx driver through database/sql.
package postgres

import (
	"context"
	"database/sql"

	"github.com/tokenforge/idpersist/store/sqlstore"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB wraps an open PostgreSQL handle.
type DB struct {
	db  *sql.DB
	dsn string
}

// Open connects to the database at dsn (a pgx/libpq connection string).
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
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
	return sqlstore.NewSession(d.db, sqlstore.DialectPostgres)
}
