// Package sqlstore implements the store contracts over any database/sql
// backend. One generic token engine persists every token kind into a single
// tokens table; thin kind-specific stores layer serialization, expiry and
// hydration on top. The drivers packages open concrete databases and apply
// their schemas.
package sqlstore

import (
	"context"
	"database/sql"
	"strconv"
)

// Dialect selects the SQL flavor of the underlying engine. Queries are
// written with '?' placeholders and rebound per dialect.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

// rebind rewrites '?' placeholders to the dialect's form. Queries in this
// package never contain a literal '?'.
func (d Dialect) rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b []byte
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b = append(b, '$')
			b = strconv.AppendInt(b, int64(n), 10)
			continue
		}
		b = append(b, query[i])
	}
	return string(b)
}

// txOptions returns the options for a new transaction. Postgres gets the
// read-committed level the stores are designed for; sqlite only accepts the
// driver default.
func (d Dialect) txOptions() *sql.TxOptions {
	if d == DialectPostgres {
		return &sql.TxOptions{Isolation: sql.LevelReadCommitted}
	}
	return nil
}

// Session is the unit-of-work handle every store operates on. It wraps either
// a bare database handle or, after Begin, a live transaction. Stores never
// open their own connections; they only run statements and transactions on
// the session they were constructed with, so the session's owner decides the
// batching.
type Session struct {
	db      *sql.DB
	tx      *sql.Tx
	dialect Dialect
}

// NewSession wraps an open database handle.
func NewSession(db *sql.DB, dialect Dialect) *Session {
	return &Session{db: db, dialect: dialect}
}

// DB exposes the underlying handle (for drivers and migrations).
func (s *Session) DB() *sql.DB { return s.db }

// InTx reports whether the session is bound to a live transaction.
func (s *Session) InTx() bool { return s.tx != nil }

// Begin starts a transaction and returns a session bound to it. The caller
// must Commit or Rollback the returned session. Nested Begin is not
// supported.
func (s *Session) Begin(ctx context.Context) (*Session, error) {
	if s.tx != nil {
		return nil, sql.ErrTxDone
	}
	tx, err := s.db.BeginTx(ctx, s.dialect.txOptions())
	if err != nil {
		return nil, err
	}
	return &Session{db: s.db, tx: tx, dialect: s.dialect}, nil
}

// Commit commits the bound transaction.
func (s *Session) Commit() error {
	if s.tx == nil {
		return sql.ErrTxDone
	}
	return s.tx.Commit()
}

// Rollback rolls back the bound transaction. Safe to call after Commit.
func (s *Session) Rollback() error {
	if s.tx == nil {
		return sql.ErrTxDone
	}
	return s.tx.Rollback()
}

// InTransaction executes fn within a transaction. If the session already has
// one open, fn runs inline on it and any error rolls back the outer
// transaction before propagating, so the caller's whole batch is undone
// rather than half-applied. Otherwise a new transaction is opened, committed
// when fn returns nil and rolled back when it doesn't. Storage errors are
// never retried here.
func (s *Session) InTransaction(ctx context.Context, fn func(*Session) error) error {
	if s.tx != nil {
		if err := fn(s); err != nil {
			_ = s.tx.Rollback()
			return err
		}
		return nil
	}

	tx, err := s.db.BeginTx(ctx, s.dialect.txOptions())
	if err != nil {
		return err
	}
	bound := &Session{db: s.db, tx: tx, dialect: s.dialect}

	defer func() {
		_ = tx.Rollback() // no-op once committed
	}()

	if err := fn(bound); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Session) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	query = s.dialect.rebind(query)
	if s.tx != nil {
		return s.tx.ExecContext(ctx, query, args...)
	}
	return s.db.ExecContext(ctx, query, args...)
}

func (s *Session) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	query = s.dialect.rebind(query)
	if s.tx != nil {
		return s.tx.QueryContext(ctx, query, args...)
	}
	return s.db.QueryContext(ctx, query, args...)
}

func (s *Session) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	query = s.dialect.rebind(query)
	if s.tx != nil {
		return s.tx.QueryRowContext(ctx, query, args...)
	}
	return s.db.QueryRowContext(ctx, query, args...)
}

func mapNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func mapStringNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
