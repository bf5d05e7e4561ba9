package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tokenforge/idpersist/serial"
	"github.com/tokenforge/idpersist/store"
)

// tokenRow is the single physical shape every token kind persists to.
type tokenRow struct {
	key       string
	subjectID string // empty for client-only grants, stored as NULL
	clientID  string
	jsonCode  string
	expiry    time.Time
}

// expired reports lazy expiry: a row at or past its expiry is dead even if
// cleanup has not removed it yet.
func (r *tokenRow) expired(now time.Time) bool {
	return !r.expiry.After(now)
}

// tokenStore is the kind-agnostic engine beneath the specialized stores.
// The kind is fixed at construction; every statement filters on it so kinds
// sharing the table never observe each other.
type tokenStore struct {
	session *Session
	codec   *serial.Codec
	kind    store.TokenKind
}

// Remove deletes the record under (key, kind). Deleting a missing record is
// not an error.
func (t *tokenStore) Remove(ctx context.Context, key string) error {
	return t.session.InTransaction(ctx, func(s *Session) error {
		_, err := s.exec(ctx,
			`DELETE FROM tokens WHERE key = ? AND token_type = ?`,
			key, int(t.kind))
		return err
	})
}

// Revoke bulk-deletes every record of this kind for the subject/client pair
// in one set-based statement. Matching zero rows is not an error.
func (t *tokenStore) Revoke(ctx context.Context, subjectID, clientID string) error {
	return t.session.InTransaction(ctx, func(s *Session) error {
		_, err := s.exec(ctx,
			`DELETE FROM tokens WHERE subject_id = ? AND client_id = ? AND token_type = ?`,
			subjectID, clientID, int(t.kind))
		return err
	})
}

// fetch loads the row under (key, kind), or nil when absent.
func (t *tokenStore) fetch(ctx context.Context, s *Session, key string) (*tokenRow, error) {
	row := s.queryRow(ctx,
		`SELECT key, subject_id, client_id, json_code, expiry
		   FROM tokens WHERE key = ? AND token_type = ?`,
		key, int(t.kind))

	var (
		r       tokenRow
		subject sql.NullString
	)
	err := row.Scan(&r.key, &subject, &r.clientID, &r.jsonCode, &r.expiry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.subjectID = mapNullString(subject)
	return &r, nil
}

// fetchBySubject loads every row of this kind for the subject.
func (t *tokenStore) fetchBySubject(ctx context.Context, s *Session, subjectID string) ([]tokenRow, error) {
	rows, err := s.query(ctx,
		`SELECT key, subject_id, client_id, json_code, expiry
		   FROM tokens WHERE subject_id = ? AND token_type = ?`,
		subjectID, int(t.kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tokenRow
	for rows.Next() {
		var (
			r       tokenRow
			subject sql.NullString
		)
		if err := rows.Scan(&r.key, &subject, &r.clientID, &r.jsonCode, &r.expiry); err != nil {
			return nil, err
		}
		r.subjectID = mapNullString(subject)
		out = append(out, r)
	}
	return out, rows.Err()
}

// insert writes a new row. One-shot kinds (authorization codes, token
// handles) use this; a duplicate (key, kind) violates the unique constraint
// and surfaces as a storage error.
func (t *tokenStore) insert(ctx context.Context, s *Session, r tokenRow) error {
	_, err := s.exec(ctx,
		`INSERT INTO tokens (key, subject_id, client_id, token_type, json_code, expiry)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.key, mapStringNull(r.subjectID), r.clientID, int(t.kind), r.jsonCode, r.expiry.UTC())
	return err
}

// upsert writes or replaces the row under (key, kind) in one atomic
// statement, so concurrent rotations of the same key serialize at the row
// and the later commit wins.
func (t *tokenStore) upsert(ctx context.Context, s *Session, r tokenRow) error {
	_, err := s.exec(ctx,
		`INSERT INTO tokens (key, subject_id, client_id, token_type, json_code, expiry)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (key, token_type) DO UPDATE SET
		   subject_id = excluded.subject_id,
		   client_id  = excluded.client_id,
		   json_code  = excluded.json_code,
		   expiry     = excluded.expiry`,
		r.key, mapStringNull(r.subjectID), r.clientID, int(t.kind), r.jsonCode, r.expiry.UTC())
	return err
}
