package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/tokenforge/idpersist/domain"
	"github.com/tokenforge/idpersist/store"
)

// ConsentStore persists granted scopes per (subject, client). Scope names
// are stored as one comma-joined column; no expiry applies.
type ConsentStore struct {
	session *Session
}

var _ store.Consents = (*ConsentStore)(nil)

// NewConsentStore builds the store over a session.
func NewConsentStore(session *Session) *ConsentStore {
	return &ConsentStore{session: session}
}

// Load returns the consent for (subject, client), or nil when absent.
func (st *ConsentStore) Load(ctx context.Context, subject, clientID string) (*domain.Consent, error) {
	row := st.session.queryRow(ctx,
		`SELECT subject, client_id, scopes FROM consents
		  WHERE subject = ? AND client_id = ?`,
		subject, clientID)

	var c domain.Consent
	var scopes string
	err := row.Scan(&c.Subject, &c.ClientID, &scopes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.Scopes = parseScopes(scopes)
	return &c, nil
}

// LoadAll returns every consent recorded for the subject.
func (st *ConsentStore) LoadAll(ctx context.Context, subject string) ([]*domain.Consent, error) {
	rows, err := st.session.query(ctx,
		`SELECT subject, client_id, scopes FROM consents WHERE subject = ?`,
		subject)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Consent
	for rows.Next() {
		var c domain.Consent
		var scopes string
		if err := rows.Scan(&c.Subject, &c.ClientID, &scopes); err != nil {
			return nil, err
		}
		c.Scopes = parseScopes(scopes)
		out = append(out, &c)
	}
	return out, rows.Err()
}

// Update upserts the consent. An empty scope set means nothing remains
// granted, so the record is deleted instead of stored empty.
func (st *ConsentStore) Update(ctx context.Context, consent *domain.Consent) error {
	return st.session.InTransaction(ctx, func(s *Session) error {
		if len(consent.Scopes) == 0 {
			_, err := s.exec(ctx,
				`DELETE FROM consents WHERE subject = ? AND client_id = ?`,
				consent.Subject, consent.ClientID)
			return err
		}

		_, err := s.exec(ctx,
			`INSERT INTO consents (subject, client_id, scopes) VALUES (?, ?, ?)
			 ON CONFLICT (subject, client_id) DO UPDATE SET scopes = excluded.scopes`,
			consent.Subject, consent.ClientID, strings.Join(consent.Scopes, ","))
		return err
	})
}

// Revoke deletes the consent for (subject, client). Idempotent.
func (st *ConsentStore) Revoke(ctx context.Context, subject, clientID string) error {
	return st.session.InTransaction(ctx, func(s *Session) error {
		_, err := s.exec(ctx,
			`DELETE FROM consents WHERE subject = ? AND client_id = ?`,
			subject, clientID)
		return err
	})
}

func parseScopes(scopes string) []string {
	scopes = strings.TrimSpace(scopes)
	if scopes == "" {
		return nil
	}
	return strings.Split(scopes, ",")
}
