package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/tokenforge/idpersist/domain"
	"github.com/tokenforge/idpersist/store"
)

// ClientStore persists client registrations. The list-shaped fields
// (redirect URIs, allowed scopes, claims) are stored as JSON columns.
type ClientStore struct {
	session *Session
}

var _ store.Clients = (*ClientStore)(nil)

// NewClientStore builds the store over a session.
func NewClientStore(session *Session) *ClientStore {
	return &ClientStore{session: session}
}

// CreateClient inserts the registration. A duplicate client id violates the
// unique constraint and surfaces as a storage error.
func (st *ClientStore) CreateClient(ctx context.Context, client *domain.Client) error {
	redirects, err := json.Marshal(client.RedirectURIs)
	if err != nil {
		return err
	}
	scopes, err := json.Marshal(client.AllowedScopes)
	if err != nil {
		return err
	}
	claims, err := json.Marshal(client.Claims)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return st.session.InTransaction(ctx, func(s *Session) error {
		_, err := s.exec(ctx,
			`INSERT INTO clients (
			   client_id, client_name, enabled, flow,
			   redirect_uris, allowed_scopes, claims,
			   identity_token_lifetime, access_token_lifetime,
			   authorization_code_lifetime,
			   absolute_refresh_token_lifetime, sliding_refresh_token_lifetime,
			   created_at, updated_at
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			client.ClientID, client.ClientName, boolInt(client.Enabled), string(client.Flow),
			string(redirects), string(scopes), string(claims),
			client.IdentityTokenLifetime, client.AccessTokenLifetime,
			client.AuthorizationCodeLifetime,
			client.AbsoluteRefreshTokenLifetime, client.SlidingRefreshTokenLifetime,
			now, now)
		return err
	})
}

// FindClientByID returns the registration, or nil when no such client exists.
func (st *ClientStore) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	row := st.session.queryRow(ctx,
		clientSelect+` WHERE client_id = ?`, clientID)

	client, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

// ListClients returns every registration.
func (st *ClientStore) ListClients(ctx context.Context) ([]*domain.Client, error) {
	rows, err := st.session.query(ctx, clientSelect+` ORDER BY client_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, client)
	}
	return out, rows.Err()
}

// DeleteClient removes the registration. Idempotent. Tokens already issued
// to the client stay behind; their hydration yields a nil client from then
// on.
func (st *ClientStore) DeleteClient(ctx context.Context, clientID string) error {
	return st.session.InTransaction(ctx, func(s *Session) error {
		_, err := s.exec(ctx,
			`DELETE FROM clients WHERE client_id = ?`, clientID)
		return err
	})
}

const clientSelect = `SELECT
	client_id, client_name, enabled, flow,
	redirect_uris, allowed_scopes, claims,
	identity_token_lifetime, access_token_lifetime,
	authorization_code_lifetime,
	absolute_refresh_token_lifetime, sliding_refresh_token_lifetime,
	created_at, updated_at
  FROM clients`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*domain.Client, error) {
	var (
		c         domain.Client
		enabled   int
		flow      string
		redirects string
		scopes    string
		claims    string
	)
	err := row.Scan(
		&c.ClientID, &c.ClientName, &enabled, &flow,
		&redirects, &scopes, &claims,
		&c.IdentityTokenLifetime, &c.AccessTokenLifetime,
		&c.AuthorizationCodeLifetime,
		&c.AbsoluteRefreshTokenLifetime, &c.SlidingRefreshTokenLifetime,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Enabled = enabled != 0
	c.Flow = domain.Flow(flow)
	if err := json.Unmarshal([]byte(redirects), &c.RedirectURIs); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(scopes), &c.AllowedScopes); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(claims), &c.Claims); err != nil {
		return nil, err
	}
	return &c, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
