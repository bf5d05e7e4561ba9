package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/tokenforge/idpersist/domain"
	"github.com/tokenforge/idpersist/serial"
	"github.com/tokenforge/idpersist/store"
)

// TokenHandleStore persists opaque access-token handles. The client is
// resolved by a direct query against the clients table rather than through
// the pluggable client reader, so handle reads stay self-contained within
// the storage backend.
type TokenHandleStore struct {
	tokenStore
	clients *ClientStore
}

var _ store.TokenHandles = (*TokenHandleStore)(nil)

// NewTokenHandleStore builds the store over a session.
func NewTokenHandleStore(session *Session, codec *serial.Codec, clients *ClientStore) *TokenHandleStore {
	return &TokenHandleStore{
		tokenStore: tokenStore{session: session, codec: codec, kind: store.KindTokenHandle},
		clients:    clients,
	}
}

// Store persists the token under key with expiry = now + the token's own
// lifetime. Handles are insert-only; keys are unique per issuance.
func (st *TokenHandleStore) Store(ctx context.Context, key string, token *domain.Token) error {
	if token.Client == nil {
		return errors.New("sqlstore: token has no client")
	}

	jsonCode, err := st.codec.Marshal(serial.EncodeToken(token))
	if err != nil {
		return err
	}

	row := tokenRow{
		key:       key,
		subjectID: token.SubjectID(),
		clientID:  token.ClientID(),
		jsonCode:  jsonCode,
		expiry:    time.Now().UTC().Add(time.Duration(token.Lifetime) * time.Second),
	}
	return st.session.InTransaction(ctx, func(s *Session) error {
		return st.insert(ctx, s, row)
	})
}

// Get returns the hydrated token, or nil when the key is unknown or the
// record has lazily expired.
func (st *TokenHandleStore) Get(ctx context.Context, key string) (*domain.Token, error) {
	var row *tokenRow
	err := st.session.InTransaction(ctx, func(s *Session) error {
		var err error
		row, err = st.fetch(ctx, s, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	if row == nil || row.expired(time.Now().UTC()) {
		return nil, nil
	}
	return st.hydrate(ctx, row)
}

// GetAll returns every live token for the subject, skipping records that
// fail to decode or hydrate.
func (st *TokenHandleStore) GetAll(ctx context.Context, subjectID string) ([]*domain.Token, error) {
	var rows []tokenRow
	err := st.session.InTransaction(ctx, func(s *Session) error {
		var err error
		rows, err = st.fetchBySubject(ctx, s, subjectID)
		return err
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	out := make([]*domain.Token, 0, len(rows))
	for i := range rows {
		if rows[i].expired(now) {
			continue
		}
		token, err := st.hydrate(ctx, &rows[i])
		if err != nil {
			continue
		}
		out = append(out, token)
	}
	return out, nil
}

func (st *TokenHandleStore) hydrate(ctx context.Context, row *tokenRow) (*domain.Token, error) {
	rec, err := st.codec.UnmarshalToken(row.jsonCode)
	if err != nil {
		return nil, err
	}

	token := serial.DecodeToken(rec)

	client, err := st.clients.FindClientByID(ctx, rec.Client.ClientID)
	if err != nil {
		return nil, err
	}
	token.Client = client

	return token, nil
}
