package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/tokenforge/idpersist/domain"
	"github.com/tokenforge/idpersist/serial"
	"github.com/tokenforge/idpersist/store"
)

// RefreshTokenStore persists refresh tokens. Unlike the one-shot kinds,
// Store is an upsert: rotating a token re-stores the same key with a fresh
// payload and expiry. The upsert is a single atomic statement, so concurrent
// rotations of one key resolve last-write-wins at the storage layer.
type RefreshTokenStore struct {
	tokenStore
	clients store.ClientReader
}

var _ store.RefreshTokens = (*RefreshTokenStore)(nil)

// NewRefreshTokenStore builds the store over a session.
func NewRefreshTokenStore(session *Session, codec *serial.Codec, clients store.ClientReader) *RefreshTokenStore {
	return &RefreshTokenStore{
		tokenStore: tokenStore{session: session, codec: codec, kind: store.KindRefreshToken},
		clients:    clients,
	}
}

// Store upserts the token under key. Expiry is the token's own lifetime
// relative to its creation time, not the wall clock at write.
func (st *RefreshTokenStore) Store(ctx context.Context, key string, token *domain.RefreshToken) error {
	if token.AccessToken == nil {
		return errors.New("sqlstore: refresh token has no access token")
	}

	jsonCode, err := st.codec.Marshal(serial.EncodeRefreshToken(token))
	if err != nil {
		return err
	}

	row := tokenRow{
		key:       key,
		subjectID: token.SubjectID(),
		clientID:  token.ClientID(),
		jsonCode:  jsonCode,
		expiry:    token.CreationTime.UTC().Add(time.Duration(token.LifeTime) * time.Second),
	}
	return st.session.InTransaction(ctx, func(s *Session) error {
		return st.upsert(ctx, s, row)
	})
}

// Get returns the hydrated token, or nil when the key is unknown or the
// record has lazily expired.
func (st *RefreshTokenStore) Get(ctx context.Context, key string) (*domain.RefreshToken, error) {
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
func (st *RefreshTokenStore) GetAll(ctx context.Context, subjectID string) ([]*domain.RefreshToken, error) {
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
	out := make([]*domain.RefreshToken, 0, len(rows))
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

// hydrate decodes the stored payload and resolves the embedded access
// token's client. A client deleted after issuance leaves the field nil.
func (st *RefreshTokenStore) hydrate(ctx context.Context, row *tokenRow) (*domain.RefreshToken, error) {
	rec, err := st.codec.UnmarshalRefreshToken(row.jsonCode)
	if err != nil {
		return nil, err
	}

	token := serial.DecodeRefreshToken(rec)

	client, err := st.clients.FindClientByID(ctx, rec.AccessToken.Client.ClientID)
	if err != nil {
		return nil, err
	}
	token.AccessToken.Client = client

	return token, nil
}
