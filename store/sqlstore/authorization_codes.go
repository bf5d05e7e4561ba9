package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/tokenforge/idpersist/domain"
	"github.com/tokenforge/idpersist/serial"
	"github.com/tokenforge/idpersist/store"
)

// AuthorizationCodeStore persists one-shot authorization codes. Codes are
// insert-only: keys are generated uniquely per issuance, so there is no
// rotation path.
type AuthorizationCodeStore struct {
	tokenStore
	clients store.ClientReader
	scopes  store.ScopeReader
}

var _ store.AuthorizationCodes = (*AuthorizationCodeStore)(nil)

// NewAuthorizationCodeStore builds the store over a session. The client and
// scope readers resolve the lite references embedded in stored payloads.
func NewAuthorizationCodeStore(session *Session, codec *serial.Codec, clients store.ClientReader, scopes store.ScopeReader) *AuthorizationCodeStore {
	return &AuthorizationCodeStore{
		tokenStore: tokenStore{session: session, codec: codec, kind: store.KindAuthorizationCode},
		clients:    clients,
		scopes:     scopes,
	}
}

// Store persists the code under key. Expiry is fixed now: the client's
// configured authorization code lifetime from the current UTC time. It is
// never recomputed afterwards.
func (st *AuthorizationCodeStore) Store(ctx context.Context, key string, code *domain.AuthorizationCode) error {
	if code.Client == nil {
		return errors.New("sqlstore: authorization code has no client")
	}

	jsonCode, err := st.codec.Marshal(serial.EncodeAuthorizationCode(code))
	if err != nil {
		return err
	}

	row := tokenRow{
		key:       key,
		subjectID: code.SubjectID(),
		clientID:  code.ClientID(),
		jsonCode:  jsonCode,
		expiry:    time.Now().UTC().Add(time.Duration(code.Client.AuthorizationCodeLifetime) * time.Second),
	}
	return st.session.InTransaction(ctx, func(s *Session) error {
		return st.insert(ctx, s, row)
	})
}

// Get returns the hydrated code, or nil when the key is unknown or the
// record has lazily expired.
func (st *AuthorizationCodeStore) Get(ctx context.Context, key string) (*domain.AuthorizationCode, error) {
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

// GetAll returns every live code for the subject. Records that fail to
// decode or hydrate are skipped rather than failing the batch.
func (st *AuthorizationCodeStore) GetAll(ctx context.Context, subjectID string) ([]*domain.AuthorizationCode, error) {
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
	out := make([]*domain.AuthorizationCode, 0, len(rows))
	for i := range rows {
		if rows[i].expired(now) {
			continue
		}
		code, err := st.hydrate(ctx, &rows[i])
		if err != nil {
			continue
		}
		out = append(out, code)
	}
	return out, nil
}

// hydrate decodes the stored payload and resolves its lite references.
// A client or scope deleted after issuance leaves the corresponding field
// nil/empty rather than failing the read; callers must nil-check.
func (st *AuthorizationCodeStore) hydrate(ctx context.Context, row *tokenRow) (*domain.AuthorizationCode, error) {
	rec, err := st.codec.UnmarshalAuthorizationCode(row.jsonCode)
	if err != nil {
		return nil, err
	}

	code := serial.DecodeAuthorizationCode(rec)

	client, err := st.clients.FindClientByID(ctx, rec.Client.ClientID)
	if err != nil {
		return nil, err
	}
	code.Client = client

	if names := rec.ScopeNames(); len(names) > 0 {
		scopes, err := st.scopes.FindScopesByNames(ctx, names)
		if err != nil {
			return nil, err
		}
		code.RequestedScopes = scopes
	}
	return code, nil
}
