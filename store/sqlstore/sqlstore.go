package sqlstore

import (
	"context"

	"github.com/tokenforge/idpersist/serial"
	"github.com/tokenforge/idpersist/store"
)

// Stores bundles every store over one session. Build one per database with
// New; use InTransaction to run several operations as one atomic batch.
type Stores struct {
	session *Session
	codec   *serial.Codec
	opts    []Option

	AuthorizationCodes *AuthorizationCodeStore
	TokenHandles       *TokenHandleStore
	RefreshTokens      *RefreshTokenStore
	Consents           *ConsentStore
	Clients            *ClientStore
	Scopes             *ScopeStore
}

// Option customizes the bundle's collaborators.
type Option func(*options)

type options struct {
	clients store.ClientReader
	scopes  store.ScopeReader
}

// WithClientReader overrides the client lookup used to hydrate stored
// tokens. Defaults to the bundle's own client store.
func WithClientReader(r store.ClientReader) Option {
	return func(o *options) { o.clients = r }
}

// WithScopeReader overrides the scope lookup used to hydrate stored tokens.
// Defaults to the bundle's own scope store.
func WithScopeReader(r store.ScopeReader) Option {
	return func(o *options) { o.scopes = r }
}

// New builds the full store bundle over a session.
func New(session *Session, codec *serial.Codec, opts ...Option) *Stores {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	clientStore := NewClientStore(session)
	scopeStore := NewScopeStore(session)

	clients := o.clients
	if clients == nil {
		clients = clientStore
	}
	scopes := o.scopes
	if scopes == nil {
		scopes = scopeStore
	}

	return &Stores{
		session: session,
		codec:   codec,
		opts:    opts,

		AuthorizationCodes: NewAuthorizationCodeStore(session, codec, clients, scopes),
		TokenHandles:       NewTokenHandleStore(session, codec, clientStore),
		RefreshTokens:      NewRefreshTokenStore(session, codec, clients),
		Consents:           NewConsentStore(session),
		Clients:            clientStore,
		Scopes:             scopeStore,
	}
}

// Session returns the session the bundle operates on.
func (s *Stores) Session() *Session { return s.session }

// InTransaction runs fn with a bundle bound to a single transaction. Every
// store operation fn performs joins that transaction; an error rolls the
// whole batch back.
func (s *Stores) InTransaction(ctx context.Context, fn func(*Stores) error) error {
	return s.session.InTransaction(ctx, func(bound *Session) error {
		return fn(New(bound, s.codec, s.opts...))
	})
}
