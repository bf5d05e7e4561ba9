// Package store defines the persistence contracts the identity framework
// consumes. Concrete engines (see sqlstore and the drivers beneath it)
// implement these; the framework only ever sees the interfaces.
//
// Read semantics are uniform: a missing record is a nil result, never an
// error. A record past its expiry is treated identically to a missing one
// (lazy expiry); the row may physically linger until background cleanup
// removes it.
package store

import (
	"context"

	"github.com/tokenforge/idpersist/domain"
)

// TokenKind discriminates the token kinds sharing one physical record shape.
type TokenKind int

const (
	KindAuthorizationCode TokenKind = 1
	KindTokenHandle       TokenKind = 2
	KindRefreshToken      TokenKind = 3
)

func (k TokenKind) String() string {
	switch k {
	case KindAuthorizationCode:
		return "authorization_code"
	case KindTokenHandle:
		return "token_handle"
	case KindRefreshToken:
		return "refresh_token"
	default:
		return "unknown"
	}
}

// ClientReader resolves a client id back to its full registration.
// Implementations return (nil, nil) when no such client exists.
type ClientReader interface {
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)
}

// ScopeReader resolves scope names back to their full registrations.
type ScopeReader interface {
	// FindScopesByNames returns the scopes matching the given names.
	// Unknown names are simply absent from the result.
	FindScopesByNames(ctx context.Context, names []string) ([]*domain.Scope, error)

	// GetScopes returns all scopes; with publicOnly set, only those shown
	// in the discovery document.
	GetScopes(ctx context.Context, publicOnly bool) ([]*domain.Scope, error)
}

// AuthorizationCodes persists one-shot authorization codes.
type AuthorizationCodes interface {
	// Store persists the code under key with expiry derived from the
	// client's configured authorization code lifetime.
	Store(ctx context.Context, key string, code *domain.AuthorizationCode) error

	// Get returns the hydrated code, or nil when missing or expired.
	Get(ctx context.Context, key string) (*domain.AuthorizationCode, error)

	// GetAll returns every non-expired code for the subject, skipping
	// records that fail to decode or hydrate.
	GetAll(ctx context.Context, subjectID string) ([]*domain.AuthorizationCode, error)

	// Remove deletes the code under key. Idempotent.
	Remove(ctx context.Context, key string) error

	// Revoke bulk-deletes all codes for the subject/client pair. Idempotent.
	Revoke(ctx context.Context, subjectID, clientID string) error
}

// RefreshTokens persists refresh tokens. Store is an upsert: re-storing a
// key rotates the token in place.
type RefreshTokens interface {
	Store(ctx context.Context, key string, token *domain.RefreshToken) error
	Get(ctx context.Context, key string) (*domain.RefreshToken, error)
	GetAll(ctx context.Context, subjectID string) ([]*domain.RefreshToken, error)
	Remove(ctx context.Context, key string) error
	Revoke(ctx context.Context, subjectID, clientID string) error
}

// TokenHandles persists opaque access-token handles.
type TokenHandles interface {
	Store(ctx context.Context, key string, token *domain.Token) error
	Get(ctx context.Context, key string) (*domain.Token, error)
	GetAll(ctx context.Context, subjectID string) ([]*domain.Token, error)
	Remove(ctx context.Context, key string) error
	Revoke(ctx context.Context, subjectID, clientID string) error
}

// Consents persists the scopes a subject has granted a client.
type Consents interface {
	// Load returns the consent for (subject, client), or nil when absent.
	Load(ctx context.Context, subject, clientID string) (*domain.Consent, error)

	// LoadAll returns every consent recorded for the subject.
	LoadAll(ctx context.Context, subject string) ([]*domain.Consent, error)

	// Update upserts the consent; an empty scope set deletes the record.
	Update(ctx context.Context, consent *domain.Consent) error

	// Revoke deletes the consent for (subject, client). Idempotent.
	Revoke(ctx context.Context, subject, clientID string) error
}

// Clients is the client configuration store: the ClientReader collaborator
// plus the provisioning operations.
type Clients interface {
	ClientReader
	CreateClient(ctx context.Context, client *domain.Client) error
	ListClients(ctx context.Context) ([]*domain.Client, error)
	DeleteClient(ctx context.Context, clientID string) error
}

// Scopes is the scope configuration store: the ScopeReader collaborator
// plus the provisioning operations.
type Scopes interface {
	ScopeReader
	CreateScope(ctx context.Context, scope *domain.Scope) error
	DeleteScope(ctx context.Context, name string) error
}
