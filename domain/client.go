package domain

import "time"

// Flow identifies the OAuth2 flow a client is registered for.
type Flow string

const (
	FlowAuthorizationCode Flow = "authorization_code"
	FlowImplicit          Flow = "implicit"
	FlowHybrid            Flow = "hybrid"
	FlowClientCredentials Flow = "client_credentials"
	FlowResourceOwner     Flow = "resource_owner"
)

// Client is the registered configuration of an OAuth2/OIDC client. The
// per-kind token lifetimes configured here (in seconds) drive the expiry
// the token stores stamp onto persisted records.
type Client struct {
	ClientID      string
	ClientName    string
	Enabled       bool
	Flow          Flow
	RedirectURIs  []string
	AllowedScopes []string
	Claims        []Claim

	IdentityTokenLifetime        int
	AccessTokenLifetime          int
	AuthorizationCodeLifetime    int
	AbsoluteRefreshTokenLifetime int
	SlidingRefreshTokenLifetime  int

	CreatedAt time.Time
	UpdatedAt time.Time
}
