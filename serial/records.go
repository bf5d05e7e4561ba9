package serial

import "time"

// The record types below are the shapes that actually get serialized into a
// token row's json_code column. Full domain objects embed each other in
// cycles (client -> scopes -> claims -> client); records flatten every such
// edge into a lite reference resolved by lookup on read, so the payload is
// an acyclic tree and the encoding stays trivial.
//
// The json layout is internal to the storage layer and is not a public
// contract.

// ClientLite is a by-id stand-in for a full client.
type ClientLite struct {
	ClientID string `json:"client_id"`
}

// ScopeLite is a by-name stand-in for a full scope.
type ScopeLite struct {
	Name string `json:"name"`
}

// ClaimLite is a flattened claim.
type ClaimLite struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ClaimsPrincipalLite is a flattened claims principal. Claim order is
// meaningful and preserved.
type ClaimsPrincipalLite struct {
	AuthenticationType string      `json:"authentication_type"`
	Claims             []ClaimLite `json:"claims"`
}

// TokenRecord is the stored form of a token handle's value.
type TokenRecord struct {
	Audience     string      `json:"audience"`
	Issuer       string      `json:"issuer"`
	CreationTime time.Time   `json:"creation_time"`
	Lifetime     int         `json:"lifetime"`
	Type         string      `json:"type"`
	Client       ClientLite  `json:"client"`
	Claims       []ClaimLite `json:"claims"`
	Version      int         `json:"version"`
}

// AuthorizationCodeRecord is the stored form of an authorization code.
type AuthorizationCodeRecord struct {
	CreationTime        time.Time           `json:"creation_time"`
	Client              ClientLite          `json:"client"`
	Subject             ClaimsPrincipalLite `json:"subject"`
	IsOpenID            bool                `json:"is_open_id"`
	RequestedScopes     []ScopeLite         `json:"requested_scopes"`
	RedirectURI         string              `json:"redirect_uri"`
	Nonce               string              `json:"nonce"`
	WasConsentShown     bool                `json:"was_consent_shown"`
	SessionID           string              `json:"session_id"`
	CodeChallenge       string              `json:"code_challenge"`
	CodeChallengeMethod string              `json:"code_challenge_method"`
}

// ScopeNames returns the requested scope names in stored order.
func (r *AuthorizationCodeRecord) ScopeNames() []string {
	out := make([]string, 0, len(r.RequestedScopes))
	for _, s := range r.RequestedScopes {
		out = append(out, s.Name)
	}
	return out
}

// RefreshTokenRecord is the stored form of a refresh token.
type RefreshTokenRecord struct {
	CreationTime time.Time           `json:"creation_time"`
	LifeTime     int                 `json:"life_time"`
	AccessToken  TokenRecord         `json:"access_token"`
	Subject      ClaimsPrincipalLite `json:"subject"`
	Version      int                 `json:"version"`
}

func (r *TokenRecord) normalize(p Profile) {
	r.CreationTime = p.normalizeTime(r.CreationTime)
}

func (r *AuthorizationCodeRecord) normalize(p Profile) {
	r.CreationTime = p.normalizeTime(r.CreationTime)
}

func (r *RefreshTokenRecord) normalize(p Profile) {
	r.CreationTime = p.normalizeTime(r.CreationTime)
	r.AccessToken.normalize(p)
}
