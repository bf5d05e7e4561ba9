package domain

import "time"

// AuthorizationCode is the one-shot artifact minted during the authorization
// code flow and exchanged at the token endpoint.
type AuthorizationCode struct {
	CreationTime        time.Time
	Client              *Client
	Subject             *ClaimsPrincipal
	IsOpenID            bool
	RequestedScopes     []*Scope
	RedirectURI         string
	Nonce               string
	WasConsentShown     bool
	SessionID           string
	CodeChallenge       string
	CodeChallengeMethod string
}

// ClientID returns the issuing client's id, or "" when the client reference
// is unresolved.
func (c *AuthorizationCode) ClientID() string {
	if c.Client == nil {
		return ""
	}
	return c.Client.ClientID
}

// SubjectID returns the subject the code was issued to.
func (c *AuthorizationCode) SubjectID() string {
	return c.Subject.SubjectID()
}

// Scopes returns the names of the requested scopes.
func (c *AuthorizationCode) Scopes() []string {
	out := make([]string, 0, len(c.RequestedScopes))
	for _, s := range c.RequestedScopes {
		if s != nil {
			out = append(out, s.Name)
		}
	}
	return out
}
