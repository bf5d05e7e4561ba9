package domain

import "time"

// Token is an access token persisted by reference: the caller holds an opaque
// handle and this value is what the handle resolves to.
type Token struct {
	Audience     string
	Issuer       string
	CreationTime time.Time
	Lifetime     int // seconds
	Type         string
	Client       *Client
	Claims       []Claim
	Version      int
}

// ClientID returns the target client's id, or "" when the client reference
// is unresolved.
func (t *Token) ClientID() string {
	if t.Client == nil {
		return ""
	}
	return t.Client.ClientID
}

// SubjectID returns the "sub" claim, or "" for client-only tokens.
func (t *Token) SubjectID() string {
	for _, c := range t.Claims {
		if c.Type == ClaimSubject {
			return c.Value
		}
	}
	return ""
}

// Scopes returns the values of all "scope" claims, in order.
func (t *Token) Scopes() []string {
	var out []string
	for _, c := range t.Claims {
		if c.Type == ClaimScope {
			out = append(out, c.Value)
		}
	}
	return out
}
