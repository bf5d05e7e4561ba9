package domain

import "time"

// RefreshToken wraps the access token it can renew. Its identity fields
// (client, subject, scopes) are views over the embedded access token rather
// than independent state, so re-storing a rotated access token updates them
// implicitly.
type RefreshToken struct {
	CreationTime time.Time
	LifeTime     int // seconds
	AccessToken  *Token
	Subject      *ClaimsPrincipal
	Version      int
}

// ClientID returns the embedded access token's client id.
func (r *RefreshToken) ClientID() string {
	if r.AccessToken == nil {
		return ""
	}
	return r.AccessToken.ClientID()
}

// SubjectID returns the embedded access token's subject.
func (r *RefreshToken) SubjectID() string {
	if r.AccessToken == nil {
		return ""
	}
	return r.AccessToken.SubjectID()
}

// Scopes returns the embedded access token's scopes.
func (r *RefreshToken) Scopes() []string {
	if r.AccessToken == nil {
		return nil
	}
	return r.AccessToken.Scopes()
}
