package domain

// Consent records the scopes a subject has granted to a client. Unlike
// tokens, consent has no expiry; it lives until updated or revoked.
type Consent struct {
	Subject  string
	ClientID string
	Scopes   []string
}
