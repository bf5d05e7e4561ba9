package domain

// Well-known claim types used by the token stores.
const (
	ClaimSubject = "sub"
	ClaimName    = "name"
	ClaimRole    = "role"
	ClaimScope   = "scope"
)

// Claim is a single type/value pair attached to a subject or token.
type Claim struct {
	Type  string
	Value string
}

// ClaimsPrincipal is the flattened representation of an authenticated
// subject: the authentication method plus the claim set issued with it.
// Claim order is preserved through serialization.
type ClaimsPrincipal struct {
	AuthenticationType string
	Claims             []Claim
}

// FindFirst returns the value of the first claim of the given type.
func (p *ClaimsPrincipal) FindFirst(claimType string) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, c := range p.Claims {
		if c.Type == claimType {
			return c.Value, true
		}
	}
	return "", false
}

// FindAll returns the values of every claim of the given type, in order.
func (p *ClaimsPrincipal) FindAll(claimType string) []string {
	if p == nil {
		return nil
	}
	var out []string
	for _, c := range p.Claims {
		if c.Type == claimType {
			out = append(out, c.Value)
		}
	}
	return out
}

// SubjectID returns the subject identifier ("sub") claim, or "" when the
// principal carries none (client-only grants).
func (p *ClaimsPrincipal) SubjectID() string {
	v, _ := p.FindFirst(ClaimSubject)
	return v
}
