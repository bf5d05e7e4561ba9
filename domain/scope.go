package domain

import "time"

// ScopeType distinguishes identity scopes (claims about the user) from
// resource scopes (API access).
type ScopeType string

const (
	ScopeTypeIdentity ScopeType = "identity"
	ScopeTypeResource ScopeType = "resource"
)

// ScopeClaim describes a user claim a scope grants access to.
type ScopeClaim struct {
	Name                   string
	Description            string
	AlwaysIncludeInIDToken bool
}

// Scope is the registered configuration of a scope.
type Scope struct {
	Name                    string
	DisplayName             string
	Description             string
	Type                    ScopeType
	Required                bool
	Emphasize               bool
	IncludeAllClaimsForUser bool
	ShowInDiscoveryDocument bool
	Enabled                 bool
	Claims                  []ScopeClaim

	CreatedAt time.Time
	UpdatedAt time.Time
}
