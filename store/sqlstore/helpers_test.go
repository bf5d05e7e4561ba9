package sqlstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tokenforge/idpersist/domain"
	"github.com/tokenforge/idpersist/pkg/idx"
	"github.com/tokenforge/idpersist/serial"
	"github.com/tokenforge/idpersist/store/drivers/sqlite"
	"github.com/tokenforge/idpersist/store/sqlstore"
)

// newStores spins up a fresh in-memory database with the schema applied and
// returns the full store bundle over it.
func newStores(t *testing.T) *sqlstore.Stores {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.ApplyMigrations())

	return sqlstore.New(db.NewSession(), serial.NewCodec(serial.DefaultProfile()))
}

// seedClient registers a client with the given authorization code lifetime
// and returns it.
func seedClient(t *testing.T, stores *sqlstore.Stores, clientID string, codeLifetime int) *domain.Client {
	t.Helper()

	client := &domain.Client{
		ClientID:                  clientID,
		ClientName:                clientID + " test client",
		Enabled:                   true,
		Flow:                      domain.FlowAuthorizationCode,
		RedirectURIs:              []string{"https://" + clientID + ".example.com/cb"},
		AllowedScopes:             []string{"openid", "read"},
		AuthorizationCodeLifetime: codeLifetime,
		AccessTokenLifetime:       3600,
	}
	require.NoError(t, stores.Clients.CreateClient(context.Background(), client))
	return client
}

// seedScope registers a scope and returns it.
func seedScope(t *testing.T, stores *sqlstore.Stores, name string) *domain.Scope {
	t.Helper()

	scope := &domain.Scope{
		Name:                    name,
		DisplayName:             name,
		Type:                    domain.ScopeTypeResource,
		ShowInDiscoveryDocument: true,
		Enabled:                 true,
	}
	require.NoError(t, stores.Scopes.CreateScope(context.Background(), scope))
	return scope
}

func subjectPrincipal(subjectID string) *domain.ClaimsPrincipal {
	return &domain.ClaimsPrincipal{
		AuthenticationType: "password",
		Claims: []domain.Claim{
			{Type: domain.ClaimSubject, Value: subjectID},
			{Type: domain.ClaimName, Value: "Test User"},
		},
	}
}

func accessToken(client *domain.Client, subjectID string, lifetime int, scopes ...string) *domain.Token {
	claims := []domain.Claim{{Type: domain.ClaimSubject, Value: subjectID}}
	for _, s := range scopes {
		claims = append(claims, domain.Claim{Type: domain.ClaimScope, Value: s})
	}
	return &domain.Token{
		Audience:     "https://issuer.example.com/resources",
		Issuer:       "https://issuer.example.com",
		CreationTime: time.Now().UTC().Truncate(time.Second),
		Lifetime:     lifetime,
		Type:         "access_token",
		Client:       client,
		Claims:       claims,
		Version:      1,
	}
}

func authorizationCode(client *domain.Client, subjectID string, scopes ...*domain.Scope) *domain.AuthorizationCode {
	return &domain.AuthorizationCode{
		CreationTime:    time.Now().UTC().Truncate(time.Second),
		Client:          client,
		Subject:         subjectPrincipal(subjectID),
		IsOpenID:        true,
		RequestedScopes: scopes,
		RedirectURI:     client.RedirectURIs[0],
		Nonce:           "n-0S6_WzA2Mj",
		WasConsentShown: true,
		SessionID:       "sess-1",
	}
}

func refreshToken(client *domain.Client, subjectID string, lifetime int, scopes ...string) *domain.RefreshToken {
	return &domain.RefreshToken{
		CreationTime: time.Now().UTC().Truncate(time.Second),
		LifeTime:     lifetime,
		AccessToken:  accessToken(client, subjectID, client.AccessTokenLifetime, scopes...),
		Subject:      subjectPrincipal(subjectID),
		Version:      1,
	}
}

// newKey mints a unique token key the way an issuer would.
func newKey() string {
	return idx.New().String()
}

func testConsent(subject, clientID string) *domain.Consent {
	return &domain.Consent{
		Subject:  subject,
		ClientID: clientID,
		Scopes:   []string{"openid", "read"},
	}
}

// countTokenRows counts physical rows for a key across all kinds, expired or
// not, bypassing the store's read semantics.
func countTokenRows(t *testing.T, stores *sqlstore.Stores, key string) int {
	t.Helper()

	row := stores.Session().DB().QueryRow(
		`SELECT COUNT(*) FROM tokens WHERE key = ?`, key)
	var n int
	require.NoError(t, row.Scan(&n))
	return n
}
