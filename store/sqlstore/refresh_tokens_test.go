package sqlstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tokenforge/idpersist/domain"
)

func TestRefreshTokenRoundTrip(t *testing.T) {
	stores := newStores(t)
	ctx := context.Background()

	client := seedClient(t, stores, "web-app", 300)

	token := refreshToken(client, "alice", 7200, "openid", "read")
	require.NoError(t, stores.RefreshTokens.Store(ctx, "rt-1", token))

	got, err := stores.RefreshTokens.Get(ctx, "rt-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	require.Equal(t, token.LifeTime, got.LifeTime)
	require.Equal(t, token.Version, got.Version)
	require.Equal(t, token.Subject.Claims, got.Subject.Claims)

	// Identity fields are views over the embedded access token.
	require.Equal(t, "web-app", got.ClientID())
	require.Equal(t, "alice", got.SubjectID())
	require.Equal(t, []string{"openid", "read"}, got.Scopes())

	require.NotNil(t, got.AccessToken)
	require.NotNil(t, got.AccessToken.Client)
	require.Equal(t, "web-app", got.AccessToken.Client.ClientID)
}

func TestRefreshTokenRotationKeepsOneRow(t *testing.T) {
	stores := newStores(t)
	ctx := context.Background()

	client := seedClient(t, stores, "web-app", 300)

	first := refreshToken(client, "alice", 3600, "openid")
	require.NoError(t, stores.RefreshTokens.Store(ctx, "rt-1", first))

	second := refreshToken(client, "alice", 7200, "openid", "read")
	second.Version = 2
	require.NoError(t, stores.RefreshTokens.Store(ctx, "rt-1", second))

	require.Equal(t, 1, countTokenRows(t, stores, "rt-1"))

	got, err := stores.RefreshTokens.Get(ctx, "rt-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, 2, got.Version)
	require.Equal(t, 7200, got.LifeTime)
	require.Equal(t, []string{"openid", "read"}, got.Scopes())
}

func TestRefreshTokenExpiryAnchoredToCreationTime(t *testing.T) {
	stores := newStores(t)
	ctx := context.Background()

	client := seedClient(t, stores, "web-app", 300)

	// Created two hours ago with a one hour lifetime: already expired no
	// matter when it was written.
	token := refreshToken(client, "alice", 3600)
	token.CreationTime = time.Now().UTC().Add(-2 * time.Hour)
	require.NoError(t, stores.RefreshTokens.Store(ctx, "rt-old", token))

	got, err := stores.RefreshTokens.Get(ctx, "rt-old")
	require.NoError(t, err)
	require.Nil(t, got)
	require.Equal(t, 1, countTokenRows(t, stores, "rt-old"))
}

func TestRefreshTokenStoreRequiresAccessToken(t *testing.T) {
	stores := newStores(t)

	token := &domain.RefreshToken{
		CreationTime: time.Now().UTC(),
		LifeTime:     3600,
		Subject:      subjectPrincipal("alice"),
	}
	err := stores.RefreshTokens.Store(context.Background(), "rt-1", token)
	require.Error(t, err)
}

func TestRefreshTokenRevoke(t *testing.T) {
	stores := newStores(t)
	ctx := context.Background()

	app1 := seedClient(t, stores, "app1", 300)
	app2 := seedClient(t, stores, "app2", 300)

	require.NoError(t, stores.RefreshTokens.Store(ctx, newKey(), refreshToken(app1, "alice", 3600)))
	require.NoError(t, stores.RefreshTokens.Store(ctx, newKey(), refreshToken(app1, "alice", 3600)))
	require.NoError(t, stores.RefreshTokens.Store(ctx, newKey(), refreshToken(app2, "alice", 3600)))

	require.NoError(t, stores.RefreshTokens.Revoke(ctx, "alice", "app1"))

	all, err := stores.RefreshTokens.GetAll(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "app2", all[0].ClientID())
}
