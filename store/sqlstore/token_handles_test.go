package sqlstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenHandleRoundTrip(t *testing.T) {
	stores := newStores(t)
	ctx := context.Background()

	client := seedClient(t, stores, "web-app", 300)

	token := accessToken(client, "alice", 3600, "openid", "read")
	require.NoError(t, stores.TokenHandles.Store(ctx, "th-1", token))

	got, err := stores.TokenHandles.Get(ctx, "th-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	require.Equal(t, token.Audience, got.Audience)
	require.Equal(t, token.Issuer, got.Issuer)
	require.Equal(t, token.Type, got.Type)
	require.Equal(t, token.Claims, got.Claims)
	require.Equal(t, "alice", got.SubjectID())
	require.Equal(t, []string{"openid", "read"}, got.Scopes())

	require.NotNil(t, got.Client)
	require.Equal(t, "web-app", got.Client.ClientID)
}

func TestTokenHandleDuplicateKeyRejected(t *testing.T) {
	stores := newStores(t)
	ctx := context.Background()

	client := seedClient(t, stores, "web-app", 300)

	require.NoError(t, stores.TokenHandles.Store(ctx, "th-1", accessToken(client, "alice", 3600)))
	err := stores.TokenHandles.Store(ctx, "th-1", accessToken(client, "alice", 3600))
	require.Error(t, err)
}

func TestTokenHandleLazyExpiry(t *testing.T) {
	stores := newStores(t)
	ctx := context.Background()

	client := seedClient(t, stores, "web-app", 300)

	require.NoError(t, stores.TokenHandles.Store(ctx, "th-dead", accessToken(client, "alice", -60)))

	got, err := stores.TokenHandles.Get(ctx, "th-dead")
	require.NoError(t, err)
	require.Nil(t, got)
	require.Equal(t, 1, countTokenRows(t, stores, "th-dead"))
}

func TestTokenHandleGetAllSkipsExpired(t *testing.T) {
	stores := newStores(t)
	ctx := context.Background()

	client := seedClient(t, stores, "web-app", 300)

	require.NoError(t, stores.TokenHandles.Store(ctx, "th-live", accessToken(client, "alice", 3600)))
	require.NoError(t, stores.TokenHandles.Store(ctx, "th-dead", accessToken(client, "alice", -60)))
	require.NoError(t, stores.TokenHandles.Store(ctx, "th-bob", accessToken(client, "bob", 3600)))

	all, err := stores.TokenHandles.GetAll(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "alice", all[0].SubjectID())
}

// The same key may exist once per token kind; kinds never shadow each other.
func TestTokenKindsShareTableWithoutCollisions(t *testing.T) {
	stores := newStores(t)
	ctx := context.Background()

	client := seedClient(t, stores, "web-app", 300)

	require.NoError(t, stores.TokenHandles.Store(ctx, "shared-key", accessToken(client, "alice", 3600)))
	require.NoError(t, stores.RefreshTokens.Store(ctx, "shared-key", refreshToken(client, "alice", 3600)))
	require.NoError(t, stores.AuthorizationCodes.Store(ctx, "shared-key", authorizationCode(client, "alice")))

	require.NoError(t, stores.TokenHandles.Remove(ctx, "shared-key"))

	handle, err := stores.TokenHandles.Get(ctx, "shared-key")
	require.NoError(t, err)
	require.Nil(t, handle)

	refresh, err := stores.RefreshTokens.Get(ctx, "shared-key")
	require.NoError(t, err)
	require.NotNil(t, refresh)

	code, err := stores.AuthorizationCodes.Get(ctx, "shared-key")
	require.NoError(t, err)
	require.NotNil(t, code)
}
