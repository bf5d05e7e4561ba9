package sqlstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tokenforge/idpersist/store/sqlstore"
)

func TestTransactionBatchCommits(t *testing.T) {
	stores := newStores(t)
	ctx := context.Background()

	client := seedClient(t, stores, "web-app", 300)

	err := stores.InTransaction(ctx, func(tx *sqlstore.Stores) error {
		if err := tx.TokenHandles.Store(ctx, "th-1", accessToken(client, "alice", 3600)); err != nil {
			return err
		}
		return tx.Consents.Update(ctx, testConsent("alice", "web-app"))
	})
	require.NoError(t, err)

	handle, err := stores.TokenHandles.Get(ctx, "th-1")
	require.NoError(t, err)
	require.NotNil(t, handle)

	consent, err := stores.Consents.Load(ctx, "alice", "web-app")
	require.NoError(t, err)
	require.NotNil(t, consent)
}

func TestTransactionBatchRollsBackOnError(t *testing.T) {
	stores := newStores(t)
	ctx := context.Background()

	client := seedClient(t, stores, "web-app", 300)
	sentinel := errors.New("boom")

	err := stores.InTransaction(ctx, func(tx *sqlstore.Stores) error {
		if err := tx.TokenHandles.Store(ctx, "th-1", accessToken(client, "alice", 3600)); err != nil {
			return err
		}
		if err := tx.Consents.Update(ctx, testConsent("alice", "web-app")); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	handle, err := stores.TokenHandles.Get(ctx, "th-1")
	require.NoError(t, err)
	require.Nil(t, handle)

	consent, err := stores.Consents.Load(ctx, "alice", "web-app")
	require.NoError(t, err)
	require.Nil(t, consent)
}

// A store operation failing mid-batch poisons the whole batch, including
// writes that already succeeded inside it.
func TestTransactionInnerFailurePoisonsBatch(t *testing.T) {
	stores := newStores(t)
	ctx := context.Background()

	client := seedClient(t, stores, "web-app", 300)
	require.NoError(t, stores.TokenHandles.Store(ctx, "th-dup", accessToken(client, "alice", 3600)))

	err := stores.InTransaction(ctx, func(tx *sqlstore.Stores) error {
		if err := tx.Consents.Update(ctx, testConsent("alice", "web-app")); err != nil {
			return err
		}
		// Unique (key, kind) violation.
		return tx.TokenHandles.Store(ctx, "th-dup", accessToken(client, "alice", 3600))
	})
	require.Error(t, err)

	consent, err := stores.Consents.Load(ctx, "alice", "web-app")
	require.NoError(t, err)
	require.Nil(t, consent)
}
