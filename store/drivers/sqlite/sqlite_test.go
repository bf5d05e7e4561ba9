package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tokenforge/idpersist/store/drivers/sqlite"
)

func TestOpenInMemory(t *testing.T) {
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Ping(context.Background()))
	require.NoError(t, db.ApplyMigrations())

	// Re-applying is a no-op, not an error.
	require.NoError(t, db.ApplyMigrations())
}

// The daemon settings must actually reach the engine, not just sit in the
// DSN: read the pragmas back after opening.
func TestFileDSNAppliesPragmas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.db")

	db, err := sqlite.Open(sqlite.FileDSN(path))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.ApplyMigrations())

	var mode string
	row := db.NewSession().DB().QueryRow(`PRAGMA journal_mode`)
	require.NoError(t, row.Scan(&mode))
	require.Equal(t, "wal", mode)

	var timeout int
	row = db.NewSession().DB().QueryRow(`PRAGMA busy_timeout`)
	require.NoError(t, row.Scan(&timeout))
	require.Equal(t, 5000, timeout)
}

func TestOpenFileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.db")

	db, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, db.ApplyMigrations())
	require.NoError(t, db.Close())

	// Reopening sees the already-migrated schema.
	db, err = sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.ApplyMigrations())

	row := db.NewSession().DB().QueryRow(`SELECT COUNT(*) FROM tokens`)
	var n int
	require.NoError(t, row.Scan(&n))
	require.Zero(t, n)
}
