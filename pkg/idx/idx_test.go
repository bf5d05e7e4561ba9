package idx_test

import (
	"testing"

	"github.com/tokenforge/idpersist/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewMintsUniqueKeys(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := idx.New().String()
		require.Len(t, id, 26)

		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}

// The monotonic entropy source keeps successive keys sortable even within
// the same millisecond.
func TestNewIsSortable(t *testing.T) {
	a := idx.New()
	b := idx.New()

	require.Less(t, a.String(), b.String())
}
