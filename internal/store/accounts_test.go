package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhle/iboite/internal/model"
)

func TestAccountRegistry(t *testing.T) {
	r := NewAccountRegistry(model.DefaultAccounts())

	require.Len(t, r.List(), 2)

	def, ok := r.Default()
	require.True(t, ok)
	require.Equal(t, "personal", def.ID)

	a, err := r.Select("professional")
	require.NoError(t, err)
	require.Equal(t, model.CategoryProfessional, a.Category)

	_, err = r.Select("ghost")
	require.ErrorIs(t, err, model.ErrNotFound)

	next, ok := r.Next("professional")
	require.True(t, ok)
	require.Equal(t, "personal", next.ID)
}

func TestAccountRegistry_Empty(t *testing.T) {
	r := NewAccountRegistry(nil)

	_, ok := r.Default()
	require.False(t, ok)
	_, ok = r.Next("x")
	require.False(t, ok)
}

func TestSeedDemo(t *testing.T) {
	letters := NewMemoryLetterStore()
	parcels := NewMemoryParcelStore()
	accounts := model.DefaultAccounts()

	SeedDemo(letters, parcels, accounts, fixedNow)

	for _, a := range accounts {
		require.NotEmpty(t, letters.List(a.ID, model.FolderInbox))
		require.NotEmpty(t, letters.List(a.ID, model.FolderSent))
		require.Equal(t, 2, letters.UnreadCount(a.ID))
		require.Equal(t, ParcelCounts{Available: 1, Transit: 1}, parcels.Counts(a.ID))
	}
}
