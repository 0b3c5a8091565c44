package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhle/iboite/internal/model"
)

func TestMemoryParcelStore_ListAndCounts(t *testing.T) {
	s := NewMemoryParcelStore()
	s.Add(model.Parcel{AccountID: "a", Status: model.ParcelAvailable})
	s.Add(model.Parcel{AccountID: "a", Status: model.ParcelAvailable})
	s.Add(model.Parcel{AccountID: "a", Status: model.ParcelTransit})
	s.Add(model.Parcel{AccountID: "a", Status: model.ParcelDelivered})
	s.Add(model.Parcel{AccountID: "b", Status: model.ParcelTransit})
	p := s.Add(model.Parcel{AccountID: "b"})

	require.Equal(t, model.ParcelPending, p.Status)
	require.NotEmpty(t, p.ID)

	require.Len(t, s.List("a"), 4)
	require.Len(t, s.List("b"), 2)
	require.Empty(t, s.List("c"))

	require.Equal(t, ParcelCounts{Available: 2, Transit: 1}, s.Counts("a"))
	require.Equal(t, ParcelCounts{Transit: 1}, s.Counts("b"))
}
