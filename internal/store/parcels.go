package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/nhle/iboite/internal/model"
)

// MemoryParcelStore is an in-memory ParcelStore.
type MemoryParcelStore struct {
	mu      sync.RWMutex
	parcels []model.Parcel
}

// NewMemoryParcelStore creates an empty parcel store.
func NewMemoryParcelStore() *MemoryParcelStore {
	return &MemoryParcelStore{}
}

// Add records a parcel reported by the carrier.
func (s *MemoryParcelStore) Add(parcel model.Parcel) model.Parcel {
	s.mu.Lock()
	defer s.mu.Unlock()

	if parcel.ID == "" {
		parcel.ID = uuid.New().String()
	}
	if parcel.Status == "" {
		parcel.Status = model.ParcelPending
	}
	s.parcels = append(s.parcels, parcel)
	return parcel
}

// List returns the account's parcels in insertion order.
func (s *MemoryParcelStore) List(accountID string) []model.Parcel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Parcel{}
	for _, p := range s.parcels {
		if p.AccountID == accountID {
			out = append(out, p)
		}
	}
	return out
}

// Counts returns the available and in-transit parcel counts.
func (s *MemoryParcelStore) Counts(accountID string) ParcelCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c ParcelCounts
	for _, p := range s.parcels {
		if p.AccountID != accountID {
			continue
		}
		switch p.Status {
		case model.ParcelAvailable:
			c.Available++
		case model.ParcelTransit:
			c.Transit++
		}
	}
	return c
}
