// Package store provides access to the current fleet snapshot.
package store

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/fleetintel/connectivity-intel/internal/models"
)

// ErrNoSnapshot is returned when no snapshot has been generated yet.
var ErrNoSnapshot = errors.New("store: no snapshot loaded")

// SnapshotStore defines read access to the current snapshot and the single
// permitted mutation: replacing it wholesale. Records are never updated in
// place.
type SnapshotStore interface {
	// Current returns the active snapshot.
	Current(ctx context.Context) (*models.FleetSnapshot, error)

	// Swap atomically replaces the active snapshot.
	Swap(snapshot *models.FleetSnapshot)
}

// MemoryStore holds the snapshot behind an atomic pointer. Readers always see
// a complete snapshot, before or after a swap, never a partial one.
type MemoryStore struct {
	current atomic.Pointer[models.FleetSnapshot]
}

// NewMemoryStore creates a store, optionally pre-loaded with a snapshot.
func NewMemoryStore(initial *models.FleetSnapshot) *MemoryStore {
	s := &MemoryStore{}
	if initial != nil {
		s.current.Store(initial)
	}
	return s
}

// Current implements SnapshotStore.Current.
func (s *MemoryStore) Current(_ context.Context) (*models.FleetSnapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// Swap implements SnapshotStore.Swap.
func (s *MemoryStore) Swap(snapshot *models.FleetSnapshot) {
	s.current.Store(snapshot)
}
