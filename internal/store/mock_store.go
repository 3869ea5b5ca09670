package store

import (
	"context"

	"github.com/fleetintel/connectivity-intel/internal/models"
)

// MockSnapshotStore is a mock implementation of SnapshotStore for testing
type MockSnapshotStore struct {
	CurrentFunc func(ctx context.Context) (*models.FleetSnapshot, error)
	SwapFunc    func(snapshot *models.FleetSnapshot)
}

// NewMockSnapshotStore creates a new mock snapshot store
func NewMockSnapshotStore() *MockSnapshotStore {
	return &MockSnapshotStore{
		CurrentFunc: func(_ context.Context) (*models.FleetSnapshot, error) {
			return nil, ErrNoSnapshot
		},
		SwapFunc: func(_ *models.FleetSnapshot) {},
	}
}

// Current implements SnapshotStore.Current
func (m *MockSnapshotStore) Current(ctx context.Context) (*models.FleetSnapshot, error) {
	return m.CurrentFunc(ctx)
}

// Swap implements SnapshotStore.Swap
func (m *MockSnapshotStore) Swap(snapshot *models.FleetSnapshot) {
	m.SwapFunc(snapshot)
}
