package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *FleetSnapshot {
	return &FleetSnapshot{
		Seed: 42,
		Vehicles: []VehicleConnectivityRecord{
			{VehicleID: "b1", VehicleName: "Demo-01", HealthTier: TierHealthy},
			{VehicleID: "b2", VehicleName: "Demo-02", HealthTier: TierCritical},
			{VehicleID: "b3", VehicleName: "Demo-03", HealthTier: TierHealthy},
		},
	}
}

func TestVehicleByID(t *testing.T) {
	s := testSnapshot()

	rec, ok := s.VehicleByID("b2")
	require.True(t, ok)
	assert.Equal(t, "Demo-02", rec.VehicleName)

	_, ok = s.VehicleByID("b99")
	assert.False(t, ok)
}

func TestVehiclesByTier(t *testing.T) {
	s := testSnapshot()

	healthy := s.VehiclesByTier(TierHealthy)
	require.Len(t, healthy, 2)
	assert.Equal(t, "b1", healthy[0].VehicleID)
	assert.Equal(t, "b3", healthy[1].VehicleID)

	assert.Empty(t, s.VehiclesByTier(TierWarning))
}

func TestTierCounts(t *testing.T) {
	counts := testSnapshot().TierCounts()
	assert.Equal(t, 2, counts[TierHealthy])
	assert.Equal(t, 1, counts[TierCritical])
	assert.Equal(t, 0, counts[TierMinor])
}
