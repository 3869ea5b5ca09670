package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetintel/connectivity-intel/internal/models"
)

func markerFixture() *models.FleetSnapshot {
	return &models.FleetSnapshot{
		Vehicles: []models.VehicleConnectivityRecord{
			{
				VehicleID: "b1", VehicleName: "Demo-01", HealthTier: models.TierHealthy,
				SignalStrength: 90, RadioTechnology: models.RadioLTE,
				Position: models.Position{Latitude: 41.2, Longitude: -8.6},
			},
			{
				VehicleID: "b2", VehicleName: "Demo-02", HealthTier: models.TierCritical,
				SignalStrength: 15, RadioTechnology: models.RadioGSM,
				Position: models.Position{Latitude: 42.3, Longitude: -8.7},
			},
		},
	}
}

func TestMapViewLifecycle(t *testing.T) {
	v := NewMapView(markerFixture())

	_, err := v.Markers()
	assert.ErrorIs(t, err, ErrViewNotMounted, "reading before Mount must fail")

	v.Mount()
	markers, err := v.Markers()
	require.NoError(t, err)
	assert.Len(t, markers, 2)

	v.Unmount()
	_, err = v.Markers()
	assert.ErrorIs(t, err, ErrViewNotMounted, "reading after Unmount must fail")
}

func TestMapViewMarkers(t *testing.T) {
	v := NewMapView(markerFixture())
	v.Mount()

	markers, err := v.Markers()
	require.NoError(t, err)

	assert.Equal(t, "b1", markers[0].VehicleID)
	assert.Equal(t, models.Position{Latitude: 41.2, Longitude: -8.6}, markers[0].Position)
	assert.Equal(t, "#2ecc71", markers[0].Color)
	assert.Equal(t, 90, markers[0].SignalStrength)

	assert.Equal(t, models.TierCritical, markers[1].Tier)
	assert.Equal(t, "#e74c3c", markers[1].Color)
}

func TestGlobeViewLifecycle(t *testing.T) {
	v := NewGlobeView(markerFixture())

	_, err := v.Markers()
	assert.ErrorIs(t, err, ErrViewNotMounted)

	v.Mount()
	_, err = v.Markers()
	require.NoError(t, err)

	v.Unmount()
	_, err = v.Markers()
	assert.ErrorIs(t, err, ErrViewNotMounted)
}

func TestGlobeViewBarHeights(t *testing.T) {
	v := NewGlobeView(markerFixture())
	v.Mount()

	markers, err := v.Markers()
	require.NoError(t, err)
	require.Len(t, markers, 2)

	// Weak signal renders taller bars than strong signal.
	assert.Greater(t, markers[1].BarHeight, markers[0].BarHeight)
	for _, m := range markers {
		assert.GreaterOrEqual(t, m.BarHeight, 0.1)
		assert.LessOrEqual(t, m.BarHeight, 1.0)
	}
}

func TestGlobeViewBarHeightClamps(t *testing.T) {
	assert.Equal(t, 0.1, barHeight(110))
	assert.Equal(t, 0.1, barHeight(200))
	assert.Equal(t, 1.0, barHeight(0))
	assert.Equal(t, 1.0, barHeight(-5))
}

func TestViewInstancesAreIndependent(t *testing.T) {
	snapshot := markerFixture()
	a := NewMapView(snapshot)
	b := NewMapView(snapshot)

	a.Mount()
	_, err := a.Markers()
	require.NoError(t, err)

	// b never mounted; a's lifecycle must not leak into it.
	_, err = b.Markers()
	assert.ErrorIs(t, err, ErrViewNotMounted)
}

func TestGlobeMarkersMatchMapMarkers(t *testing.T) {
	snapshot := markerFixture()
	mapView := NewMapView(snapshot)
	globeView := NewGlobeView(snapshot)
	mapView.Mount()
	globeView.Mount()

	flat, err := mapView.Markers()
	require.NoError(t, err)
	globe, err := globeView.Markers()
	require.NoError(t, err)
	require.Len(t, globe, len(flat))

	// Both views project the same records; the globe only adds bar height.
	for i := range flat {
		assert.Equal(t, flat[i], globe[i].Marker)
	}
}
