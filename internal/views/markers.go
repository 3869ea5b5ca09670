package views

import (
	"errors"

	"github.com/fleetintel/connectivity-intel/internal/models"
)

// ErrViewNotMounted is returned when a marker view is read before Mount or
// after Unmount.
var ErrViewNotMounted = errors.New("views: view not mounted")

// Marker colors keyed by tier, matching the dashboard theme.
var tierColors = map[models.HealthTier]string{
	models.TierHealthy:  "#2ecc71",
	models.TierMinor:    "#f1c40f",
	models.TierWarning:  "#e67e22",
	models.TierCritical: "#e74c3c",
}

// Marker is one 2D map marker.
type Marker struct {
	VehicleID       string                 `json:"vehicleId"`
	VehicleName     string                 `json:"vehicleName"`
	Position        models.Position        `json:"position"`
	Tier            models.HealthTier      `json:"tier"`
	Color           string                 `json:"color"`
	SignalStrength  int                    `json:"signalStrength"`
	RadioTechnology models.RadioTechnology `json:"radioTechnology"`
}

// GlobeMarker is one bar on the 3D globe. BarHeight scales inversely with
// signal strength so trouble spots stand out.
type GlobeMarker struct {
	Marker
	BarHeight float64 `json:"barHeight"`
}

// MapView projects snapshot records into 2D map markers. Each instance owns
// its lifecycle; nothing is kept in package state, so several views (one per
// panel, one per test) can coexist over the same or different snapshots.
type MapView struct {
	snapshot *models.FleetSnapshot
	mounted  bool
}

// NewMapView creates an unmounted view over the snapshot.
func NewMapView(snapshot *models.FleetSnapshot) *MapView {
	return &MapView{snapshot: snapshot}
}

// Mount prepares the view for rendering.
func (v *MapView) Mount() {
	v.mounted = true
}

// Unmount releases the view; subsequent reads fail.
func (v *MapView) Unmount() {
	v.mounted = false
}

// Markers returns one marker per vehicle, in fleet order.
func (v *MapView) Markers() ([]Marker, error) {
	if !v.mounted {
		return nil, ErrViewNotMounted
	}
	markers := make([]Marker, 0, len(v.snapshot.Vehicles))
	for _, rec := range v.snapshot.Vehicles {
		markers = append(markers, markerFor(rec))
	}
	return markers, nil
}

// GlobeView projects the same records into 3D globe bars. It reads the same
// snapshot as every other view; it never generates data of its own.
type GlobeView struct {
	snapshot *models.FleetSnapshot
	mounted  bool
}

// NewGlobeView creates an unmounted globe view over the snapshot.
func NewGlobeView(snapshot *models.FleetSnapshot) *GlobeView {
	return &GlobeView{snapshot: snapshot}
}

// Mount prepares the view for rendering.
func (v *GlobeView) Mount() {
	v.mounted = true
}

// Unmount releases the view; subsequent reads fail.
func (v *GlobeView) Unmount() {
	v.mounted = false
}

// Markers returns one globe bar per vehicle, in fleet order.
func (v *GlobeView) Markers() ([]GlobeMarker, error) {
	if !v.mounted {
		return nil, ErrViewNotMounted
	}
	markers := make([]GlobeMarker, 0, len(v.snapshot.Vehicles))
	for _, rec := range v.snapshot.Vehicles {
		markers = append(markers, GlobeMarker{
			Marker:    markerFor(rec),
			BarHeight: barHeight(rec.SignalStrength),
		})
	}
	return markers, nil
}

func markerFor(rec models.VehicleConnectivityRecord) Marker {
	return Marker{
		VehicleID:       rec.VehicleID,
		VehicleName:     rec.VehicleName,
		Position:        rec.Position,
		Tier:            rec.HealthTier,
		Color:           tierColors[rec.HealthTier],
		SignalStrength:  rec.SignalStrength,
		RadioTechnology: rec.RadioTechnology,
	}
}

// barHeight maps signal strength to a 0.1–1.0 bar scale; weaker signal means
// a taller bar.
func barHeight(signal int) float64 {
	const maxSignal = 110.0
	h := 1.0 - float64(signal)/maxSignal
	if h < 0.1 {
		h = 0.1
	}
	if h > 1.0 {
		h = 1.0
	}
	return h
}
