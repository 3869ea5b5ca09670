package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fleetintel/connectivity-intel/internal/models"
	"github.com/fleetintel/connectivity-intel/internal/store"
	"github.com/fleetintel/connectivity-intel/internal/views"
)

// FleetHandler serves the snapshot-backed read endpoints: records, summary,
// alerts, error feed, towers, and the map/globe marker sets.
type FleetHandler struct {
	store store.SnapshotStore
}

// NewFleetHandler creates a new fleet handler
func NewFleetHandler(s store.SnapshotStore) *FleetHandler {
	return &FleetHandler{store: s}
}

func (h *FleetHandler) snapshot(c *gin.Context) (*models.FleetSnapshot, bool) {
	snap, err := h.store.Current(c.Request.Context())
	if err != nil {
		if errors.Is(err, store.ErrNoSnapshot) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no fleet snapshot available"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load fleet snapshot"})
		}
		return nil, false
	}
	return snap, true
}

// List returns all vehicle records, optionally filtered by ?tier=.
func (h *FleetHandler) List(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}

	vehicles := snap.Vehicles
	if tierParam := c.Query("tier"); tierParam != "" {
		tier := models.HealthTier(tierParam)
		if !tier.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tier: " + tierParam})
			return
		}
		vehicles = snap.VehiclesByTier(tier)
		if vehicles == nil {
			vehicles = []models.VehicleConnectivityRecord{}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"generatedAt": snap.GeneratedAt,
		"total":       len(vehicles),
		"vehicles":    vehicles,
	})
}

// Get returns one vehicle record by ID.
func (h *FleetHandler) Get(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}

	rec, found := snap.VehicleByID(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Summary returns the aggregated fleet summary.
func (h *FleetHandler) Summary(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, views.Summarize(snap))
}

// Alerts returns alert cards for warning and critical vehicles.
func (h *FleetHandler) Alerts(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	alerts := views.Alerts(snap)
	if alerts == nil {
		alerts = []views.Alert{}
	}
	c.JSON(http.StatusOK, gin.H{"total": len(alerts), "alerts": alerts})
}

// Errors returns the flattened fleet-wide error feed.
func (h *FleetHandler) Errors(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	feed := views.ErrorFeed(snap)
	if feed == nil {
		feed = []views.ErrorFeedEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"total": len(feed), "errors": feed})
}

// Towers returns the coverage map towers.
func (h *FleetHandler) Towers(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(snap.Towers), "towers": snap.Towers})
}

// MapMarkers returns the 2D map marker set.
func (h *FleetHandler) MapMarkers(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	view := views.NewMapView(snap)
	view.Mount()
	defer view.Unmount()

	markers, err := view.Markers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(markers), "markers": markers})
}

// GlobeMarkers returns the 3D globe marker set.
func (h *FleetHandler) GlobeMarkers(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	view := views.NewGlobeView(snap)
	view.Mount()
	defer view.Unmount()

	markers, err := view.Markers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(markers), "markers": markers})
}
