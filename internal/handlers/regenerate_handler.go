package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleetintel/connectivity-intel/internal/models"
	"github.com/fleetintel/connectivity-intel/internal/store"
	"github.com/fleetintel/connectivity-intel/internal/synth"
	"github.com/fleetintel/connectivity-intel/internal/views"
)

// RegenerateHandler rebuilds the whole snapshot and swaps it into the store.
// This is the only mutation the API exposes; individual records are never
// edited.
type RegenerateHandler struct {
	store  store.SnapshotStore
	synth  *synth.Synthesizer
	fleet  []models.FleetVehicle
	logger *zap.Logger

	// OnSwap is invoked with each newly installed snapshot (metrics refresh).
	OnSwap func(*models.FleetSnapshot)

	// now is swappable for tests.
	now func() time.Time
}

// NewRegenerateHandler creates a new regenerate handler
func NewRegenerateHandler(s store.SnapshotStore, sy *synth.Synthesizer, fleet []models.FleetVehicle, logger *zap.Logger) *RegenerateHandler {
	return &RegenerateHandler{
		store:  s,
		synth:  sy,
		fleet:  fleet,
		logger: logger,
		now:    time.Now,
	}
}

// Regenerate handles POST /regenerate. An optional ?seed= pins the run;
// otherwise the seed derives from the clock.
func (h *RegenerateHandler) Regenerate(c *gin.Context) {
	now := h.now().UTC()
	seed := now.UnixNano()
	if seedParam := c.Query("seed"); seedParam != "" {
		parsed, err := strconv.ParseInt(seedParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "seed must be an integer"})
			return
		}
		seed = parsed
	}

	// The synthesizer is immutable; rebuild it with a fresh reference time
	// so the new snapshot's timestamps anchor to this request.
	cfg := h.synth.Config()
	cfg.ReferenceTime = now
	sy, err := synth.New(cfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := sy.Synthesize(h.fleet, seed)
	if err != nil {
		h.logger.Error("snapshot regeneration failed", zap.Error(err), zap.Int64("seed", seed))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.store.Swap(snapshot)
	if h.OnSwap != nil {
		h.OnSwap(snapshot)
	}
	h.logger.Info("fleet snapshot regenerated",
		zap.Int64("seed", seed),
		zap.Int("vehicles", len(snapshot.Vehicles)),
		zap.Int("towers", len(snapshot.Towers)),
	)

	c.JSON(http.StatusOK, gin.H{
		"generatedAt": snapshot.GeneratedAt,
		"seed":        snapshot.Seed,
		"summary":     views.Summarize(snapshot),
	})
}
