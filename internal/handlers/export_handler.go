package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fleetintel/connectivity-intel/internal/export"
	"github.com/fleetintel/connectivity-intel/internal/models"
	"github.com/fleetintel/connectivity-intel/internal/store"
)

// ExportHandler serves CSV downloads of the current snapshot.
type ExportHandler struct {
	store store.SnapshotStore
}

// NewExportHandler creates a new export handler
func NewExportHandler(s store.SnapshotStore) *ExportHandler {
	return &ExportHandler{store: s}
}

// CSV streams the selected projection as a CSV attachment. Query parameters:
// view (identifiers|diagnostics|usage, default identifiers), tier, carrier.
func (h *ExportHandler) CSV(c *gin.Context) {
	view := export.View(c.DefaultQuery("view", string(export.ViewIdentifiers)))
	if !view.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown view: " + string(view)})
		return
	}

	filter := export.Filter{Carrier: c.Query("carrier")}
	if tierParam := c.Query("tier"); tierParam != "" {
		tier := models.HealthTier(tierParam)
		if !tier.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tier: " + tierParam})
			return
		}
		filter.Tier = tier
	}

	snap, err := h.store.Current(c.Request.Context())
	if err != nil {
		if errors.Is(err, store.ErrNoSnapshot) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no fleet snapshot available"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load fleet snapshot"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(view, filter)+`"`)
	c.Status(http.StatusOK)

	if err := export.Write(c.Writer, snap, view, filter); err != nil {
		// Headers are already out; the best we can do is abort the stream.
		c.Abort()
	}
}
