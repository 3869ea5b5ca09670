package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fleetintel/connectivity-intel/internal/lookup"
	"github.com/fleetintel/connectivity-intel/internal/store"
)

// LookupHandler serves the assistant's free-text fleet queries.
type LookupHandler struct {
	store store.SnapshotStore
}

// NewLookupHandler creates a new lookup handler
func NewLookupHandler(s store.SnapshotStore) *LookupHandler {
	return &LookupHandler{store: s}
}

// Query answers ?q= against the current snapshot.
func (h *LookupHandler) Query(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter: q"})
		return
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

	c.JSON(http.StatusOK, lookup.Query(snap, q))
}
