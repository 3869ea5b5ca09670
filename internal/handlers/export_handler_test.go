package handlers

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetintel/connectivity-intel/internal/store"
)

func TestExportCSVDefaultsToIdentifiers(t *testing.T) {
	h := NewExportHandler(loadedStore())
	c, w := newTestContext(t, http.MethodGet, "/api/v1/export/csv")

	h.CSV(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="fleet_identifiers.csv"`, w.Header().Get("Content-Disposition"))

	rows, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "vehicle_id", rows[0][0])
	assert.Equal(t, "Demo-01", rows[1][1])
}

func TestExportCSVDiagnosticsWithTierFilter(t *testing.T) {
	h := NewExportHandler(loadedStore())
	c, w := newTestContext(t, http.MethodGet, "/api/v1/export/csv?view=diagnostics&tier=critical")

	h.CSV(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="fleet_diagnostics_critical.csv"`, w.Header().Get("Content-Disposition"))

	rows, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Demo-02", rows[1][0])
}

func TestExportCSVUnknownView(t *testing.T) {
	h := NewExportHandler(loadedStore())
	c, w := newTestContext(t, http.MethodGet, "/api/v1/export/csv?view=topology")

	h.CSV(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown view")
}

func TestExportCSVUnknownTier(t *testing.T) {
	h := NewExportHandler(loadedStore())
	c, w := newTestContext(t, http.MethodGet, "/api/v1/export/csv?tier=pristine")

	h.CSV(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown tier")
}

func TestExportCSVNoSnapshot(t *testing.T) {
	h := NewExportHandler(store.NewMockSnapshotStore())
	c, w := newTestContext(t, http.MethodGet, "/api/v1/export/csv")

	h.CSV(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
