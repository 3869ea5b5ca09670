// Package integration holds cross-package tests asserting that every view of
// a snapshot reports the same values for the same vehicle.
package integration

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetintel/connectivity-intel/internal/export"
	"github.com/fleetintel/connectivity-intel/internal/lookup"
	"github.com/fleetintel/connectivity-intel/internal/models"
	"github.com/fleetintel/connectivity-intel/internal/synth"
	"github.com/fleetintel/connectivity-intel/internal/views"
)

func seededSnapshot(t *testing.T) *models.FleetSnapshot {
	t.Helper()
	cfg := synth.DefaultConfig()
	cfg.ReferenceTime = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	sy, err := synth.New(cfg)
	require.NoError(t, err)
	snapshot, err := sy.Synthesize(synth.DemoFleet(40), 42)
	require.NoError(t, err)
	return snapshot
}

// Every surface (alert card, CSV row, lookup answer, map marker) must show
// the exact values stored in the vehicle's record, never regenerated ones.
func TestViewsAgreeOnCriticalVehicle(t *testing.T) {
	snapshot := seededSnapshot(t)

	critical := snapshot.VehiclesByTier(models.TierCritical)
	require.NotEmpty(t, critical)
	rec := critical[0]

	// Alert card.
	var card *views.Alert
	for _, a := range views.Alerts(snapshot) {
		if a.VehicleID == rec.VehicleID {
			card = &a
			break
		}
	}
	require.NotNil(t, card, "critical vehicle must raise an alert")
	assert.Equal(t, rec.SignalStrength, card.SignalStrength)
	assert.Equal(t, rec.ConnectionDrops, card.ConnectionDrops)
	assert.Equal(t, rec.UptimePercent, card.UptimePercent)
	assert.Equal(t, len(rec.ErrorLog), card.ErrorCount)

	// CSV diagnostics row.
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, snapshot, export.ViewDiagnostics, export.Filter{Tier: models.TierCritical}))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	var row []string
	for _, r := range rows[1:] {
		if r[0] == rec.VehicleName {
			row = r
			break
		}
	}
	require.NotNil(t, row, "critical export must include the vehicle")
	assert.Equal(t, rec.Cell.String(), row[4])
	assert.Equal(t, strconv.Itoa(rec.SignalStrength), row[5])
	assert.Equal(t, strconv.Itoa(rec.ConnectionDrops), row[6])
	assert.Equal(t, strconv.FormatFloat(rec.UptimePercent, 'f', 1, 64), row[7])
	assert.Equal(t, strconv.Itoa(len(rec.ErrorLog)), row[8])

	// Lookup answer.
	result := lookup.Query(snapshot, rec.VehicleName)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, rec.IMSI, result.Matches[0].Record.IMSI)
	assert.Equal(t, rec.IMEI, result.Matches[0].Record.IMEI)
	assert.Equal(t, rec.SignalStrength, result.Matches[0].Record.SignalStrength)

	// Map and globe markers.
	mapView := views.NewMapView(snapshot)
	mapView.Mount()
	defer mapView.Unmount()
	markers, err := mapView.Markers()
	require.NoError(t, err)

	var marker *views.Marker
	for _, m := range markers {
		if m.VehicleID == rec.VehicleID {
			marker = &m
			break
		}
	}
	require.NotNil(t, marker)
	assert.Equal(t, rec.Position, marker.Position)
	assert.Equal(t, rec.SignalStrength, marker.SignalStrength)
	assert.Equal(t, models.TierCritical, marker.Tier)
}

// The error feed and the per-vehicle error logs are the same data.
func TestErrorFeedMatchesRecords(t *testing.T) {
	snapshot := seededSnapshot(t)

	total := 0
	for _, rec := range snapshot.Vehicles {
		total += len(rec.ErrorLog)
	}

	feed := views.ErrorFeed(snapshot)
	require.Len(t, feed, total)

	byVehicle := make(map[string]int)
	for _, entry := range feed {
		byVehicle[entry.VehicleID]++
	}
	for _, rec := range snapshot.Vehicles {
		assert.Equal(t, len(rec.ErrorLog), byVehicle[rec.VehicleID], "%s", rec.VehicleName)
	}
}

// Regenerating with the same roster and seed must reproduce the identical
// dataset across every view.
func TestExportsAreReproducible(t *testing.T) {
	a := seededSnapshot(t)
	b := seededSnapshot(t)

	var bufA, bufB bytes.Buffer
	require.NoError(t, export.Write(&bufA, a, export.ViewUsage, export.Filter{}))
	require.NoError(t, export.Write(&bufB, b, export.ViewUsage, export.Filter{}))
	assert.Equal(t, bufA.String(), bufB.String())
}
