// Package views contains read-only projections of a fleet snapshot. Every
// value a view emits is copied or derived from the snapshot's records, so the
// alert cards, markers, error feed, and exports can never disagree with each
// other.
package views

import (
	"fmt"
	"sort"

	"github.com/fleetintel/connectivity-intel/internal/models"
)

// Alert thresholds used to phrase the card reasons. They mirror the scoring
// bands of the source diagnostics feed.
const (
	weakSignalBelow = 50
	highDropsFrom   = 8
	elevatedDrops   = 3
	lowUptimeBelow  = 90.0
	highErrorsFrom  = 16
)

// Alert is one card on the connectivity alerts panel.
type Alert struct {
	VehicleID       string             `json:"vehicleId"`
	VehicleName     string             `json:"vehicleName"`
	Tier            models.HealthTier  `json:"tier"`
	Reasons         []string           `json:"reasons"`
	SignalStrength  int                `json:"signalStrength"`
	ConnectionDrops int                `json:"connectionDrops"`
	UptimePercent   float64            `json:"uptimePercent"`
	ErrorCount      int                `json:"errorCount"`
	OpenIncidents   []models.Incident  `json:"openIncidents"`
}

// Alerts builds the alert cards for all warning and critical vehicles,
// critical first, fleet order within a tier.
func Alerts(snapshot *models.FleetSnapshot) []Alert {
	var alerts []Alert
	for _, rec := range snapshot.Vehicles {
		if rec.HealthTier != models.TierWarning && rec.HealthTier != models.TierCritical {
			continue
		}
		alerts = append(alerts, Alert{
			VehicleID:       rec.VehicleID,
			VehicleName:     rec.VehicleName,
			Tier:            rec.HealthTier,
			Reasons:         alertReasons(rec),
			SignalStrength:  rec.SignalStrength,
			ConnectionDrops: rec.ConnectionDrops,
			UptimePercent:   rec.UptimePercent,
			ErrorCount:      len(rec.ErrorLog),
			OpenIncidents:   rec.ActiveIncidents,
		})
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Tier.Rank() > alerts[j].Tier.Rank()
	})
	return alerts
}

func alertReasons(rec models.VehicleConnectivityRecord) []string {
	var reasons []string
	if rec.SignalStrength < weakSignalBelow {
		reasons = append(reasons, fmt.Sprintf("weak signal (%d dBm)", rec.SignalStrength))
	}
	switch {
	case rec.ConnectionDrops >= highDropsFrom:
		reasons = append(reasons, fmt.Sprintf("frequent connection drops (%d)", rec.ConnectionDrops))
	case rec.ConnectionDrops >= elevatedDrops:
		reasons = append(reasons, fmt.Sprintf("elevated connection drops (%d)", rec.ConnectionDrops))
	}
	if rec.UptimePercent < lowUptimeBelow {
		reasons = append(reasons, fmt.Sprintf("low uptime (%.1f%%)", rec.UptimePercent))
	}
	if n := len(rec.ErrorLog); n >= highErrorsFrom {
		reasons = append(reasons, fmt.Sprintf("high network error volume (%d events)", n))
	} else if n > 0 {
		reasons = append(reasons, fmt.Sprintf("%d network errors logged", n))
	}
	if rec.RadioTechnology != models.RadioLTE {
		reasons = append(reasons, fmt.Sprintf("fallen back to %s", rec.RadioTechnology))
	}
	if rec.Usage.NearLimit() {
		reasons = append(reasons, fmt.Sprintf("data plan %.1f%% remaining", rec.Usage.BalancePercent()))
	}
	return reasons
}
