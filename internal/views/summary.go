package views

import (
	"github.com/fleetintel/connectivity-intel/internal/models"
)

// FleetSummary aggregates the snapshot for the dashboard header row.
type FleetSummary struct {
	TotalVehicles int                            `json:"totalVehicles"`
	TotalTowers   int                            `json:"totalTowers"`
	ByTier        map[models.HealthTier]int      `json:"byTier"`
	ByCarrier     map[string]int                 `json:"byCarrier"`
	ByRadio       map[models.RadioTechnology]int `json:"byRadio"`
	AvgSignal     float64                        `json:"avgSignal"`
	AvgUptime     float64                        `json:"avgUptime"`
	OpenIncidents int                            `json:"openIncidents"`
	TotalErrors   int                            `json:"totalErrors"`
}

// Summarize computes the fleet summary from the snapshot.
func Summarize(snapshot *models.FleetSnapshot) FleetSummary {
	s := FleetSummary{
		TotalVehicles: len(snapshot.Vehicles),
		TotalTowers:   len(snapshot.Towers),
		ByTier:        make(map[models.HealthTier]int),
		ByCarrier:     make(map[string]int),
		ByRadio:       make(map[models.RadioTechnology]int),
	}
	var signalSum, uptimeSum float64
	for _, rec := range snapshot.Vehicles {
		s.ByTier[rec.HealthTier]++
		s.ByCarrier[rec.CarrierName]++
		s.ByRadio[rec.RadioTechnology]++
		signalSum += float64(rec.SignalStrength)
		uptimeSum += rec.UptimePercent
		s.TotalErrors += len(rec.ErrorLog)
		for _, inc := range rec.ActiveIncidents {
			if inc.Status != models.IncidentResolved {
				s.OpenIncidents++
			}
		}
	}
	if n := float64(len(snapshot.Vehicles)); n > 0 {
		s.AvgSignal = signalSum / n
		s.AvgUptime = uptimeSum / n
	}
	return s
}
