package synth

import (
	"fmt"
	"time"

	"github.com/fleetintel/connectivity-intel/internal/models"
)

// Network error codes observed in cellular diagnostics feeds.
const (
	ErrContextDeactivation = "CONTEXT_DEACTIVATION"
	ErrNetworkTimeout      = "NETWORK_TIMEOUT"
	ErrAuthFailure         = "AUTH_FAILURE"
	ErrGPRSDetach          = "GPRS_DETACH"
	ErrAttachReject        = "ATTACH_REJECT"
	ErrPDPReject           = "PDP_REJECT"
)

func defaultErrorCatalog() map[string]string {
	return map[string]string{
		ErrContextDeactivation: "Data session torn down by network, congestion or admin action",
		ErrNetworkTimeout:      "No response from SGSN/MME within timeout window, signalling path failure",
		ErrAuthFailure:         "SIM authentication rejected by visited network, possible roaming agreement issue",
		ErrGPRSDetach:          "Network-initiated GPRS detach, SIM deregistered from packet domain",
		ErrAttachReject:        "Network attach request rejected, IMSI not provisioned for this PLMN",
		ErrPDPReject:           "Packet data session activation denied by GGSN, APN config or quota exceeded",
	}
}

func defaultCarriers() []Carrier {
	return []Carrier{
		{Name: "Orange ES", MCC: "214", MNC: "03", Country: "Spain",
			Sites: []CellSite{{LAC: "103", CellID: "49885"}, {LAC: "803", CellID: "64084"}}},
		{Name: "Vodafone PT", MCC: "268", MNC: "01", Country: "Portugal",
			Sites: []CellSite{{LAC: "131", CellID: "47723"}, {LAC: "954", CellID: "49145"}}},
		{Name: "NOS PT", MCC: "268", MNC: "03", Country: "Portugal",
			Sites: []CellSite{{LAC: "234", CellID: "18145"}, {LAC: "354", CellID: "12245"}}},
		{Name: "Movistar", MCC: "214", MNC: "07", Country: "Spain",
			Sites: []CellSite{{LAC: "496", CellID: "25821"}, {LAC: "367", CellID: "26890"}}},
		{Name: "Vodafone ES", MCC: "214", MNC: "01", Country: "Spain",
			Sites: []CellSite{{LAC: "703", CellID: "56754"}, {LAC: "725", CellID: "40532"}}},
	}
}

// Iberian depot and route areas the demo fleet operates in.
func defaultClusters() []Cluster {
	box := func(lat, lon float64) Region {
		return Region{MinLat: lat - 0.02, MaxLat: lat + 0.02, MinLon: lon - 0.02, MaxLon: lon + 0.02}
	}
	return []Cluster{
		{Name: "viana-do-castelo", Region: box(41.8975, -8.8574)},
		{Name: "vigo", Region: box(42.2348, -8.7131)},
		{Name: "redondela", Region: box(42.1336, -8.7983)},
		{Name: "ourense", Region: box(42.2644, -8.4569)},
		{Name: "tui", Region: box(42.0410, -8.6481)},
		{Name: "lleida", Region: box(41.5283, 0.5164)},
		{Name: "valencia", Region: box(39.4852, -0.5346)},
		{Name: "central-spain", Region: box(38.6322, -3.4661)},
	}
}

func defaultIncidentCatalog() []IncidentType {
	return []IncidentType{
		{Type: "3G-FALLBACK", Description: "Persistent 3G/2G fallback in LTE coverage area", Severity: "HIGH"},
		{Type: "SIG-LOSS", Description: "Intermittent signal loss detected", Severity: "CRITICAL"},
		{Type: "DATA-RETRY", Description: "Excessive data retransmissions", Severity: "CRITICAL"},
		{Type: "PERF-DEGRADE", Description: "Network performance degradation observed", Severity: "MEDIUM"},
	}
}

func defaultEventCodes() []string {
	return []string{
		"ATTACH", "DETACH", "HANDOVER", "TAU",
		"PDP_ACTIVATE", "PDP_DEACTIVATE", "SERVICE_REQUEST",
	}
}

func defaultTiers() map[models.HealthTier]TierProfile {
	return map[models.HealthTier]TierProfile{
		models.TierHealthy: {
			SignalMin: 75, SignalMax: 106,
			RadioWeights: []RadioWeight{{models.RadioLTE, 1}},
			DropsMin:     0, DropsMax: 1,
			UptimeMin: 98.0, UptimeMax: 100.0,
			ErrorCountMin: 0, ErrorCountMax: 1,
			ErrorPool:     []string{ErrContextDeactivation},
			EventCountMin: 1, EventCountMax: 1,
			IncidentCountMin: 0, IncidentCountMax: 0,
			DataUsedMinMB: 100, DataUsedMaxMB: 350,
			PDPAttemptsMin: 10, PDPAttemptsMax: 30,
			PDPSuccessMin: 8, PDPSuccessMax: 30,
			LocUpdatesMin: 50, LocUpdatesMax: 120,
			LocSuccessMin: 45, LocSuccessMax: 120,
		},
		models.TierMinor: {
			SignalMin: 63, SignalMax: 76,
			RadioWeights: []RadioWeight{{models.RadioLTE, 1}},
			DropsMin:     1, DropsMax: 3,
			UptimeMin: 96.0, UptimeMax: 99.5,
			ErrorCountMin: 2, ErrorCountMax: 5,
			ErrorPool:     []string{ErrContextDeactivation, ErrNetworkTimeout},
			EventCountMin: 2, EventCountMax: 3,
			IncidentCountMin: 0, IncidentCountMax: 0,
			DataUsedMinMB: 200, DataUsedMaxMB: 450,
			PDPAttemptsMin: 30, PDPAttemptsMax: 60,
			PDPSuccessMin: 25, PDPSuccessMax: 45,
			LocUpdatesMin: 100, LocUpdatesMax: 200,
			LocSuccessMin: 100, LocSuccessMax: 190,
		},
		models.TierWarning: {
			SignalMin: 55, SignalMax: 68,
			RadioWeights: []RadioWeight{{models.RadioWCDMA, 1}, {models.RadioLTE, 1}},
			DropsMin:     3, DropsMax: 7,
			UptimeMin: 90.0, UptimeMax: 97.0,
			ErrorCountMin: 6, ErrorCountMax: 15,
			ErrorPool:     []string{ErrNetworkTimeout, ErrContextDeactivation, ErrPDPReject},
			EventCountMin: 3, EventCountMax: 6,
			IncidentCountMin: 0, IncidentCountMax: 1,
			DataUsedMinMB: 400, DataUsedMaxMB: 800,
			PDPAttemptsMin: 50, PDPAttemptsMax: 90,
			PDPSuccessMin: 30, PDPSuccessMax: 65,
			LocUpdatesMin: 200, LocUpdatesMax: 300,
			LocSuccessMin: 100, LocSuccessMax: 180,
		},
		models.TierCritical: {
			SignalMin: 20, SignalMax: 45,
			RadioWeights: []RadioWeight{{models.RadioGSM, 1}, {models.RadioWCDMA, 1}},
			DropsMin:     8, DropsMax: 25,
			UptimeMin: 85.0, UptimeMax: 93.0,
			ErrorCountMin: 16, ErrorCountMax: 40,
			ErrorPool:     []string{ErrAuthFailure, ErrPDPReject, ErrAttachReject, ErrGPRSDetach},
			EventCountMin: 3, EventCountMax: 12,
			IncidentCountMin: 1, IncidentCountMax: 3,
			DataUsedMinMB: 800, DataUsedMaxMB: 1400,
			PDPAttemptsMin: 100, PDPAttemptsMax: 150,
			PDPSuccessMin: 40, PDPSuccessMax: 70,
			LocUpdatesMin: 200, LocUpdatesMax: 360,
			LocSuccessMin: 100, LocSuccessMax: 220,
		},
	}
}

// DefaultConfig returns the demo configuration: Iberian carriers and depots,
// a 70/10/10/10 tier split, and a 2 GB standard IoT data plan. ReferenceTime
// is left zero; callers must set it before use.
func DefaultConfig() Config {
	return Config{
		Distribution: []TierShare{
			{models.TierHealthy, 0.70},
			{models.TierMinor, 0.10},
			{models.TierWarning, 0.10},
			{models.TierCritical, 0.10},
		},
		Tiers:        defaultTiers(),
		Carriers:     defaultCarriers(),
		Clusters:     defaultClusters(),
		ErrorCatalog: defaultErrorCatalog(),
		EventCodes:   defaultEventCodes(),
		IncidentCatalog: defaultIncidentCatalog(),
		IncidentStatusWeights: []StatusWeight{
			{models.IncidentNew, 2},
			{models.IncidentAssigned, 2},
			{models.IncidentResolved, 1},
		},
		PlanLimitBytes:       2048 * 1024 * 1024,
		ErrorWindow:          48 * time.Hour,
		EventWindow:          24 * time.Hour,
		IncidentWindow:       72 * time.Hour,
		TowerCount:           90,
		CoverageRegion:       Region{MinLat: 41.0, MaxLat: 43.5, MinLon: -9.5, MaxLon: -6.5},
		WeakTowerProbability: 0.15,
	}
}

// DemoFleet builds the demo roster of n vehicles with the naming scheme the
// dashboard expects ("Demo-01", "Demo-02", ...).
func DemoFleet(n int) []models.FleetVehicle {
	fleet := make([]models.FleetVehicle, 0, n)
	for i := 1; i <= n; i++ {
		fleet = append(fleet, models.FleetVehicle{
			ID:   fmt.Sprintf("b%x", i),
			Name: fmt.Sprintf("Demo-%02d", i),
		})
	}
	return fleet
}
