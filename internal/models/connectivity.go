// Package models contains data models for the fleet connectivity service.
package models

import (
	"errors"
	"fmt"
	"time"
)

// HealthTier is the categorical severity bucket summarizing a vehicle's
// connectivity quality. Every other generated attribute is constrained by it.
type HealthTier string

const (
	TierHealthy  HealthTier = "healthy"
	TierMinor    HealthTier = "minor"
	TierWarning  HealthTier = "warning"
	TierCritical HealthTier = "critical"
)

// Tiers lists all health tiers ordered from best to worst.
var Tiers = []HealthTier{TierHealthy, TierMinor, TierWarning, TierCritical}

// Valid reports whether t is a known health tier.
func (t HealthTier) Valid() bool {
	switch t {
	case TierHealthy, TierMinor, TierWarning, TierCritical:
		return true
	}
	return false
}

// Rank returns the severity rank of the tier (0 = healthy, 3 = critical).
func (t HealthTier) Rank() int {
	for i, tier := range Tiers {
		if tier == t {
			return i
		}
	}
	return -1
}

// RadioTechnology is the cellular generation a modem is attached on.
type RadioTechnology string

const (
	RadioGSM   RadioTechnology = "GSM"
	RadioWCDMA RadioTechnology = "WCDMA"
	RadioLTE   RadioTechnology = "LTE"
)

// RATCode returns the numeric radio access technology code used by the
// signalling events feed (1=GSM, 2=WCDMA, 4=LTE).
func (r RadioTechnology) RATCode() int {
	switch r {
	case RadioGSM:
		return 1
	case RadioWCDMA:
		return 2
	case RadioLTE:
		return 4
	}
	return 0
}

// CellTowerIdentity is the composite locator of the serving cell tower.
type CellTowerIdentity struct {
	MCC    string `json:"mcc"`    // Mobile country code
	MNC    string `json:"mnc"`    // Mobile network code
	LAC    string `json:"lac"`    // Location area code
	CellID string `json:"cellId"` // Cell identifier within the area
}

// String renders the identity in the MCC-MNC-LAC-CELL form shown in the
// diagnostics views and CSV exports.
func (c CellTowerIdentity) String() string {
	return fmt.Sprintf("%s-%s-%s-%s", c.MCC, c.MNC, c.LAC, c.CellID)
}

// ErrorEvent is one entry in a vehicle's network error log.
type ErrorEvent struct {
	Code        string    `json:"code"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}

// IncidentStatus is the lifecycle state of an open trouble ticket.
type IncidentStatus string

const (
	IncidentNew      IncidentStatus = "NEW"
	IncidentAssigned IncidentStatus = "ASSIGNED"
	IncidentResolved IncidentStatus = "RESOLVED"
)

// Incident is an open trouble ticket attached to a vehicle.
type Incident struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Severity    string         `json:"severity"`
	Status      IncidentStatus `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// NetworkEvent is one signalling event (attach, handover, PDP activation...)
// reported for a vehicle's SIM.
type NetworkEvent struct {
	ID         string            `json:"id"`
	Code       string            `json:"code"`
	OccurredAt time.Time         `json:"occurredAt"`
	RATType    int               `json:"ratType"`
	Cell       CellTowerIdentity `json:"cell"`
	RxBytes    int64             `json:"pdpRx"`
	TxBytes    int64             `json:"pdpTx"`
}

// DataUsage holds the SIM's data plan consumption. The balance percentage is
// derived, never stored, so it cannot drift from the byte counters.
type DataUsage struct {
	DownloadedBytes int64 `json:"downloadedBytes"`
	UploadedBytes   int64 `json:"uploadedBytes"`
	PlanLimitBytes  int64 `json:"planLimitBytes"`
}

// UsedBytes returns total consumed bytes.
func (d DataUsage) UsedBytes() int64 {
	return d.DownloadedBytes + d.UploadedBytes
}

// BalancePercent returns the remaining plan balance as a percentage,
// rounded to one decimal.
func (d DataUsage) BalancePercent() float64 {
	if d.PlanLimitBytes <= 0 {
		return 0
	}
	pct := float64(d.PlanLimitBytes-d.UsedBytes()) / float64(d.PlanLimitBytes) * 100
	if pct < 0 {
		pct = 0
	}
	return roundTo(pct, 1)
}

// NearLimit reports whether usage has consumed 90% or more of the plan.
func (d DataUsage) NearLimit() bool {
	if d.PlanLimitBytes <= 0 {
		return false
	}
	return d.UsedBytes()*10 >= d.PlanLimitBytes*9
}

// Position is a WGS84 coordinate pair.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FleetVehicle is one entry of the external fleet roster handed to the
// synthesizer. Position is optional; when set the synthesizer keeps it
// instead of sampling one from a cluster.
type FleetVehicle struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Position *Position `json:"position,omitempty"`
}

// VehicleConnectivityRecord is the single source of truth for one vehicle's
// connectivity state. Every view (alert card, map marker, CSV row, lookup
// answer) is a projection of this record and must not regenerate values.
type VehicleConnectivityRecord struct {
	VehicleID   string     `json:"vehicleId"`
	VehicleName string     `json:"vehicleName"`
	HealthTier  HealthTier `json:"healthTier"`

	// Carrier / radio attachment
	Country         string            `json:"country"`
	CarrierName     string            `json:"carrier"`
	RadioTechnology RadioTechnology   `json:"radioTechnology"`
	Cell            CellTowerIdentity `json:"cell"`
	SignalStrength  int               `json:"signalStrength"`

	// SIM / modem identity
	IMSI string `json:"imsi"`
	IMEI string `json:"imei"`

	// Connection quality counters
	ConnectionDrops    int     `json:"connectionDrops"`
	UptimePercent      float64 `json:"uptimePercent"`
	LastDisconnectSecs int     `json:"lastDisconnectSecs"`

	// Signalling aggregates
	PDPAttempts       int `json:"pdpAttempts"`
	PDPSuccesses      int `json:"pdpSuccesses"`
	LocationUpdates   int `json:"locationUpdates"`
	LocationSuccesses int `json:"locationSuccesses"`

	// Motion state from the fleet platform side
	SpeedKPH      int  `json:"speedKph"`
	Driving       bool `json:"driving"`
	Communicating bool `json:"communicating"`

	ErrorLog        []ErrorEvent   `json:"errorLog"`
	ActiveIncidents []Incident     `json:"activeIncidents"`
	Events          []NetworkEvent `json:"events"`
	Usage           DataUsage      `json:"dataUsage"`
	Position        Position       `json:"position"`
}

// Validate checks structural consistency of a record. The synthesizer runs
// this on every record it emits.
func (r *VehicleConnectivityRecord) Validate() error {
	if r.VehicleID == "" {
		return errors.New("vehicleId is required")
	}
	if r.VehicleName == "" {
		return errors.New("vehicleName is required")
	}
	if !r.HealthTier.Valid() {
		return fmt.Errorf("unknown health tier %q", r.HealthTier)
	}
	if len(r.IMSI) != 15 {
		return fmt.Errorf("imsi must be 15 digits, got %q", r.IMSI)
	}
	if len(r.IMEI) != 15 {
		return fmt.Errorf("imei must be 15 digits, got %q", r.IMEI)
	}
	if r.Position.Latitude < -90 || r.Position.Latitude > 90 {
		return fmt.Errorf("latitude %f out of range", r.Position.Latitude)
	}
	if r.Position.Longitude < -180 || r.Position.Longitude > 180 {
		return fmt.Errorf("longitude %f out of range", r.Position.Longitude)
	}
	if r.UptimePercent < 0 || r.UptimePercent > 100 {
		return fmt.Errorf("uptimePercent %f out of range", r.UptimePercent)
	}
	if r.ConnectionDrops < 0 {
		return errors.New("connectionDrops cannot be negative")
	}
	return nil
}

// CellTower is one tower of the coverage map overlay.
type CellTower struct {
	Position        Position          `json:"position"`
	RadioTechnology RadioTechnology   `json:"radioTechnology"`
	CarrierName     string            `json:"carrier"`
	Cell            CellTowerIdentity `json:"cell"`
	WeakCoverage    bool              `json:"weakCoverage"`
}

func roundTo(v float64, decimals int) float64 {
	scale := 1.0
	for i := 0; i < decimals; i++ {
		scale *= 10
	}
	return float64(int64(v*scale+0.5)) / scale
}
