// Package synth generates the mock fleet connectivity dataset. Generation is
// a pure function of (fleet roster, configuration, seed): no I/O, no clock
// reads, no shared state, so runs are reproducible and safe to invoke
// concurrently.
package synth

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/fleetintel/connectivity-intel/internal/models"
)

// ConfigError reports an invalid synthesizer configuration. Generation aborts
// before producing any record.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("synth config: %s: %s", e.Field, e.Reason)
}

// ErrUniquenessViolation signals a duplicate IMSI/IMEI in generated output.
// The counter-based identity scheme makes this unreachable; if it ever fires
// it is a synthesizer bug, not a condition to recover from.
var ErrUniquenessViolation = errors.New("synth: duplicate subscriber identity generated")

// TierShare is one entry of the target tier distribution.
type TierShare struct {
	Tier       models.HealthTier
	Proportion float64
}

// RadioWeight is one entry of a tier's radio technology choice table.
// A slice keeps the sampling order deterministic.
type RadioWeight struct {
	Technology models.RadioTechnology
	Weight     int
}

// StatusWeight is one entry of the incident lifecycle status choice table.
type StatusWeight struct {
	Status models.IncidentStatus
	Weight int
}

// CellSite is one tower of a carrier's footprint.
type CellSite struct {
	LAC    string
	CellID string
}

// Carrier describes one mobile network operator and the cell sites vehicles
// on that carrier can attach to.
type Carrier struct {
	Name    string
	MCC     string
	MNC     string
	Country string
	Sites   []CellSite
}

// Region is a geographic bounding box.
type Region struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// Contains reports whether p lies within the region.
func (r Region) Contains(p models.Position) bool {
	return p.Latitude >= r.MinLat && p.Latitude <= r.MaxLat &&
		p.Longitude >= r.MinLon && p.Longitude <= r.MaxLon
}

// Cluster is a named geographic region vehicles are placed in. Tiers may be
// bound to a specific cluster so problem vehicles group on the map.
type Cluster struct {
	Name   string
	Region Region
}

// IncidentType describes one entry of the trouble ticket catalog.
type IncidentType struct {
	Type        string
	Description string
	Severity    string
}

// TierProfile holds the attribute ranges and choice tables for one health
// tier. All Min/Max bounds are inclusive.
type TierProfile struct {
	SignalMin, SignalMax int
	RadioWeights         []RadioWeight
	DropsMin, DropsMax   int
	UptimeMin, UptimeMax float64

	ErrorCountMin, ErrorCountMax int
	ErrorPool                    []string

	EventCountMin, EventCountMax       int
	IncidentCountMin, IncidentCountMax int

	DataUsedMinMB, DataUsedMaxMB int

	PDPAttemptsMin, PDPAttemptsMax int
	PDPSuccessMin, PDPSuccessMax   int
	LocUpdatesMin, LocUpdatesMax   int
	LocSuccessMin, LocSuccessMax   int

	// Cluster optionally names the cluster this tier's vehicles are placed
	// in. Empty means any configured cluster.
	Cluster string
}

// Config is the full synthesizer configuration. DefaultConfig returns the
// demo tables; a scenario file can override parts of it.
type Config struct {
	Distribution []TierShare
	Tiers        map[models.HealthTier]TierProfile
	Carriers     []Carrier
	Clusters     []Cluster

	ErrorCatalog          map[string]string // error code -> description
	EventCodes            []string
	IncidentCatalog       []IncidentType
	IncidentStatusWeights []StatusWeight

	PlanLimitBytes int64

	// Lookback windows for generated timestamps, all relative to ReferenceTime.
	ErrorWindow    time.Duration
	EventWindow    time.Duration
	IncidentWindow time.Duration

	// Coverage tower generation.
	TowerCount           int
	CoverageRegion       Region
	WeakTowerProbability float64

	// ReferenceTime anchors every generated timestamp so output is a pure
	// function of the inputs. Callers pass wall-clock time; tests pass a
	// fixed instant.
	ReferenceTime time.Time
}

const distributionTolerance = 1e-9

// Validate checks the configuration and returns a *ConfigError describing the
// first problem found.
func (c Config) Validate() error {
	if len(c.Distribution) == 0 {
		return &ConfigError{Field: "distribution", Reason: "no tier shares configured"}
	}
	sum := 0.0
	for _, share := range c.Distribution {
		if !share.Tier.Valid() {
			return &ConfigError{Field: "distribution", Reason: fmt.Sprintf("unknown tier %q", share.Tier)}
		}
		if share.Proportion < 0 {
			return &ConfigError{Field: "distribution", Reason: fmt.Sprintf("negative proportion for tier %q", share.Tier)}
		}
		sum += share.Proportion
	}
	if math.Abs(sum-1.0) > distributionTolerance {
		return &ConfigError{Field: "distribution", Reason: fmt.Sprintf("proportions sum to %v, want 1.0", sum)}
	}
	for _, share := range c.Distribution {
		profile, ok := c.Tiers[share.Tier]
		if !ok {
			return &ConfigError{Field: "tiers", Reason: fmt.Sprintf("no profile for tier %q", share.Tier)}
		}
		if err := c.validateProfile(share.Tier, profile); err != nil {
			return err
		}
	}
	if len(c.Carriers) == 0 {
		return &ConfigError{Field: "carriers", Reason: "no carriers configured"}
	}
	for _, carrier := range c.Carriers {
		if len(carrier.Sites) == 0 {
			return &ConfigError{Field: "carriers", Reason: fmt.Sprintf("carrier %q has no cell sites", carrier.Name)}
		}
	}
	if len(c.Clusters) == 0 {
		return &ConfigError{Field: "clusters", Reason: "no clusters configured"}
	}
	if len(c.EventCodes) == 0 {
		return &ConfigError{Field: "eventCodes", Reason: "no event codes configured"}
	}
	if len(c.IncidentCatalog) == 0 {
		return &ConfigError{Field: "incidentCatalog", Reason: "no incident types configured"}
	}
	if len(c.IncidentStatusWeights) == 0 {
		return &ConfigError{Field: "incidentStatusWeights", Reason: "no status weights configured"}
	}
	if c.PlanLimitBytes <= 0 {
		return &ConfigError{Field: "planLimitBytes", Reason: "must be positive"}
	}
	if c.ErrorWindow <= 0 || c.EventWindow <= 0 || c.IncidentWindow <= 0 {
		return &ConfigError{Field: "windows", Reason: "lookback windows must be positive"}
	}
	if c.TowerCount < 0 {
		return &ConfigError{Field: "towerCount", Reason: "cannot be negative"}
	}
	if c.ReferenceTime.IsZero() {
		return &ConfigError{Field: "referenceTime", Reason: "must be set"}
	}
	return nil
}

func (c Config) validateProfile(tier models.HealthTier, p TierProfile) error {
	field := fmt.Sprintf("tiers[%s]", tier)
	if len(p.RadioWeights) == 0 {
		return &ConfigError{Field: field, Reason: "empty radio weight table"}
	}
	total := 0
	for _, w := range p.RadioWeights {
		if w.Weight < 0 {
			return &ConfigError{Field: field, Reason: "negative radio weight"}
		}
		total += w.Weight
	}
	if total == 0 {
		return &ConfigError{Field: field, Reason: "radio weights sum to zero"}
	}
	if p.SignalMin > p.SignalMax {
		return &ConfigError{Field: field, Reason: "signal range inverted"}
	}
	if p.DropsMin > p.DropsMax {
		return &ConfigError{Field: field, Reason: "drops range inverted"}
	}
	if p.UptimeMin > p.UptimeMax {
		return &ConfigError{Field: field, Reason: "uptime range inverted"}
	}
	if p.ErrorCountMin > p.ErrorCountMax {
		return &ConfigError{Field: field, Reason: "error count range inverted"}
	}
	if p.ErrorCountMax > 0 && len(p.ErrorPool) == 0 {
		return &ConfigError{Field: field, Reason: "error pool empty but error count allows entries"}
	}
	for _, code := range p.ErrorPool {
		if _, ok := c.ErrorCatalog[code]; !ok {
			return &ConfigError{Field: field, Reason: fmt.Sprintf("error code %q not in catalog", code)}
		}
	}
	if p.Cluster != "" && !c.hasCluster(p.Cluster) {
		return &ConfigError{Field: field, Reason: fmt.Sprintf("unknown cluster %q", p.Cluster)}
	}
	return nil
}

func (c Config) hasCluster(name string) bool {
	for _, cl := range c.Clusters {
		if cl.Name == name {
			return true
		}
	}
	return false
}
