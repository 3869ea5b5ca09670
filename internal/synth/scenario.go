package synth

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fleetintel/connectivity-intel/internal/models"
)

// Scenario files let a demo run override parts of the default configuration
// (tier split, carriers, clusters, tier ranges) without rebuilding. Unset
// fields keep their defaults.

// internal JSON shapes, kept unexported so the file format can evolve
// independently of the Config types.
type scenarioJSON struct {
	Distribution map[string]float64 `json:"distribution"`
	Carriers     []carrierJSON      `json:"carriers"`
	Clusters     []clusterJSON      `json:"clusters"`
	Tiers        map[string]tierJSON `json:"tiers"`

	TowerCount           *int     `json:"tower_count"`
	WeakTowerProbability *float64 `json:"weak_tower_probability"`
	PlanLimitMB          *int64   `json:"plan_limit_mb"`
}

type carrierJSON struct {
	Name    string     `json:"name"`
	MCC     string     `json:"mcc"`
	MNC     string     `json:"mnc"`
	Country string     `json:"country"`
	Sites   []siteJSON `json:"sites"`
}

type siteJSON struct {
	LAC  string `json:"lac"`
	Cell string `json:"cell"`
}

type clusterJSON struct {
	Name   string  `json:"name"`
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

type tierJSON struct {
	SignalMin     *int    `json:"signal_min"`
	SignalMax     *int    `json:"signal_max"`
	DropsMin      *int    `json:"drops_min"`
	DropsMax      *int    `json:"drops_max"`
	ErrorCountMin *int    `json:"error_count_min"`
	ErrorCountMax *int    `json:"error_count_max"`
	Cluster       *string `json:"cluster"`
}

// LoadScenario decodes a scenario document from r and merges it over base.
// It fails only on JSON or structural errors; semantic validation happens in
// Config.Validate when the synthesizer is constructed.
func LoadScenario(r io.Reader, base Config) (Config, error) {
	var payload scenarioJSON
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return base, fmt.Errorf("scenario: decode failed: %w", err)
	}

	cfg := base

	if len(payload.Distribution) > 0 {
		shares := make([]TierShare, 0, len(payload.Distribution))
		// Fixed tier order keeps merged configs deterministic regardless of
		// JSON map iteration.
		for _, tier := range models.Tiers {
			if p, ok := payload.Distribution[string(tier)]; ok {
				shares = append(shares, TierShare{Tier: tier, Proportion: p})
			}
		}
		if len(shares) != len(payload.Distribution) {
			return base, fmt.Errorf("scenario: distribution names an unknown tier")
		}
		cfg.Distribution = shares
	}

	if len(payload.Carriers) > 0 {
		carriers := make([]Carrier, 0, len(payload.Carriers))
		for _, cj := range payload.Carriers {
			if cj.Name == "" {
				return base, fmt.Errorf("scenario: carrier with empty name")
			}
			c := Carrier{Name: cj.Name, MCC: cj.MCC, MNC: cj.MNC, Country: cj.Country}
			for _, sj := range cj.Sites {
				c.Sites = append(c.Sites, CellSite{LAC: sj.LAC, CellID: sj.Cell})
			}
			carriers = append(carriers, c)
		}
		cfg.Carriers = carriers
	}

	if len(payload.Clusters) > 0 {
		clusters := make([]Cluster, 0, len(payload.Clusters))
		for _, cj := range payload.Clusters {
			if cj.Name == "" {
				return base, fmt.Errorf("scenario: cluster with empty name")
			}
			clusters = append(clusters, Cluster{
				Name: cj.Name,
				Region: Region{
					MinLat: cj.MinLat, MaxLat: cj.MaxLat,
					MinLon: cj.MinLon, MaxLon: cj.MaxLon,
				},
			})
		}
		cfg.Clusters = clusters
	}

	if len(payload.Tiers) > 0 {
		tiers := make(map[models.HealthTier]TierProfile, len(cfg.Tiers))
		for k, v := range cfg.Tiers {
			tiers[k] = v
		}
		for name, tj := range payload.Tiers {
			tier := models.HealthTier(name)
			profile, ok := tiers[tier]
			if !ok {
				return base, fmt.Errorf("scenario: unknown tier %q", name)
			}
			applyTierOverrides(&profile, tj)
			tiers[tier] = profile
		}
		cfg.Tiers = tiers
	}

	if payload.TowerCount != nil {
		cfg.TowerCount = *payload.TowerCount
	}
	if payload.WeakTowerProbability != nil {
		cfg.WeakTowerProbability = *payload.WeakTowerProbability
	}
	if payload.PlanLimitMB != nil {
		cfg.PlanLimitBytes = *payload.PlanLimitMB * 1024 * 1024
	}

	return cfg, nil
}

func applyTierOverrides(p *TierProfile, tj tierJSON) {
	if tj.SignalMin != nil {
		p.SignalMin = *tj.SignalMin
	}
	if tj.SignalMax != nil {
		p.SignalMax = *tj.SignalMax
	}
	if tj.DropsMin != nil {
		p.DropsMin = *tj.DropsMin
	}
	if tj.DropsMax != nil {
		p.DropsMax = *tj.DropsMax
	}
	if tj.ErrorCountMin != nil {
		p.ErrorCountMin = *tj.ErrorCountMin
	}
	if tj.ErrorCountMax != nil {
		p.ErrorCountMax = *tj.ErrorCountMax
	}
	if tj.Cluster != nil {
		p.Cluster = *tj.Cluster
	}
}
