package models

import "time"

// FleetSnapshot is one immutable generation run: the full record collection
// plus the coverage towers derived from the same seed. Consumers never mutate
// a snapshot; a refresh produces a new one that replaces it wholesale.
type FleetSnapshot struct {
	GeneratedAt time.Time                   `json:"generatedAt"`
	Seed        int64                       `json:"seed"`
	Vehicles    []VehicleConnectivityRecord `json:"vehicles"`
	Towers      []CellTower                 `json:"towers"`
}

// VehicleByID returns the record for the given vehicle ID.
func (s *FleetSnapshot) VehicleByID(id string) (*VehicleConnectivityRecord, bool) {
	for i := range s.Vehicles {
		if s.Vehicles[i].VehicleID == id {
			return &s.Vehicles[i], true
		}
	}
	return nil, false
}

// VehiclesByTier returns the records in the given tier, in fleet order.
func (s *FleetSnapshot) VehiclesByTier(tier HealthTier) []VehicleConnectivityRecord {
	var out []VehicleConnectivityRecord
	for _, v := range s.Vehicles {
		if v.HealthTier == tier {
			out = append(out, v)
		}
	}
	return out
}

// TierCounts returns the number of vehicles per health tier.
func (s *FleetSnapshot) TierCounts() map[HealthTier]int {
	counts := make(map[HealthTier]int, len(Tiers))
	for _, v := range s.Vehicles {
		counts[v.HealthTier]++
	}
	return counts
}
