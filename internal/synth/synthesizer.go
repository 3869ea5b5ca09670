package synth

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/fleetintel/connectivity-intel/internal/models"
)

// IMSI/IMEI counter templates. The sequence index is embedded directly so
// uniqueness holds by construction, without a collision check pass.
const (
	imsiPrefix = "21401"   // Spanish PLMN prefix + 10-digit counter = 15 digits
	imeiPrefix = "3568490" // TAC prefix + 8-digit counter = 15 digits
)

// Synthesizer derives a consistent fleet connectivity snapshot from a roster,
// a seed, and its configuration tables.
type Synthesizer struct {
	cfg Config
}

// New validates cfg and returns a Synthesizer. A *ConfigError is returned for
// any malformed table.
func New(cfg Config) (*Synthesizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Synthesizer{cfg: cfg}, nil
}

// Config returns a copy of the synthesizer's configuration.
func (s *Synthesizer) Config() Config {
	return s.cfg
}

// Synthesize generates the full snapshot for the given roster and seed.
// Output order follows roster order so cross-view correlation stays stable.
// Two calls with identical inputs produce identical snapshots.
func (s *Synthesizer) Synthesize(fleet []models.FleetVehicle, seed int64) (*models.FleetSnapshot, error) {
	if len(fleet) == 0 {
		return nil, &ConfigError{Field: "fleet", Reason: "roster is empty"}
	}
	for i, v := range fleet {
		if v.ID == "" || v.Name == "" {
			return nil, &ConfigError{Field: "fleet", Reason: fmt.Sprintf("vehicle at index %d missing id or name", i)}
		}
	}

	rng := rand.New(rand.NewSource(seed))
	tiers := s.assignTiers(len(fleet), rng)

	records := make([]models.VehicleConnectivityRecord, 0, len(fleet))
	for i, vehicle := range fleet {
		rec, err := s.generateRecord(vehicle, tiers[i], i+1, rng)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := checkIdentityUniqueness(records); err != nil {
		return nil, err
	}

	return &models.FleetSnapshot{
		GeneratedAt: s.cfg.ReferenceTime,
		Seed:        seed,
		Vehicles:    records,
		Towers:      s.generateTowers(rng),
	}, nil
}

// assignTiers partitions the fleet into tier buckets matching the target
// distribution exactly: each bucket gets floor(proportion*n) vehicles and the
// largest bucket absorbs the rounding remainder. The resulting label list is
// shuffled so tiers mix across the roster, deterministically per seed.
func (s *Synthesizer) assignTiers(n int, rng *rand.Rand) []models.HealthTier {
	counts := make([]int, len(s.cfg.Distribution))
	assigned := 0
	largest := 0
	for i, share := range s.cfg.Distribution {
		counts[i] = int(math.Floor(share.Proportion * float64(n)))
		assigned += counts[i]
		if share.Proportion > s.cfg.Distribution[largest].Proportion {
			largest = i
		}
	}
	counts[largest] += n - assigned

	labels := make([]models.HealthTier, 0, n)
	for i, share := range s.cfg.Distribution {
		for j := 0; j < counts[i]; j++ {
			labels = append(labels, share.Tier)
		}
	}
	rng.Shuffle(len(labels), func(i, j int) {
		labels[i], labels[j] = labels[j], labels[i]
	})
	return labels
}

func (s *Synthesizer) generateRecord(vehicle models.FleetVehicle, tier models.HealthTier, seq int, rng *rand.Rand) (models.VehicleConnectivityRecord, error) {
	profile := s.cfg.Tiers[tier]

	carrier := s.cfg.Carriers[rng.Intn(len(s.cfg.Carriers))]
	site := carrier.Sites[rng.Intn(len(carrier.Sites))]
	cell := models.CellTowerIdentity{MCC: carrier.MCC, MNC: carrier.MNC, LAC: site.LAC, CellID: site.CellID}

	radio := pickRadio(profile.RadioWeights, rng)
	signal := intBetween(rng, profile.SignalMin, profile.SignalMax)
	drops := intBetween(rng, profile.DropsMin, profile.DropsMax)
	uptime := round1(floatBetween(rng, profile.UptimeMin, profile.UptimeMax))

	pos := s.pickPosition(vehicle, profile, rng)

	usedMB := intBetween(rng, profile.DataUsedMinMB, profile.DataUsedMaxMB)
	usage := splitUsage(int64(usedMB)*1024*1024, s.cfg.PlanLimitBytes, rng)

	driving := rng.Float64() < 0.2
	speed := 0
	if driving {
		speed = intBetween(rng, 15, 95)
	}

	lastDisc := intBetween(rng, 300, 10000)
	if tier == models.TierCritical {
		lastDisc = intBetween(rng, 5, 10000)
	}

	rec := models.VehicleConnectivityRecord{
		VehicleID:          vehicle.ID,
		VehicleName:        vehicle.Name,
		HealthTier:         tier,
		Country:            carrier.Country,
		CarrierName:        carrier.Name,
		RadioTechnology:    radio,
		Cell:               cell,
		SignalStrength:     signal,
		IMSI:               fmt.Sprintf("%s%010d", imsiPrefix, seq),
		IMEI:               fmt.Sprintf("%s%08d", imeiPrefix, seq),
		ConnectionDrops:    drops,
		UptimePercent:      uptime,
		LastDisconnectSecs: lastDisc,
		PDPAttempts:        intBetween(rng, profile.PDPAttemptsMin, profile.PDPAttemptsMax),
		PDPSuccesses:       intBetween(rng, profile.PDPSuccessMin, profile.PDPSuccessMax),
		LocationUpdates:    intBetween(rng, profile.LocUpdatesMin, profile.LocUpdatesMax),
		LocationSuccesses:  intBetween(rng, profile.LocSuccessMin, profile.LocSuccessMax),
		SpeedKPH:           speed,
		Driving:            driving,
		Communicating:      true,
		ErrorLog:           s.generateErrorLog(profile, rng),
		ActiveIncidents:    s.generateIncidents(profile, seq, rng),
		Events:             s.generateEvents(profile, radio, cell, seq, rng),
		Usage:              usage,
		Position:           pos,
	}

	if err := rec.Validate(); err != nil {
		return rec, fmt.Errorf("generated record for %s invalid: %w", vehicle.ID, err)
	}
	return rec, nil
}

func (s *Synthesizer) pickPosition(vehicle models.FleetVehicle, profile TierProfile, rng *rand.Rand) models.Position {
	if vehicle.Position != nil {
		return *vehicle.Position
	}
	cluster := s.cfg.Clusters[rng.Intn(len(s.cfg.Clusters))]
	if profile.Cluster != "" {
		for _, cl := range s.cfg.Clusters {
			if cl.Name == profile.Cluster {
				cluster = cl
				break
			}
		}
	}
	return models.Position{
		Latitude:  floatBetween(rng, cluster.Region.MinLat, cluster.Region.MaxLat),
		Longitude: floatBetween(rng, cluster.Region.MinLon, cluster.Region.MaxLon),
	}
}

// generateErrorLog draws a tier-ranged number of error events from the tier's
// code pool, stamped within the error window and returned in chronological
// order.
func (s *Synthesizer) generateErrorLog(profile TierProfile, rng *rand.Rand) []models.ErrorEvent {
	count := intBetween(rng, profile.ErrorCountMin, profile.ErrorCountMax)
	if count == 0 {
		return nil
	}
	events := make([]models.ErrorEvent, 0, count)
	for i := 0; i < count; i++ {
		code := profile.ErrorPool[rng.Intn(len(profile.ErrorPool))]
		events = append(events, models.ErrorEvent{
			Code:        code,
			Timestamp:   s.timestampWithin(s.cfg.ErrorWindow, rng),
			Description: s.cfg.ErrorCatalog[code],
		})
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	return events
}

func (s *Synthesizer) generateIncidents(profile TierProfile, seq int, rng *rand.Rand) []models.Incident {
	count := intBetween(rng, profile.IncidentCountMin, profile.IncidentCountMax)
	if count == 0 {
		return nil
	}
	incidents := make([]models.Incident, 0, count)
	for i := 0; i < count; i++ {
		it := s.cfg.IncidentCatalog[rng.Intn(len(s.cfg.IncidentCatalog))]
		incidents = append(incidents, models.Incident{
			ID:          fmt.Sprintf("INC-%02d-%s", seq, it.Type),
			Type:        it.Type,
			Description: it.Description,
			Severity:    it.Severity,
			Status:      pickStatus(s.cfg.IncidentStatusWeights, rng),
			CreatedAt:   s.timestampWithin(s.cfg.IncidentWindow, rng),
		})
	}
	return incidents
}

// generateEvents emits the signalling event feed for one SIM, newest first,
// carrying the record's own cell identity so the feed cannot contradict the
// diagnostics view.
func (s *Synthesizer) generateEvents(profile TierProfile, radio models.RadioTechnology, cell models.CellTowerIdentity, seq int, rng *rand.Rand) []models.NetworkEvent {
	count := intBetween(rng, profile.EventCountMin, profile.EventCountMax)
	events := make([]models.NetworkEvent, 0, count)
	for i := 0; i < count; i++ {
		events = append(events, models.NetworkEvent{
			ID:         fmt.Sprintf("EVT-%02d-%03d", seq, i),
			Code:       s.cfg.EventCodes[rng.Intn(len(s.cfg.EventCodes))],
			OccurredAt: s.timestampWithin(s.cfg.EventWindow, rng),
			RATType:    radio.RATCode(),
			Cell:       cell,
			RxBytes:    int64(intBetween(rng, 1000, 500000)),
			TxBytes:    int64(intBetween(rng, 1000, 200000)),
		})
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].OccurredAt.After(events[j].OccurredAt)
	})
	return events
}

func (s *Synthesizer) generateTowers(rng *rand.Rand) []models.CellTower {
	radios := []models.RadioTechnology{models.RadioLTE, models.RadioWCDMA, models.RadioGSM}
	towers := make([]models.CellTower, 0, s.cfg.TowerCount)
	for i := 0; i < s.cfg.TowerCount; i++ {
		carrier := s.cfg.Carriers[rng.Intn(len(s.cfg.Carriers))]
		towers = append(towers, models.CellTower{
			Position: models.Position{
				Latitude:  floatBetween(rng, s.cfg.CoverageRegion.MinLat, s.cfg.CoverageRegion.MaxLat),
				Longitude: floatBetween(rng, s.cfg.CoverageRegion.MinLon, s.cfg.CoverageRegion.MaxLon),
			},
			RadioTechnology: radios[rng.Intn(len(radios))],
			CarrierName:     carrier.Name,
			Cell: models.CellTowerIdentity{
				MCC:    carrier.MCC,
				MNC:    carrier.MNC,
				LAC:    fmt.Sprintf("%d", intBetween(rng, 100, 999)),
				CellID: fmt.Sprintf("%d", intBetween(rng, 10000, 65000)),
			},
			WeakCoverage: rng.Float64() < s.cfg.WeakTowerProbability,
		})
	}
	return towers
}

func (s *Synthesizer) timestampWithin(window time.Duration, rng *rand.Rand) time.Time {
	offset := time.Duration(rng.Int63n(int64(window)))
	return s.cfg.ReferenceTime.Add(-offset).Truncate(time.Second)
}

func checkIdentityUniqueness(records []models.VehicleConnectivityRecord) error {
	imsis := make(map[string]struct{}, len(records))
	imeis := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, dup := imsis[r.IMSI]; dup {
			return fmt.Errorf("%w: imsi %s", ErrUniquenessViolation, r.IMSI)
		}
		if _, dup := imeis[r.IMEI]; dup {
			return fmt.Errorf("%w: imei %s", ErrUniquenessViolation, r.IMEI)
		}
		imsis[r.IMSI] = struct{}{}
		imeis[r.IMEI] = struct{}{}
	}
	return nil
}

func pickRadio(weights []RadioWeight, rng *rand.Rand) models.RadioTechnology {
	total := 0
	for _, w := range weights {
		total += w.Weight
	}
	roll := rng.Intn(total)
	for _, w := range weights {
		roll -= w.Weight
		if roll < 0 {
			return w.Technology
		}
	}
	return weights[len(weights)-1].Technology
}

func pickStatus(weights []StatusWeight, rng *rand.Rand) models.IncidentStatus {
	total := 0
	for _, w := range weights {
		total += w.Weight
	}
	roll := rng.Intn(total)
	for _, w := range weights {
		roll -= w.Weight
		if roll < 0 {
			return w.Status
		}
	}
	return weights[len(weights)-1].Status
}

func splitUsage(usedBytes, planBytes int64, rng *rand.Rand) models.DataUsage {
	downShare := floatBetween(rng, 0.65, 0.85)
	down := int64(float64(usedBytes) * downShare)
	return models.DataUsage{
		DownloadedBytes: down,
		UploadedBytes:   usedBytes - down,
		PlanLimitBytes:  planBytes,
	}
}

// intBetween returns a uniform int in [min, max].
func intBetween(rng *rand.Rand, min, max int) int {
	if min >= max {
		return min
	}
	return min + rng.Intn(max-min+1)
}

func floatBetween(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
