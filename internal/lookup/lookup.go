// Package lookup answers free-text fleet questions by matching the query
// against the snapshot. Matching is exact/substring only; the assistant UI
// owns any natural-language dressing on top.
package lookup

import (
	"fmt"
	"strings"

	"github.com/fleetintel/connectivity-intel/internal/models"
)

// Match pairs a matched record with the field that matched, so the UI can
// highlight why a vehicle was returned.
type Match struct {
	Record    models.VehicleConnectivityRecord `json:"record"`
	MatchedOn string                           `json:"matchedOn"`
}

// Result is the full answer to one lookup query.
type Result struct {
	Query   string  `json:"query"`
	Matches []Match `json:"matches"`
	Answer  string  `json:"answer"`
}

// Tier and radio keywords recognized anywhere in a query.
var tierKeywords = map[string]models.HealthTier{
	"healthy":  models.TierHealthy,
	"minor":    models.TierMinor,
	"warning":  models.TierWarning,
	"critical": models.TierCritical,
}

var radioKeywords = map[string]models.RadioTechnology{
	"lte":   models.RadioLTE,
	"4g":    models.RadioLTE,
	"wcdma": models.RadioWCDMA,
	"3g":    models.RadioWCDMA,
	"gsm":   models.RadioGSM,
	"2g":    models.RadioGSM,
}

// Query matches q against the snapshot and returns all matching records in
// fleet order. Tier and radio keywords act as filters; any other token is
// substring-matched against name, IMSI, IMEI, carrier, and country.
func Query(snapshot *models.FleetSnapshot, q string) Result {
	result := Result{Query: q}
	trimmed := strings.TrimSpace(strings.ToLower(q))
	if trimmed == "" {
		result.Answer = "Ask about a vehicle name, IMSI, IMEI, carrier, country, tier, or radio technology."
		return result
	}

	var tierFilter *models.HealthTier
	var radioFilter *models.RadioTechnology
	var terms []string
	for _, token := range strings.Fields(trimmed) {
		if tier, ok := tierKeywords[token]; ok {
			t := tier
			tierFilter = &t
			continue
		}
		if radio, ok := radioKeywords[token]; ok {
			r := radio
			radioFilter = &r
			continue
		}
		terms = append(terms, token)
	}

	for _, rec := range snapshot.Vehicles {
		if tierFilter != nil && rec.HealthTier != *tierFilter {
			continue
		}
		if radioFilter != nil && rec.RadioTechnology != *radioFilter {
			continue
		}
		if len(terms) == 0 {
			field := "healthTier"
			if radioFilter != nil {
				field = "radioTechnology"
			}
			result.Matches = append(result.Matches, Match{Record: rec, MatchedOn: field})
			continue
		}
		if field, ok := matchTerms(rec, terms); ok {
			result.Matches = append(result.Matches, Match{Record: rec, MatchedOn: field})
		}
	}

	result.Answer = answerFor(trimmed, result.Matches)
	return result
}

// matchTerms requires every term to match some field; the reported field is
// the one the first term hit.
func matchTerms(rec models.VehicleConnectivityRecord, terms []string) (string, bool) {
	firstField := ""
	for i, term := range terms {
		field, ok := matchTerm(rec, term)
		if !ok {
			return "", false
		}
		if i == 0 {
			firstField = field
		}
	}
	return firstField, true
}

func matchTerm(rec models.VehicleConnectivityRecord, term string) (string, bool) {
	fields := []struct {
		name  string
		value string
	}{
		{"vehicleName", rec.VehicleName},
		{"imsi", rec.IMSI},
		{"imei", rec.IMEI},
		{"carrier", rec.CarrierName},
		{"country", rec.Country},
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f.value), term) {
			return f.name, true
		}
	}
	return "", false
}

func answerFor(query string, matches []Match) string {
	switch len(matches) {
	case 0:
		return fmt.Sprintf("No vehicles match %q.", query)
	case 1:
		rec := matches[0].Record
		return fmt.Sprintf("%s: %s tier, %s on %s (%s), signal %d dBm, %d drops, uptime %.1f%%, %d errors logged.",
			rec.VehicleName, rec.HealthTier, rec.RadioTechnology, rec.CarrierName, rec.Country,
			rec.SignalStrength, rec.ConnectionDrops, rec.UptimePercent, len(rec.ErrorLog))
	default:
		return fmt.Sprintf("%d vehicles match %q.", len(matches), query)
	}
}
