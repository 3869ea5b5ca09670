// Package export writes CSV projections of a fleet snapshot. Field values
// are taken verbatim from the records, so an exported row always matches
// what the interactive views show for the same vehicle.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/fleetintel/connectivity-intel/internal/models"
)

// View names a column projection.
type View string

const (
	// ViewIdentifiers exports the SIM/modem identity columns.
	ViewIdentifiers View = "identifiers"
	// ViewDiagnostics exports the connection quality columns.
	ViewDiagnostics View = "diagnostics"
	// ViewUsage exports the data plan columns.
	ViewUsage View = "usage"
)

// Valid reports whether v names a known projection.
func (v View) Valid() bool {
	switch v {
	case ViewIdentifiers, ViewDiagnostics, ViewUsage:
		return true
	}
	return false
}

// Filter restricts which vehicles are exported. Zero values match everything.
type Filter struct {
	Tier    models.HealthTier
	Carrier string
}

func (f Filter) matches(rec models.VehicleConnectivityRecord) bool {
	if f.Tier != "" && rec.HealthTier != f.Tier {
		return false
	}
	if f.Carrier != "" && rec.CarrierName != f.Carrier {
		return false
	}
	return true
}

// Write renders the selected view of the snapshot as CSV, in fleet order.
func Write(w io.Writer, snapshot *models.FleetSnapshot, view View, filter Filter) error {
	header, row, err := projection(view)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for _, rec := range snapshot.Vehicles {
		if !filter.matches(rec) {
			continue
		}
		if err := cw.Write(row(rec)); err != nil {
			return fmt.Errorf("export: write row for %s: %w", rec.VehicleID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename suggests a download name for the given view and filter.
func Filename(view View, filter Filter) string {
	name := "fleet_" + string(view)
	if filter.Tier != "" {
		name += "_" + string(filter.Tier)
	}
	if filter.Carrier != "" {
		name += "_" + sanitize(filter.Carrier)
	}
	return name + ".csv"
}

func projection(view View) ([]string, func(models.VehicleConnectivityRecord) []string, error) {
	switch view {
	case ViewIdentifiers:
		header := []string{"vehicle_id", "vehicle_name", "tier", "imsi", "imei", "carrier", "country"}
		return header, func(r models.VehicleConnectivityRecord) []string {
			return []string{r.VehicleID, r.VehicleName, string(r.HealthTier), r.IMSI, r.IMEI, r.CarrierName, r.Country}
		}, nil
	case ViewDiagnostics:
		header := []string{"vehicle_name", "tier", "carrier", "radio", "cell", "signal_dbm", "drops", "uptime_pct", "error_count"}
		return header, func(r models.VehicleConnectivityRecord) []string {
			return []string{
				r.VehicleName,
				string(r.HealthTier),
				r.CarrierName,
				string(r.RadioTechnology),
				r.Cell.String(),
				strconv.Itoa(r.SignalStrength),
				strconv.Itoa(r.ConnectionDrops),
				strconv.FormatFloat(r.UptimePercent, 'f', 1, 64),
				strconv.Itoa(len(r.ErrorLog)),
			}
		}, nil
	case ViewUsage:
		header := []string{"vehicle_name", "imsi", "carrier", "downloaded_bytes", "uploaded_bytes", "plan_limit_bytes", "balance_pct", "near_limit"}
		return header, func(r models.VehicleConnectivityRecord) []string {
			return []string{
				r.VehicleName,
				r.IMSI,
				r.CarrierName,
				strconv.FormatInt(r.Usage.DownloadedBytes, 10),
				strconv.FormatInt(r.Usage.UploadedBytes, 10),
				strconv.FormatInt(r.Usage.PlanLimitBytes, 10),
				strconv.FormatFloat(r.Usage.BalancePercent(), 'f', 1, 64),
				strconv.FormatBool(r.Usage.NearLimit()),
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("export: unknown view %q", view)
	}
}

func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
