package views

import (
	"sort"
	"time"

	"github.com/fleetintel/connectivity-intel/internal/models"
)

// ErrorFeedEntry is one row of the fleet-wide network error log, carrying
// enough vehicle context to render without a second lookup.
type ErrorFeedEntry struct {
	Timestamp       time.Time              `json:"timestamp"`
	VehicleID       string                 `json:"vehicleId"`
	VehicleName     string                 `json:"vehicleName"`
	IMSI            string                 `json:"imsi"`
	IMEI            string                 `json:"imei"`
	CarrierName     string                 `json:"carrier"`
	Country         string                 `json:"country"`
	RadioTechnology models.RadioTechnology `json:"radioTechnology"`
	Code            string                 `json:"errCode"`
	Description     string                 `json:"errDesc"`
	Cell            string                 `json:"cell"`
	Tier            models.HealthTier      `json:"tier"`
}

// ErrorFeed flattens every vehicle's error log into one feed, most recent
// first. Entries are projected straight from the records; the feed holds no
// data of its own.
func ErrorFeed(snapshot *models.FleetSnapshot) []ErrorFeedEntry {
	var feed []ErrorFeedEntry
	for _, rec := range snapshot.Vehicles {
		for _, ev := range rec.ErrorLog {
			feed = append(feed, ErrorFeedEntry{
				Timestamp:       ev.Timestamp,
				VehicleID:       rec.VehicleID,
				VehicleName:     rec.VehicleName,
				IMSI:            rec.IMSI,
				IMEI:            rec.IMEI,
				CarrierName:     rec.CarrierName,
				Country:         rec.Country,
				RadioTechnology: rec.RadioTechnology,
				Code:            ev.Code,
				Description:     ev.Description,
				Cell:            rec.Cell.String(),
				Tier:            rec.HealthTier,
			})
		}
	}
	sort.SliceStable(feed, func(i, j int) bool {
		if !feed[i].Timestamp.Equal(feed[j].Timestamp) {
			return feed[i].Timestamp.After(feed[j].Timestamp)
		}
		return feed[i].VehicleName < feed[j].VehicleName
	})
	return feed
}
