package models

import "time"

// Incident is a migration incident from the IOM Missing Migrants dataset.
// Coordinates are nullable: many rows carry only a textual location, and
// those are excluded from spatial aggregation.
type Incident struct {
	ID                  string // source ID (e.g., "iom_2024.MMP00123")
	Type                string // "migration_incident"
	Date                time.Time
	Year                int
	Month               int
	Latitude            *float64
	Longitude           *float64
	LocationDescription string
	Region              string
	Dead                int
	Missing             int
	Survivors           int
	CauseOfDeath        string
	SourceQuality       string // "verified", "unverified", "estimated"
	Raw                 []byte // original CSV row for debugging
	CreatedAt           time.Time
}

func (i *Incident) Coordinates() (lat, lon float64, ok bool) {
	if i.Latitude == nil || i.Longitude == nil {
		return 0, 0, false
	}
	return *i.Latitude, *i.Longitude, true
}

// Counts exposes the casualty counters tracked by the heat map binner.
func (i *Incident) Counts() map[string]float64 {
	return map[string]float64{
		"dead":    float64(i.Dead),
		"missing": float64(i.Missing),
	}
}
