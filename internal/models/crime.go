package models

import "time"

// CrimeRecord is one NIBRS agency-year row: total offenses plus the
// per-category counters that feed the risk scorer. RiskScore is nil until
// the batch backfill computes it.
type CrimeRecord struct {
	ID                string // "nibrs_<year>_<agency>"
	AgencyName        string
	City              string
	State             string
	Year              int
	Latitude          *float64
	Longitude         *float64
	TotalOffenses     int
	Homicides         int
	AggravatedAssault int
	Rape              int
	Robbery           int
	Kidnapping        int
	HumanTrafficking  int
	DrugNarcotic      int
	Burglary          int
	RiskScore         *float64
	CreatedAt         time.Time
}

func (c *CrimeRecord) Coordinates() (lat, lon float64, ok bool) {
	if c.Latitude == nil || c.Longitude == nil {
		return 0, 0, false
	}
	return *c.Latitude, *c.Longitude, true
}

// Counts exposes the offense counters keyed by the canonical names the
// risk weight table uses.
func (c *CrimeRecord) Counts() map[string]float64 {
	return map[string]float64{
		"homicide":           float64(c.Homicides),
		"aggravated_assault": float64(c.AggravatedAssault),
		"rape":               float64(c.Rape),
		"robbery":            float64(c.Robbery),
		"kidnapping":         float64(c.Kidnapping),
		"human_trafficking":  float64(c.HumanTrafficking),
		"drug_narcotic":      float64(c.DrugNarcotic),
		"burglary":           float64(c.Burglary),
	}
}
