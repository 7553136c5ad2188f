package models

import "time"

// Venue is a World Cup 2026 stadium against which incident and crime
// proximity is measured.
type Venue struct {
	ID            int64
	Name          string
	City          string
	StateProvince string
	Country       string
	Latitude      float64
	Longitude     float64
	Capacity      int
	HostMatches   int
	CreatedAt     time.Time
}

// Coordinates reports the venue location. Venues are geocoded at load
// time, so ok is always true.
func (v *Venue) Coordinates() (lat, lon float64, ok bool) {
	return v.Latitude, v.Longitude, true
}
