package models

import "time"

// Seizure is a CBP drug seizure aggregate row (one per fiscal year, month,
// field office, and drug type). Coordinates come from the field-office
// location table, not the raw data, so they can be absent.
type Seizure struct {
	ID          string // dedupe key: fy_month_component_office_drug
	FiscalYear  int
	Month       string // "JAN".."DEC" as published
	MonthNumber int    // 1-12 for sorting
	Component   string // "Office of Field Operations", "U.S. Border Patrol"
	FieldOffice string
	DrugType    string
	EventCount  int
	QuantityLbs float64
	Latitude    *float64
	Longitude   *float64
	City        string
	State       string
	CreatedAt   time.Time
}

func (s *Seizure) Coordinates() (lat, lon float64, ok bool) {
	if s.Latitude == nil || s.Longitude == nil {
		return 0, 0, false
	}
	return *s.Latitude, *s.Longitude, true
}

func (s *Seizure) Counts() map[string]float64 {
	return map[string]float64{
		"events":       float64(s.EventCount),
		"quantity_lbs": s.QuantityLbs,
	}
}
