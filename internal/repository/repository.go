package repository

import (
	"context"
	"time"

	"github.com/wcsec/go-venue-intel/internal/models"
)

// IncidentFilter narrows incident listings. Pointer fields are optional;
// Limit <= 0 means no limit.
type IncidentFilter struct {
	Limit  int
	Region *string
	Since  *time.Time
	Until  *time.Time
	// GeocodedOnly drops rows without coordinates. The aggregation
	// routines skip them anyway; this just avoids shipping them around.
	GeocodedOnly bool
}

// SeizureFilter narrows seizure listings.
type SeizureFilter struct {
	Limit       int
	DrugType    *string
	FiscalYear  *int
	FieldOffice *string
}

// CrimeFilter narrows crime-record listings.
type CrimeFilter struct {
	Limit    int
	Year     *int
	State    *string
	MinRisk  *float64
	Unscored bool // only rows whose risk score has not been backfilled
}

type VenueRepository interface {
	AddVenue(ctx context.Context, v *models.Venue) error
	GetVenue(ctx context.Context, id int64) (*models.Venue, error)
	ListVenues(ctx context.Context) ([]models.Venue, error)
}

type IncidentRepository interface {
	AddIncident(ctx context.Context, in *models.Incident) error
	IncidentExists(ctx context.Context, id string) (bool, error)
	ListIncidents(ctx context.Context, f IncidentFilter) ([]models.Incident, error)
}

type SeizureRepository interface {
	AddSeizure(ctx context.Context, s *models.Seizure) error
	SeizureExists(ctx context.Context, id string) (bool, error)
	ListSeizures(ctx context.Context, f SeizureFilter) ([]models.Seizure, error)
}

type CrimeRepository interface {
	AddCrimeRecord(ctx context.Context, c *models.CrimeRecord) error
	ListCrimeRecords(ctx context.Context, f CrimeFilter) ([]models.CrimeRecord, error)
	// UpdateRiskScores writes backfilled composite scores keyed by record
	// ID and reports the number of rows updated. This is the only write
	// path the analysis layer has.
	UpdateRiskScores(ctx context.Context, scores map[string]float64) (int64, error)
}

// Store bundles the dataset repositories the way the sqlite
// implementation provides them.
type Store interface {
	VenueRepository
	IncidentRepository
	SeizureRepository
	CrimeRepository
}
