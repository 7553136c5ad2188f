// Package analysis runs the geospatial aggregations over the stored
// datasets: proximity lookups, heat maps, hotspot detection, venue risk
// scoring and trend bucketing. Everything here is read-only except the
// risk-score backfill.
package analysis

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/wcsec/go-venue-intel/internal/geo"
	"github.com/wcsec/go-venue-intel/internal/models"
	"github.com/wcsec/go-venue-intel/internal/repository"
)

const (
	// DefaultRadiusKM bounds proximity queries when the caller gives none.
	DefaultRadiusKM = 50.0

	// HotspotGridSize is the fixed cell size for hotspot detection,
	// tighter than the default heat-map grid.
	HotspotGridSize = 0.5

	// DefaultMinIncidents is the hotspot occupancy threshold.
	DefaultMinIncidents = 3

	topN = 5
)

type Analyzer struct {
	store repository.Store
}

func NewAnalyzer(store repository.Store) *Analyzer {
	return &Analyzer{store: store}
}

// IncidentMatch is one incident within range of a venue.
type IncidentMatch struct {
	Incident   models.Incident
	DistanceKM float64
}

// NearbyIncidents returns the incidents within radiusKM of the venue,
// closest first. radiusKM <= 0 falls back to DefaultRadiusKM.
func (a *Analyzer) NearbyIncidents(ctx context.Context, venueID int64, radiusKM float64) (*models.Venue, []IncidentMatch, error) {
	venue, err := a.store.GetVenue(ctx, venueID)
	if err != nil {
		return nil, nil, fmt.Errorf("error fetching venue: %w", err)
	}
	if venue == nil {
		return nil, nil, nil
	}
	if radiusKM <= 0 {
		radiusKM = DefaultRadiusKM
	}

	incidents, err := a.store.ListIncidents(ctx, repository.IncidentFilter{GeocodedOnly: true})
	if err != nil {
		return nil, nil, fmt.Errorf("error listing incidents: %w", err)
	}

	matches := geo.Nearby(venue.Latitude, venue.Longitude, incidentPtrs(incidents), radiusKM)
	out := make([]IncidentMatch, 0, len(matches))
	for _, m := range matches {
		out = append(out, IncidentMatch{Incident: *m.Event, DistanceKM: m.DistanceKM})
	}
	return venue, out, nil
}

// HeatMap bins geocoded incidents and seizures onto a gridSize-degree
// grid. gridSize <= 0 falls back to the package default.
func (a *Analyzer) HeatMap(ctx context.Context, gridSize float64) ([]geo.Cell, error) {
	incidents, err := a.store.ListIncidents(ctx, repository.IncidentFilter{GeocodedOnly: true})
	if err != nil {
		return nil, fmt.Errorf("error listing incidents: %w", err)
	}
	seizures, err := a.store.ListSeizures(ctx, repository.SeizureFilter{})
	if err != nil {
		return nil, fmt.Errorf("error listing seizures: %w", err)
	}

	events := make([]geo.Counted, 0, len(incidents)+len(seizures))
	for i := range incidents {
		events = append(events, &incidents[i])
	}
	for i := range seizures {
		events = append(events, &seizures[i])
	}
	return geo.HeatMap(events, gridSize), nil
}

// Hotspots bins incidents onto the 0.5-degree hotspot grid and keeps
// cells holding at least minIncidents events.
func (a *Analyzer) Hotspots(ctx context.Context, minIncidents int) ([]geo.Cell, error) {
	if minIncidents <= 0 {
		minIncidents = DefaultMinIncidents
	}

	incidents, err := a.store.ListIncidents(ctx, repository.IncidentFilter{GeocodedOnly: true})
	if err != nil {
		return nil, fmt.Errorf("error listing incidents: %w", err)
	}

	cells := geo.HeatMap(incidentPtrs(incidents), HotspotGridSize)
	out := make([]geo.Cell, 0, len(cells))
	for _, c := range cells {
		if c.Count >= minIncidents {
			out = append(out, c)
		}
	}
	return out, nil
}

// ClosestRecord annotates a venue assessment with the nearest agency.
type ClosestRecord struct {
	AgencyName string  `json:"agency_name"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	DistanceKM float64 `json:"distance_km"`
}

// VenueRisk is the scored crime exposure of one venue.
type VenueRisk struct {
	VenueID       int64              `json:"venue_id"`
	VenueName     string             `json:"venue_name"`
	City          string             `json:"city"`
	Country       string             `json:"country"`
	Latitude      float64            `json:"latitude"`
	Longitude     float64            `json:"longitude"`
	Score         float64            `json:"score"`
	Category      string             `json:"category"`
	TotalOffenses int                `json:"total_offenses"`
	RecordCount   int                `json:"record_count"`
	OffenseCounts map[string]float64 `json:"offense_counts"`
	Closest       *ClosestRecord     `json:"closest_record,omitempty"`
}

// RiskAssessment scores every venue against the crime records within
// radiusKM of it, highest score first. Venues with no records in range
// score zero.
func (a *Analyzer) RiskAssessment(ctx context.Context, radiusKM float64) ([]VenueRisk, error) {
	if radiusKM <= 0 {
		radiusKM = DefaultRadiusKM
	}

	venues, err := a.store.ListVenues(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing venues: %w", err)
	}
	records, err := a.store.ListCrimeRecords(ctx, repository.CrimeFilter{})
	if err != nil {
		return nil, fmt.Errorf("error listing crime records: %w", err)
	}

	recordPtrs := make([]*models.CrimeRecord, len(records))
	for i := range records {
		recordPtrs[i] = &records[i]
	}

	out := make([]VenueRisk, 0, len(venues))
	for _, v := range venues {
		matches := geo.Nearby(v.Latitude, v.Longitude, recordPtrs, radiusKM)

		sums := make(map[string]float64)
		var total int
		for _, m := range matches {
			total += m.Event.TotalOffenses
			for name, c := range m.Event.Counts() {
				sums[name] += c
			}
		}

		vr := VenueRisk{
			VenueID:       v.ID,
			VenueName:     v.Name,
			City:          v.City,
			Country:       v.Country,
			Latitude:      v.Latitude,
			Longitude:     v.Longitude,
			Score:         geo.Score(sums, float64(total), nil),
			TotalOffenses: total,
			RecordCount:   len(matches),
			OffenseCounts: sums,
		}
		vr.Category = geo.Category(vr.Score)
		if len(matches) > 0 {
			closest := matches[0]
			vr.Closest = &ClosestRecord{
				AgencyName: closest.Event.AgencyName,
				City:       closest.Event.City,
				State:      closest.Event.State,
				DistanceKM: closest.DistanceKM,
			}
		}
		out = append(out, vr)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

// TrendPoint is one year-month bucket of incident activity.
type TrendPoint struct {
	Month     string `json:"month"` // "2024-03"
	Incidents int    `json:"incidents"`
	Dead      int    `json:"dead"`
	Missing   int    `json:"missing"`
}

// Trends buckets incidents by year-month over [start, end]. Zero start
// and end leave the range unbounded. Undated incidents are skipped.
func (a *Analyzer) Trends(ctx context.Context, start, end time.Time) ([]TrendPoint, error) {
	filter := repository.IncidentFilter{}
	if !start.IsZero() {
		filter.Since = &start
	}
	if !end.IsZero() {
		filter.Until = &end
	}

	incidents, err := a.store.ListIncidents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing incidents: %w", err)
	}

	buckets := make(map[string]*TrendPoint)
	for i := range incidents {
		in := &incidents[i]
		if in.Year == 0 {
			continue
		}
		key := fmt.Sprintf("%04d-%02d", in.Year, in.Month)
		p := buckets[key]
		if p == nil {
			p = &TrendPoint{Month: key}
			buckets[key] = p
		}
		p.Incidents++
		p.Dead += in.Dead
		p.Missing += in.Missing
	}

	out := make([]TrendPoint, 0, len(buckets))
	for _, p := range buckets {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

// NameCount is a ranked label, used by the summary top-N lists.
type NameCount struct {
	Name  string  `json:"name"`
	Count float64 `json:"count"`
}

// Summary is the dashboard overview: dataset totals, top regions and
// drug types, densest hotspots and highest-risk venues.
type Summary struct {
	Venues             int         `json:"venues"`
	Incidents          int         `json:"incidents"`
	Seizures           int         `json:"seizures"`
	CrimeRecords       int         `json:"crime_records"`
	TotalDead          int         `json:"total_dead"`
	TotalMissing       int         `json:"total_missing"`
	TotalSeizureEvents int         `json:"total_seizure_events"`
	TotalQuantityLbs   float64     `json:"total_quantity_lbs"`
	TopRegions         []NameCount `json:"top_regions"`
	TopDrugTypes       []NameCount `json:"top_drug_types"`
	TopHotspots        []geo.Cell  `json:"top_hotspots"`
	HighRiskVenues     []VenueRisk `json:"high_risk_venues"`
}

func (a *Analyzer) Summary(ctx context.Context) (*Summary, error) {
	venues, err := a.store.ListVenues(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing venues: %w", err)
	}
	incidents, err := a.store.ListIncidents(ctx, repository.IncidentFilter{})
	if err != nil {
		return nil, fmt.Errorf("error listing incidents: %w", err)
	}
	seizures, err := a.store.ListSeizures(ctx, repository.SeizureFilter{})
	if err != nil {
		return nil, fmt.Errorf("error listing seizures: %w", err)
	}
	records, err := a.store.ListCrimeRecords(ctx, repository.CrimeFilter{})
	if err != nil {
		return nil, fmt.Errorf("error listing crime records: %w", err)
	}

	s := &Summary{
		Venues:       len(venues),
		Incidents:    len(incidents),
		Seizures:     len(seizures),
		CrimeRecords: len(records),
	}

	regions := make(map[string]float64)
	for i := range incidents {
		s.TotalDead += incidents[i].Dead
		s.TotalMissing += incidents[i].Missing
		if incidents[i].Region != "" {
			regions[incidents[i].Region]++
		}
	}
	s.TopRegions = topCounts(regions, topN)

	drugs := make(map[string]float64)
	for i := range seizures {
		s.TotalSeizureEvents += seizures[i].EventCount
		s.TotalQuantityLbs += seizures[i].QuantityLbs
		if seizures[i].DrugType != "" {
			drugs[seizures[i].DrugType] += seizures[i].QuantityLbs
		}
	}
	s.TopDrugTypes = topCounts(drugs, topN)

	hotspots, err := a.Hotspots(ctx, DefaultMinIncidents)
	if err != nil {
		return nil, err
	}
	if len(hotspots) > topN {
		hotspots = hotspots[:topN]
	}
	s.TopHotspots = hotspots

	risks, err := a.RiskAssessment(ctx, DefaultRadiusKM)
	if err != nil {
		return nil, err
	}
	if len(risks) > topN {
		risks = risks[:topN]
	}
	s.HighRiskVenues = risks

	return s, nil
}

// BackfillRiskScores computes composite scores for crime records that
// have none yet and writes them back. Returns the number of rows updated.
func (a *Analyzer) BackfillRiskScores(ctx context.Context) (int64, error) {
	records, err := a.store.ListCrimeRecords(ctx, repository.CrimeFilter{Unscored: true})
	if err != nil {
		return 0, fmt.Errorf("error listing unscored records: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	scores := make(map[string]float64, len(records))
	for i := range records {
		c := &records[i]
		scores[c.ID] = geo.Score(c.Counts(), float64(c.TotalOffenses), nil)
	}

	updated, err := a.store.UpdateRiskScores(ctx, scores)
	if err != nil {
		return 0, fmt.Errorf("error updating risk scores: %w", err)
	}
	return updated, nil
}

func incidentPtrs(incidents []models.Incident) []*models.Incident {
	ptrs := make([]*models.Incident, len(incidents))
	for i := range incidents {
		ptrs[i] = &incidents[i]
	}
	return ptrs
}

func topCounts(m map[string]float64, n int) []NameCount {
	out := make([]NameCount, 0, len(m))
	for name, c := range m {
		out = append(out, NameCount{Name: name, Count: c})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
