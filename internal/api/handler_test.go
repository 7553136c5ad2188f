package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/wcsec/go-venue-intel/internal/analysis"
	"github.com/wcsec/go-venue-intel/internal/models"
	"github.com/wcsec/go-venue-intel/internal/repository"
)

// mockStore implements repository.Store over in-memory slices
type mockStore struct {
	venues    []models.Venue
	incidents []models.Incident
	seizures  []models.Seizure
	records   []models.CrimeRecord
}

func (m *mockStore) AddVenue(ctx context.Context, v *models.Venue) error { return nil }

func (m *mockStore) GetVenue(ctx context.Context, id int64) (*models.Venue, error) {
	for i := range m.venues {
		if m.venues[i].ID == id {
			return &m.venues[i], nil
		}
	}
	return nil, nil
}

func (m *mockStore) ListVenues(ctx context.Context) ([]models.Venue, error) {
	return m.venues, nil
}

func (m *mockStore) AddIncident(ctx context.Context, in *models.Incident) error { return nil }

func (m *mockStore) IncidentExists(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func (m *mockStore) ListIncidents(ctx context.Context, f repository.IncidentFilter) ([]models.Incident, error) {
	results := m.incidents

	if f.Region != nil {
		var filtered []models.Incident
		for _, in := range results {
			if in.Region == *f.Region {
				filtered = append(filtered, in)
			}
		}
		results = filtered
	}
	if f.GeocodedOnly {
		var filtered []models.Incident
		for _, in := range results {
			if in.Latitude != nil && in.Longitude != nil {
				filtered = append(filtered, in)
			}
		}
		results = filtered
	}
	if f.Limit > 0 && len(results) > f.Limit {
		results = results[:f.Limit]
	}

	return results, nil
}

func (m *mockStore) AddSeizure(ctx context.Context, s *models.Seizure) error { return nil }

func (m *mockStore) SeizureExists(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func (m *mockStore) ListSeizures(ctx context.Context, f repository.SeizureFilter) ([]models.Seizure, error) {
	results := m.seizures

	if f.DrugType != nil {
		var filtered []models.Seizure
		for _, s := range results {
			if s.DrugType == *f.DrugType {
				filtered = append(filtered, s)
			}
		}
		results = filtered
	}
	if f.Limit > 0 && len(results) > f.Limit {
		results = results[:f.Limit]
	}

	return results, nil
}

func (m *mockStore) AddCrimeRecord(ctx context.Context, c *models.CrimeRecord) error { return nil }

func (m *mockStore) ListCrimeRecords(ctx context.Context, f repository.CrimeFilter) ([]models.CrimeRecord, error) {
	results := m.records

	if f.MinRisk != nil {
		var filtered []models.CrimeRecord
		for _, c := range results {
			if c.RiskScore != nil && *c.RiskScore >= *f.MinRisk {
				filtered = append(filtered, c)
			}
		}
		results = filtered
	}
	if f.Limit > 0 && len(results) > f.Limit {
		results = results[:f.Limit]
	}

	return results, nil
}

func (m *mockStore) UpdateRiskScores(ctx context.Context, scores map[string]float64) (int64, error) {
	return 0, nil
}

func coord(v float64) *float64 { return &v }

func setupTestRouter(store repository.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(store, analysis.NewAnalyzer(store))
	handler.RegisterRoutes(router)
	return router
}

func TestHealth(t *testing.T) {
	router := setupTestRouter(&mockStore{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %s", resp["status"])
	}
}

func TestGetIncidents_ReturnsGeoJSON(t *testing.T) {
	store := &mockStore{
		incidents: []models.Incident{
			{ID: "iom_1", Type: "migration_incident", Region: "Central America", Latitude: coord(19.0), Longitude: coord(-99.0), Dead: 2},
			{ID: "iom_nocoords", Type: "migration_incident", Region: "Mediterranean"},
		},
	}

	router := setupTestRouter(store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/incidents", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	contentType := w.Header().Get("Content-Type")
	if contentType != "application/geo+json" {
		t.Errorf("expected content-type application/geo+json, got %s", contentType)
	}

	var fc FeatureCollection
	if err := json.Unmarshal(w.Body.Bytes(), &fc); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if fc.Type != "FeatureCollection" {
		t.Errorf("expected type FeatureCollection, got %s", fc.Type)
	}

	// Ungeocoded incidents don't make it onto the map layer
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}

	geom := fc.Features[0].Geometry
	if geom.Coordinates[0] != -99.0 || geom.Coordinates[1] != 19.0 {
		t.Errorf("expected [lon, lat] ordering, got %v", geom.Coordinates)
	}
}

func TestGetIncidents_RegionFilter(t *testing.T) {
	store := &mockStore{
		incidents: []models.Incident{
			{ID: "a", Region: "Central America", Latitude: coord(19.0), Longitude: coord(-99.0)},
			{ID: "b", Region: "Mediterranean", Latitude: coord(35.0), Longitude: coord(12.0)},
			{ID: "c", Region: "Central America", Latitude: coord(20.0), Longitude: coord(-98.0)},
		},
	}

	router := setupTestRouter(store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/incidents?region=Central+America", nil)
	router.ServeHTTP(w, req)

	var fc FeatureCollection
	json.Unmarshal(w.Body.Bytes(), &fc)

	if len(fc.Features) != 2 {
		t.Errorf("expected 2 features, got %d", len(fc.Features))
	}
}

func TestGetSeizures_DrugTypeFilter(t *testing.T) {
	store := &mockStore{
		seizures: []models.Seizure{
			{ID: "z1", DrugType: "Fentanyl", Latitude: coord(31.76), Longitude: coord(-106.49)},
			{ID: "z2", DrugType: "Marijuana", Latitude: coord(32.72), Longitude: coord(-117.16)},
		},
	}

	router := setupTestRouter(store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/seizures?drug_type=Fentanyl", nil)
	router.ServeHTTP(w, req)

	var fc FeatureCollection
	json.Unmarshal(w.Body.Bytes(), &fc)

	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}
	if fc.Features[0].Properties["drug_type"] != "Fentanyl" {
		t.Errorf("unexpected properties: %v", fc.Features[0].Properties)
	}
}

func TestGetVenues(t *testing.T) {
	store := &mockStore{
		venues: []models.Venue{
			{ID: 1, Name: "Estadio Azteca", City: "Mexico City", Country: "Mexico", Latitude: 19.3029, Longitude: -99.1505},
		},
	}

	router := setupTestRouter(store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/venues", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Count  int              `json:"count"`
		Venues []map[string]any `json:"venues"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Count != 1 || len(resp.Venues) != 1 {
		t.Fatalf("expected 1 venue, got %d", resp.Count)
	}
	if resp.Venues[0]["name"] != "Estadio Azteca" {
		t.Errorf("unexpected venue: %v", resp.Venues[0])
	}
}

func TestGetVenueNearby(t *testing.T) {
	store := &mockStore{
		venues: []models.Venue{
			{ID: 1, Name: "Estadio Azteca", Latitude: 19.3029, Longitude: -99.1505},
		},
		incidents: []models.Incident{
			{ID: "iom_near", Latitude: coord(19.31), Longitude: coord(-99.15)},
			{ID: "iom_far", Latitude: coord(45.0), Longitude: coord(-75.0)},
		},
	}

	router := setupTestRouter(store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/venues/1/nearby?radius=25", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		RadiusKM  float64          `json:"radius_km"`
		Count     int              `json:"count"`
		Incidents []map[string]any `json:"incidents"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.RadiusKM != 25 {
		t.Errorf("expected radius 25, got %f", resp.RadiusKM)
	}
	if resp.Count != 1 {
		t.Fatalf("expected 1 incident in range, got %d", resp.Count)
	}
	if resp.Incidents[0]["id"] != "iom_near" {
		t.Errorf("unexpected incident: %v", resp.Incidents[0])
	}
	if _, ok := resp.Incidents[0]["distance_km"]; !ok {
		t.Error("expected distance_km on match")
	}
}

func TestGetVenueNearby_NotFound(t *testing.T) {
	router := setupTestRouter(&mockStore{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/venues/99/nearby", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestGetVenueNearby_BadID(t *testing.T) {
	router := setupTestRouter(&mockStore{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/venues/abc/nearby", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestGetCrime_MinRiskFilter(t *testing.T) {
	low, high := 20.0, 80.0
	store := &mockStore{
		records: []models.CrimeRecord{
			{ID: "nibrs_low", RiskScore: &low},
			{ID: "nibrs_high", RiskScore: &high},
			{ID: "nibrs_unscored"},
		},
	}

	router := setupTestRouter(store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/crime?min_risk=50", nil)
	router.ServeHTTP(w, req)

	var resp struct {
		Count   int              `json:"count"`
		Records []map[string]any `json:"records"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("expected 1 record, got %d", resp.Count)
	}
	if resp.Records[0]["id"] != "nibrs_high" {
		t.Errorf("unexpected record: %v", resp.Records[0])
	}
}

func TestGetHeatMap(t *testing.T) {
	store := &mockStore{
		incidents: []models.Incident{
			{ID: "a", Latitude: coord(19.1), Longitude: coord(-99.1), Dead: 2},
			{ID: "b", Latitude: coord(18.9), Longitude: coord(-98.9), Dead: 1},
		},
	}

	router := setupTestRouter(store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/heatmap?grid_size=1", nil)
	router.ServeHTTP(w, req)

	var resp struct {
		GridSize float64          `json:"grid_size"`
		Count    int              `json:"count"`
		Cells    []map[string]any `json:"cells"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("expected 1 cell, got %d", resp.Count)
	}
	if resp.Cells[0]["count"].(float64) != 2 {
		t.Errorf("unexpected cell: %v", resp.Cells[0])
	}
}

func TestGetHeatMap_BadGridSizeFallsBack(t *testing.T) {
	router := setupTestRouter(&mockStore{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/heatmap?grid_size=garbage", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		GridSize float64 `json:"grid_size"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.GridSize != 1.0 {
		t.Errorf("expected fallback grid size 1.0, got %f", resp.GridSize)
	}
}

func TestGetRiskAssessment(t *testing.T) {
	store := &mockStore{
		venues: []models.Venue{
			{ID: 2, Name: "MetLife Stadium", Latitude: 40.8135, Longitude: -74.0745},
		},
		records: []models.CrimeRecord{
			{
				ID: "nibrs_2023_newark", AgencyName: "Newark PD",
				Latitude: coord(40.7357), Longitude: coord(-74.1724),
				TotalOffenses: 100, Homicides: 50, Robbery: 50,
			},
		},
	}

	router := setupTestRouter(store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/risk-assessment?radius=50", nil)
	router.ServeHTTP(w, req)

	var resp struct {
		Count       int                  `json:"count"`
		Assessments []analysis.VenueRisk `json:"assessments"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("expected 1 assessment, got %d", resp.Count)
	}
	if resp.Assessments[0].Score != 65.0 || resp.Assessments[0].Category != "MEDIUM-HIGH" {
		t.Errorf("unexpected assessment: %+v", resp.Assessments[0])
	}
}

func TestGetStatistics(t *testing.T) {
	store := &mockStore{
		venues: []models.Venue{
			{ID: 1, Name: "Estadio Azteca", Latitude: 19.3029, Longitude: -99.1505},
		},
		incidents: []models.Incident{
			{ID: "a", Region: "Central America", Dead: 3},
		},
	}

	router := setupTestRouter(store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/statistics", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var s analysis.Summary
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if s.Venues != 1 || s.Incidents != 1 || s.TotalDead != 3 {
		t.Errorf("unexpected summary: %+v", s)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(1))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	codes := make(map[int]int)
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		router.ServeHTTP(w, req)
		codes[w.Code]++
	}

	if codes[http.StatusTooManyRequests] == 0 {
		t.Error("expected some requests to be rate limited")
	}
	if codes[http.StatusOK] == 0 {
		t.Error("expected at least one request to pass")
	}
}
