package analysis

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
)

func sampleRisks() []VenueRisk {
	return []VenueRisk{
		{
			VenueID: 2, VenueName: "MetLife Stadium", City: "East Rutherford", Country: "USA",
			Latitude: 40.8135, Longitude: -74.0745,
			Score: 65.0, Category: "MEDIUM-HIGH", TotalOffenses: 100, RecordCount: 1,
			Closest: &ClosestRecord{AgencyName: "Newark PD", City: "Newark", State: "NJ", DistanceKM: 11.8},
		},
		{
			VenueID: 1, VenueName: "Estadio Azteca", City: "Mexico City", Country: "Mexico",
			Latitude: 19.3029, Longitude: -99.1505,
			Score: 0, Category: "LOW",
		},
	}
}

func TestWriteRiskCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRiskCSV(&buf, sampleRisks()); err != nil {
		t.Fatalf("WriteRiskCSV failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "venue_id" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "MetLife Stadium" || rows[1][7] != "MEDIUM-HIGH" {
		t.Errorf("unexpected first row: %v", rows[1])
	}
	// Venue with no records in range leaves the closest columns empty
	if rows[2][10] != "" || rows[2][11] != "" {
		t.Errorf("expected empty closest columns, got %v", rows[2])
	}
}

func TestWriteRiskJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRiskJSON(&buf, sampleRisks()); err != nil {
		t.Fatalf("WriteRiskJSON failed: %v", err)
	}

	var decoded []VenueRisk
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(decoded))
	}
	if decoded[0].VenueName != "MetLife Stadium" {
		t.Errorf("unexpected first entry: %+v", decoded[0])
	}
	if !strings.Contains(buf.String(), "\"closest_record\"") {
		t.Error("expected closest_record key in output")
	}
}
