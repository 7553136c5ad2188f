package ingestion

import (
	"strings"
	"testing"
)

const nibrsSampleCSV = `year,state,agency type,agency name,total offenses,homicide offenses,aggravated assault,rape,robbery,"kidnapping
abduction","human trafficking offenses","drug
narcotic offenses","burglary
breaking  entering",latitude,longitude
2023,TEXAS,City,Houston Police Department,5000,40,300,120,250,15,5,400,600,29.7604,-95.3698
2023,NEW JERSEY,City,Newark Police Department,2000,10,150,60,100,5,2,180,220,,
,TEXAS,City,No Year Agency,10,0,0,0,0,0,0,0,0,,
`

func TestParseNIBRSCSV(t *testing.T) {
	records, err := ParseNIBRSCSV(strings.NewReader(nibrsSampleCSV))
	if err != nil {
		t.Fatalf("ParseNIBRSCSV failed: %v", err)
	}

	// Row without a year is dropped
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.ID != "nibrs_2023_houston_police_department" {
		t.Errorf("unexpected ID: %s", first.ID)
	}
	if first.AgencyName != "Houston Police Department" || first.State != "TEXAS" {
		t.Errorf("unexpected agency: %+v", first)
	}
	if first.City != "Houston" {
		t.Errorf("expected city Houston extracted from agency name, got %q", first.City)
	}
	if first.TotalOffenses != 5000 || first.Homicides != 40 || first.Burglary != 600 {
		t.Errorf("unexpected counters: %+v", first)
	}
	if first.Kidnapping != 15 || first.HumanTrafficking != 5 || first.DrugNarcotic != 400 {
		t.Errorf("unexpected counters: %+v", first)
	}
	if first.Latitude == nil || *first.Latitude != 29.7604 {
		t.Errorf("expected geocoded row, got %+v", first.Latitude)
	}
	if first.RiskScore != nil {
		t.Error("parsed records must not carry a risk score before backfill")
	}

	second := records[1]
	if second.Latitude != nil || second.Longitude != nil {
		t.Error("expected nil coordinates for ungeocoded row")
	}
}

func TestParseNIBRSCSV_MissingRequiredColumn(t *testing.T) {
	csv := "year,state\n2023,TEXAS\n"
	if _, err := ParseNIBRSCSV(strings.NewReader(csv)); err == nil {
		t.Fatal("expected error for CSV without an agency name column")
	}
}

func TestCityFromAgency(t *testing.T) {
	tests := []struct {
		agency string
		want   string
	}{
		{"Houston Police Department", "Houston"},
		{"Maricopa County Sheriff's Office", "Maricopa"},
		{"Apache Junction Police Department", "Apache Junction"},
		{"X", ""},
	}

	for _, tt := range tests {
		if got := cityFromAgency(tt.agency); got != tt.want {
			t.Errorf("cityFromAgency(%q) = %q, want %q", tt.agency, got, tt.want)
		}
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Agency Name", "agency name"},
		{"kidnapping\nabduction", "kidnapping abduction"},
		{"burglary\nbreaking  entering", "burglary breaking entering"},
		{"  year  ", "year"},
	}

	for _, tt := range tests {
		if got := normalizeHeader(tt.input); got != tt.want {
			t.Errorf("normalizeHeader(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
