package analysis

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// WriteRiskJSON renders a risk assessment as indented JSON.
func WriteRiskJSON(w io.Writer, risks []VenueRisk) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(risks)
}

// WriteRiskCSV renders a risk assessment as a flat CSV, one venue per
// row, for spreadsheet consumers.
func WriteRiskCSV(w io.Writer, risks []VenueRisk) error {
	cw := csv.NewWriter(w)

	header := []string{
		"venue_id", "venue_name", "city", "country", "latitude", "longitude",
		"score", "category", "total_offenses", "record_count",
		"closest_agency", "closest_distance_km",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, r := range risks {
		closestAgency, closestDistance := "", ""
		if r.Closest != nil {
			closestAgency = r.Closest.AgencyName
			closestDistance = strconv.FormatFloat(r.Closest.DistanceKM, 'f', 2, 64)
		}
		row := []string{
			strconv.FormatInt(r.VenueID, 10),
			r.VenueName,
			r.City,
			r.Country,
			strconv.FormatFloat(r.Latitude, 'f', 4, 64),
			strconv.FormatFloat(r.Longitude, 'f', 4, 64),
			strconv.FormatFloat(r.Score, 'f', 2, 64),
			r.Category,
			strconv.Itoa(r.TotalOffenses),
			strconv.Itoa(r.RecordCount),
			closestAgency,
			closestDistance,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSummaryJSON renders the overview summary as indented JSON.
func WriteSummaryJSON(w io.Writer, s *Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
