package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/wcsec/go-venue-intel/internal/models"
)

// ParseVenuesCSV decodes the venue reference CSV (name, city,
// state_province, country, latitude, longitude, capacity,
// host_matches). Venues must be geocoded; rows without valid
// coordinates are rejected.
func ParseVenuesCSV(r io.Reader) ([]*models.Venue, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[normalizeHeader(name)] = i
	}
	for _, required := range []string{"name", "latitude", "longitude"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing required column: %s", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var venues []*models.Venue
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row: %w", err)
		}
		line++

		name := field(row, "name")
		if name == "" {
			continue
		}

		lat, err := strconv.ParseFloat(field(row, "latitude"), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid latitude for venue %q", line, name)
		}
		lon, err := strconv.ParseFloat(field(row, "longitude"), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid longitude for venue %q", line, name)
		}

		venues = append(venues, &models.Venue{
			Name:          name,
			City:          field(row, "city"),
			StateProvince: field(row, "state_province"),
			Country:       field(row, "country"),
			Latitude:      lat,
			Longitude:     lon,
			Capacity:      atoiOrZero(field(row, "capacity")),
			HostMatches:   atoiOrZero(field(row, "host_matches")),
			CreatedAt:     time.Now(),
		})
	}

	return venues, nil
}
