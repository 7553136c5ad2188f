package ingestion

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/wcsec/go-venue-intel/internal/models"
	"github.com/wcsec/go-venue-intel/internal/repository"
)

type incidentJob struct {
	incident *models.Incident
}

func (j incidentJob) key() string { return j.incident.ID }

func (j incidentJob) exists(ctx context.Context, store repository.Store) (bool, error) {
	return store.IncidentExists(ctx, j.incident.ID)
}

func (j incidentJob) persist(ctx context.Context, store repository.Store) error {
	return store.AddIncident(ctx, j.incident)
}

func (m *Manager) pollIOM(ctx context.Context, url string) ([]job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	client := &http.Client{
		Timeout: 60 * time.Second,
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	incidents, err := ParseIOMCSV(resp.Body)
	if err != nil {
		return nil, err
	}

	jobs := make([]job, 0, len(incidents))
	for _, in := range incidents {
		jobs = append(jobs, incidentJob{incident: in})
	}
	return jobs, nil
}

// iomDateLayouts covers the formats the IOM export has used over time.
var iomDateLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
	"01/02/2006",
}

// ParseIOMCSV decodes the IOM Missing Migrants CSV export. Columns are
// matched by header name, so column reordering upstream does not break
// the parser. Rows without parseable coordinates are kept with nil
// lat/lon; aggregation excludes them later.
func ParseIOMCSV(r io.Reader) ([]*models.Incident, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // the export has trailing variable columns

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	if _, ok := col["Main ID"]; !ok {
		return nil, fmt.Errorf("missing required column: Main ID")
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var incidents []*models.Incident
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row: %w", err)
		}

		mainID := field(row, "Main ID")
		if mainID == "" {
			continue
		}

		in := &models.Incident{
			ID:                  "iom_" + mainID,
			Type:                "migration_incident",
			Region:              field(row, "Region of Incident"),
			LocationDescription: field(row, "Location Description"),
			CauseOfDeath:        field(row, "Cause of Death"),
			SourceQuality:       field(row, "Information Source Quality"),
			Dead:                atoiOrZero(field(row, "Number Dead")),
			Missing:             atoiOrZero(field(row, "Minimum Estimated Number of Missing")),
			Survivors:           atoiOrZero(field(row, "Number of Survivors")),
			Raw:                 []byte(strings.Join(row, ",")),
			CreatedAt:           time.Now(),
		}

		if date, ok := parseIOMDate(field(row, "Incident Date")); ok {
			in.Date = date
			in.Year = date.Year()
			in.Month = int(date.Month())
		}

		if lat, lon, ok := parseCoordinates(field(row, "Coordinates")); ok {
			in.Latitude = &lat
			in.Longitude = &lon
		}

		incidents = append(incidents, in)
	}

	return incidents, nil
}

func parseIOMDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range iomDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseCoordinates parses the IOM "lat, lon" coordinate string.
func parseCoordinates(s string) (lat, lon float64, ok bool) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// atoiOrZero coerces malformed or missing numerics to zero, matching how
// the datasets publish blanks and "--" placeholders.
func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0
	}
	return n
}
