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

type seizureJob struct {
	seizure *models.Seizure
}

func (j seizureJob) key() string { return j.seizure.ID }

func (j seizureJob) exists(ctx context.Context, store repository.Store) (bool, error) {
	return store.SeizureExists(ctx, j.seizure.ID)
}

func (j seizureJob) persist(ctx context.Context, store repository.Store) error {
	return store.AddSeizure(ctx, j.seizure)
}

func (m *Manager) pollCBP(ctx context.Context, url string) ([]job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	client := &http.Client{
		Timeout: 60 * time.Second,
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	seizures, err := ParseCBPCSV(resp.Body)
	if err != nil {
		return nil, err
	}

	jobs := make([]job, 0, len(seizures))
	for _, z := range seizures {
		jobs = append(jobs, seizureJob{seizure: z})
	}
	return jobs, nil
}

var monthNumbers = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

// ParseCBPCSV decodes the CBP nationwide drug seizure CSV. Each row is a
// fiscal-year/month/component/field-office/drug-type aggregate. Rows are
// geocoded from the field-office location table; offices not in the table
// keep nil coordinates.
func ParseCBPCSV(r io.Reader) ([]*models.Seizure, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	if _, ok := col["FY"]; !ok {
		return nil, fmt.Errorf("missing required column: FY")
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var seizures []*models.Seizure
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row: %w", err)
		}

		fy, ok := parseFiscalYear(field(row, "FY"))
		if !ok {
			continue
		}

		month := strings.ToUpper(field(row, "Month (abbv)"))
		office := field(row, "Area of Responsibility")
		drug := field(row, "Drug Type")

		z := &models.Seizure{
			ID:          seizureID(fy, month, field(row, "Component"), office, drug),
			FiscalYear:  fy,
			Month:       month,
			MonthNumber: monthNumbers[month],
			Component:   field(row, "Component"),
			FieldOffice: office,
			DrugType:    drug,
			EventCount:  atoiOrZero(field(row, "Count of Event")),
			QuantityLbs: atofOrZero(field(row, "Sum Qty (lbs)")),
			CreatedAt:   time.Now(),
		}

		if loc, ok := fieldOfficeLocations[strings.ToUpper(office)]; ok {
			lat, lon := loc.Lat, loc.Lon
			z.Latitude = &lat
			z.Longitude = &lon
			z.City = loc.City
			z.State = loc.State
		}

		seizures = append(seizures, z)
	}

	return seizures, nil
}

// parseFiscalYear accepts "2024", "FY24" and "FY 2024".
func parseFiscalYear(s string) (int, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.ToUpper(s), "FY"))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	if n < 100 {
		n += 2000
	}
	if n < 2000 || n > 2100 {
		return 0, false
	}
	return n, true
}

// seizureID builds the dedupe key matching the published uniqueness of
// the dataset: one row per fiscal year, month, component, office, drug.
func seizureID(fy int, month, component, office, drug string) string {
	norm := func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
	}
	return fmt.Sprintf("cbp_%d_%s_%s_%s_%s", fy, norm(month), norm(component), norm(office), norm(drug))
}

func atofOrZero(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return f
}
