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

// ParseNIBRSCSV decodes FBI NIBRS agency-year rows. The published
// headers carry embedded newlines and doubled spaces ("burglary
// breaking  entering"), so names are normalized before matching.
// Optional city/latitude/longitude columns from pre-geocoded exports
// are picked up when present.
func ParseNIBRSCSV(r io.Reader) ([]*models.CrimeRecord, error) {
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
	if _, ok := col["agency name"]; !ok {
		return nil, fmt.Errorf("missing required column: agency name")
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []*models.CrimeRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row: %w", err)
		}

		agency := field(row, "agency name")
		year := atoiOrZero(field(row, "year"))
		if agency == "" || year == 0 {
			continue
		}

		c := &models.CrimeRecord{
			ID:                crimeRecordID(year, agency),
			AgencyName:        agency,
			City:              field(row, "city"),
			State:             strings.ToUpper(field(row, "state")),
			Year:              year,
			TotalOffenses:     atoiOrZero(field(row, "total offenses")),
			Homicides:         atoiOrZero(field(row, "homicide offenses")),
			AggravatedAssault: atoiOrZero(field(row, "aggravated assault")),
			Rape:              atoiOrZero(field(row, "rape")),
			Robbery:           atoiOrZero(field(row, "robbery")),
			Kidnapping:        atoiOrZero(field(row, "kidnapping abduction")),
			HumanTrafficking:  atoiOrZero(field(row, "human trafficking offenses")),
			DrugNarcotic:      atoiOrZero(field(row, "drug narcotic offenses")),
			Burglary:          atoiOrZero(field(row, "burglary breaking entering")),
			CreatedAt:         time.Now(),
		}
		if c.City == "" {
			c.City = cityFromAgency(agency)
		}

		if lat, err := strconv.ParseFloat(field(row, "latitude"), 64); err == nil {
			if lon, err := strconv.ParseFloat(field(row, "longitude"), 64); err == nil {
				c.Latitude = &lat
				c.Longitude = &lon
			}
		}

		records = append(records, c)
	}

	return records, nil
}

// normalizeHeader lowercases a header and collapses newlines and
// repeated whitespace into single spaces.
func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func crimeRecordID(year int, agency string) string {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(agency)), " ", "_")
	return fmt.Sprintf("nibrs_%d_%s", year, norm)
}

// agencySuffixes are stripped to recover the city an agency serves.
var agencySuffixes = []string{
	" Police Department", " Sheriff's Office", " Sheriff Office", " Sheriff",
	" Police", " Department", " PD", " County", " Metro", " Township",
}

func cityFromAgency(agency string) string {
	city := strings.TrimSpace(agency)
	for _, suffix := range agencySuffixes {
		if strings.HasSuffix(city, suffix) {
			city = strings.TrimSpace(strings.TrimSuffix(city, suffix))
		}
	}
	if len(city) < 2 {
		return ""
	}
	return city
}
