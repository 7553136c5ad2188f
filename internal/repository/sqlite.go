package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/wcsec/go-venue-intel/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS venues (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			city TEXT NOT NULL,
			state_province TEXT,
			country TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			capacity INTEGER,
			host_matches INTEGER,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS incidents (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			incident_date DATETIME NOT NULL,
			year INTEGER,
			month INTEGER,
			latitude REAL,
			longitude REAL,
			location_description TEXT,
			region TEXT,
			dead INTEGER NOT NULL DEFAULT 0,
			missing INTEGER NOT NULL DEFAULT 0,
			survivors INTEGER NOT NULL DEFAULT 0,
			cause_of_death TEXT,
			source_quality TEXT,
			raw BLOB,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS seizures (
			id TEXT PRIMARY KEY,
			fiscal_year INTEGER NOT NULL,
			month TEXT NOT NULL,
			month_number INTEGER,
			component TEXT,
			field_office TEXT,
			drug_type TEXT NOT NULL,
			event_count INTEGER NOT NULL DEFAULT 0,
			quantity_lbs REAL NOT NULL DEFAULT 0,
			latitude REAL,
			longitude REAL,
			city TEXT,
			state TEXT,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS crime_records (
			id TEXT PRIMARY KEY,
			agency_name TEXT NOT NULL,
			city TEXT,
			state TEXT,
			year INTEGER NOT NULL,
			latitude REAL,
			longitude REAL,
			total_offenses INTEGER NOT NULL DEFAULT 0,
			homicides INTEGER NOT NULL DEFAULT 0,
			aggravated_assault INTEGER NOT NULL DEFAULT 0,
			rape INTEGER NOT NULL DEFAULT 0,
			robbery INTEGER NOT NULL DEFAULT 0,
			kidnapping INTEGER NOT NULL DEFAULT 0,
			human_trafficking INTEGER NOT NULL DEFAULT 0,
			drug_narcotic INTEGER NOT NULL DEFAULT 0,
			burglary INTEGER NOT NULL DEFAULT 0,
			risk_score REAL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_incidents_date ON incidents(incident_date);
		CREATE INDEX IF NOT EXISTS idx_incidents_region ON incidents(region);
		CREATE INDEX IF NOT EXISTS idx_incidents_location ON incidents(latitude, longitude);
		CREATE INDEX IF NOT EXISTS idx_seizures_year ON seizures(fiscal_year, month_number);
		CREATE INDEX IF NOT EXISTS idx_seizures_drug ON seizures(drug_type);
		CREATE INDEX IF NOT EXISTS idx_crime_year_state ON crime_records(year, state);
		CREATE INDEX IF NOT EXISTS idx_crime_location ON crime_records(latitude, longitude);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) AddVenue(ctx context.Context, v *models.Venue) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO venues (name, city, state_province, country, latitude, longitude, capacity, host_matches, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.Name, v.City, v.StateProvince, v.Country, v.Latitude, v.Longitude, v.Capacity, v.HostMatches, v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting venue: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading venue id: %w", err)
	}
	v.ID = id
	return nil
}

func (s *SQLiteDB) GetVenue(ctx context.Context, id int64) (*models.Venue, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, city, state_province, country, latitude, longitude, capacity, host_matches, created_at
		FROM venues WHERE id = ?`, id,
	)

	var v models.Venue
	err := row.Scan(&v.ID, &v.Name, &v.City, &v.StateProvince, &v.Country,
		&v.Latitude, &v.Longitude, &v.Capacity, &v.HostMatches, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error scanning venue: %w", err)
	}
	return &v, nil
}

func (s *SQLiteDB) ListVenues(ctx context.Context) ([]models.Venue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, city, state_province, country, latitude, longitude, capacity, host_matches, created_at
		FROM venues ORDER BY country, city`,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying venues: %w", err)
	}
	defer rows.Close()

	var venues []models.Venue
	for rows.Next() {
		var v models.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.City, &v.StateProvince, &v.Country,
			&v.Latitude, &v.Longitude, &v.Capacity, &v.HostMatches, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning venue row: %w", err)
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}

func (s *SQLiteDB) AddIncident(ctx context.Context, in *models.Incident) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO incidents (id, type, incident_date, year, month, latitude, longitude,
			location_description, region, dead, missing, survivors, cause_of_death,
			source_quality, raw, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Type, in.Date, in.Year, in.Month, nullFloat(in.Latitude), nullFloat(in.Longitude),
		in.LocationDescription, in.Region, in.Dead, in.Missing, in.Survivors, in.CauseOfDeath,
		in.SourceQuality, in.Raw, in.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting incident: %w", err)
	}
	return nil
}

func (s *SQLiteDB) IncidentExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM incidents WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking incident existence: %w", err)
	}
	return true, nil
}

func (s *SQLiteDB) ListIncidents(ctx context.Context, f IncidentFilter) ([]models.Incident, error) {
	query := `
		SELECT id, type, incident_date, year, month, latitude, longitude,
			location_description, region, dead, missing, survivors, cause_of_death,
			source_quality, raw, created_at
		FROM incidents WHERE 1=1`
	var args []any

	if f.Region != nil {
		query += ` AND region LIKE ?`
		args = append(args, "%"+*f.Region+"%")
	}
	if f.Since != nil {
		query += ` AND incident_date >= ?`
		args = append(args, *f.Since)
	}
	if f.Until != nil {
		query += ` AND incident_date <= ?`
		args = append(args, *f.Until)
	}
	if f.GeocodedOnly {
		query += ` AND latitude IS NOT NULL AND longitude IS NOT NULL`
	}
	query += ` ORDER BY incident_date DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying incidents: %w", err)
	}
	defer rows.Close()

	var incidents []models.Incident
	for rows.Next() {
		var (
			in       models.Incident
			lat, lon sql.NullFloat64
		)
		if err := rows.Scan(&in.ID, &in.Type, &in.Date, &in.Year, &in.Month, &lat, &lon,
			&in.LocationDescription, &in.Region, &in.Dead, &in.Missing, &in.Survivors,
			&in.CauseOfDeath, &in.SourceQuality, &in.Raw, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning incident row: %w", err)
		}
		in.Latitude = floatPtr(lat)
		in.Longitude = floatPtr(lon)
		incidents = append(incidents, in)
	}
	return incidents, rows.Err()
}

func (s *SQLiteDB) AddSeizure(ctx context.Context, z *models.Seizure) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO seizures (id, fiscal_year, month, month_number, component, field_office,
			drug_type, event_count, quantity_lbs, latitude, longitude, city, state, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		z.ID, z.FiscalYear, z.Month, z.MonthNumber, z.Component, z.FieldOffice,
		z.DrugType, z.EventCount, z.QuantityLbs, nullFloat(z.Latitude), nullFloat(z.Longitude),
		z.City, z.State, z.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting seizure: %w", err)
	}
	return nil
}

func (s *SQLiteDB) SeizureExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM seizures WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking seizure existence: %w", err)
	}
	return true, nil
}

func (s *SQLiteDB) ListSeizures(ctx context.Context, f SeizureFilter) ([]models.Seizure, error) {
	query := `
		SELECT id, fiscal_year, month, month_number, component, field_office,
			drug_type, event_count, quantity_lbs, latitude, longitude, city, state, created_at
		FROM seizures WHERE 1=1`
	var args []any

	if f.DrugType != nil {
		query += ` AND drug_type LIKE ?`
		args = append(args, "%"+*f.DrugType+"%")
	}
	if f.FiscalYear != nil {
		query += ` AND fiscal_year = ?`
		args = append(args, *f.FiscalYear)
	}
	if f.FieldOffice != nil {
		query += ` AND field_office LIKE ?`
		args = append(args, "%"+*f.FieldOffice+"%")
	}
	query += ` ORDER BY fiscal_year DESC, month_number DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying seizures: %w", err)
	}
	defer rows.Close()

	var seizures []models.Seizure
	for rows.Next() {
		var (
			z        models.Seizure
			lat, lon sql.NullFloat64
		)
		if err := rows.Scan(&z.ID, &z.FiscalYear, &z.Month, &z.MonthNumber, &z.Component,
			&z.FieldOffice, &z.DrugType, &z.EventCount, &z.QuantityLbs, &lat, &lon,
			&z.City, &z.State, &z.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning seizure row: %w", err)
		}
		z.Latitude = floatPtr(lat)
		z.Longitude = floatPtr(lon)
		seizures = append(seizures, z)
	}
	return seizures, rows.Err()
}

func (s *SQLiteDB) AddCrimeRecord(ctx context.Context, c *models.CrimeRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO crime_records (id, agency_name, city, state, year, latitude, longitude,
			total_offenses, homicides, aggravated_assault, rape, robbery, kidnapping,
			human_trafficking, drug_narcotic, burglary, risk_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.AgencyName, c.City, c.State, c.Year, nullFloat(c.Latitude), nullFloat(c.Longitude),
		c.TotalOffenses, c.Homicides, c.AggravatedAssault, c.Rape, c.Robbery, c.Kidnapping,
		c.HumanTrafficking, c.DrugNarcotic, c.Burglary, nullFloat(c.RiskScore), c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting crime record: %w", err)
	}
	return nil
}

func (s *SQLiteDB) ListCrimeRecords(ctx context.Context, f CrimeFilter) ([]models.CrimeRecord, error) {
	query := `
		SELECT id, agency_name, city, state, year, latitude, longitude,
			total_offenses, homicides, aggravated_assault, rape, robbery, kidnapping,
			human_trafficking, drug_narcotic, burglary, risk_score, created_at
		FROM crime_records WHERE 1=1`
	var args []any

	if f.Year != nil {
		query += ` AND year = ?`
		args = append(args, *f.Year)
	}
	if f.State != nil {
		query += ` AND state = ?`
		args = append(args, *f.State)
	}
	if f.MinRisk != nil {
		query += ` AND risk_score >= ?`
		args = append(args, *f.MinRisk)
	}
	if f.Unscored {
		query += ` AND risk_score IS NULL`
	}
	query += ` ORDER BY risk_score DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying crime records: %w", err)
	}
	defer rows.Close()

	var records []models.CrimeRecord
	for rows.Next() {
		var (
			c              models.CrimeRecord
			lat, lon, risk sql.NullFloat64
		)
		if err := rows.Scan(&c.ID, &c.AgencyName, &c.City, &c.State, &c.Year, &lat, &lon,
			&c.TotalOffenses, &c.Homicides, &c.AggravatedAssault, &c.Rape, &c.Robbery,
			&c.Kidnapping, &c.HumanTrafficking, &c.DrugNarcotic, &c.Burglary, &risk,
			&c.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning crime row: %w", err)
		}
		c.Latitude = floatPtr(lat)
		c.Longitude = floatPtr(lon)
		c.RiskScore = floatPtr(risk)
		records = append(records, c)
	}
	return records, rows.Err()
}

func (s *SQLiteDB) UpdateRiskScores(ctx context.Context, scores map[string]float64) (int64, error) {
	if len(scores) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE crime_records SET risk_score = ? WHERE id = ?`)
	if err != nil {
		return 0, fmt.Errorf("error preparing update: %w", err)
	}
	defer stmt.Close()

	var updated int64
	for id, score := range scores {
		res, err := stmt.ExecContext(ctx, score, id)
		if err != nil {
			return 0, fmt.Errorf("error updating risk score for %s: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("error reading rows affected: %w", err)
		}
		updated += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing risk scores: %w", err)
	}
	return updated, nil
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
