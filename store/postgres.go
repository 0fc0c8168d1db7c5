package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	"mgnrega_api/models"
)

// PostgresStore implements Store on top of a pooled *sql.DB.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// CreateSchema creates the four cache tables and their indexes if they
// do not exist yet.
func (s *PostgresStore) CreateSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS district_data (
			id SERIAL PRIMARY KEY,
			district_code VARCHAR(50) NOT NULL,
			district_name VARCHAR(100) NOT NULL,
			state_name VARCHAR(100) NOT NULL,
			year INTEGER NOT NULL,
			total_job_cards INTEGER DEFAULT 0,
			active_job_cards INTEGER DEFAULT 0,
			total_workers INTEGER DEFAULT 0,
			active_workers INTEGER DEFAULT 0,
			total_person_days DOUBLE PRECISION DEFAULT 0,
			average_days_per_household DOUBLE PRECISION DEFAULT 0,
			households_completed_100_days INTEGER DEFAULT 0,
			total_expenditure DOUBLE PRECISION DEFAULT 0,
			wage_expenditure DOUBLE PRECISION DEFAULT 0,
			material_expenditure DOUBLE PRECISION DEFAULT 0,
			average_wage_rate DOUBLE PRECISION DEFAULT 0,
			total_works INTEGER DEFAULT 0,
			completed_works INTEGER DEFAULT 0,
			ongoing_works INTEGER DEFAULT 0,
			employment_provided_percentage DOUBLE PRECISION DEFAULT 0,
			timely_payment_percentage DOUBLE PRECISION DEFAULT 0,
			data_source VARCHAR(100) DEFAULT 'data.gov.in',
			last_updated TIMESTAMPTZ NOT NULL DEFAULT now(),
			is_cached BOOLEAN DEFAULT TRUE,
			UNIQUE (district_code, year)
		)`,
		`CREATE TABLE IF NOT EXISTS district_stats (
			id SERIAL PRIMARY KEY,
			district_code VARCHAR(50) NOT NULL UNIQUE,
			district_name VARCHAR(100) NOT NULL,
			state_name VARCHAR(100) NOT NULL,
			performance_score DOUBLE PRECISION DEFAULT 0,
			employment_rank INTEGER DEFAULT 0,
			expenditure_rank INTEGER DEFAULT 0,
			employment_trend DOUBLE PRECISION DEFAULT 0,
			expenditure_trend DOUBLE PRECISION DEFAULT 0,
			state_average_comparison DOUBLE PRECISION DEFAULT 0,
			national_average_comparison DOUBLE PRECISION DEFAULT 0,
			total_beneficiaries INTEGER DEFAULT 0,
			total_investment DOUBLE PRECISION DEFAULT 0,
			calculation_date TIMESTAMPTZ NOT NULL DEFAULT now(),
			last_updated TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS cache_status (
			id SERIAL PRIMARY KEY,
			data_type VARCHAR(50) NOT NULL UNIQUE,
			last_api_fetch TIMESTAMPTZ,
			last_successful_fetch TIMESTAMPTZ,
			total_records INTEGER DEFAULT 0,
			failed_attempts INTEGER DEFAULT 0,
			is_stale BOOLEAN DEFAULT FALSE,
			api_status VARCHAR(20) DEFAULT 'unknown',
			error_message TEXT,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_district_data_code ON district_data (district_code)`,
		`CREATE INDEX IF NOT EXISTS idx_district_data_code_year ON district_data (district_code, year)`,
		`CREATE INDEX IF NOT EXISTS idx_district_stats_code ON district_stats (district_code)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %v", err)
		}
	}
	log.Printf("Verified district cache tables exist")
	return nil
}

const districtDataColumns = `district_code, district_name, state_name, year,
	total_job_cards, active_job_cards, total_workers, active_workers,
	total_person_days, average_days_per_household, households_completed_100_days,
	total_expenditure, wage_expenditure, material_expenditure, average_wage_rate,
	total_works, completed_works, ongoing_works,
	employment_provided_percentage, timely_payment_percentage,
	COALESCE(data_source, ''), last_updated, is_cached`

func scanDistrictData(row interface{ Scan(...interface{}) error }) (*models.DistrictData, error) {
	var d models.DistrictData
	err := row.Scan(
		&d.DistrictCode, &d.DistrictName, &d.StateName, &d.Year,
		&d.TotalJobCards, &d.ActiveJobCards, &d.TotalWorkers, &d.ActiveWorkers,
		&d.TotalPersonDays, &d.AverageDaysPerHousehold, &d.HouseholdsCompleted100Days,
		&d.TotalExpenditure, &d.WageExpenditure, &d.MaterialExpenditure, &d.AverageWageRate,
		&d.TotalWorks, &d.CompletedWorks, &d.OngoingWorks,
		&d.EmploymentProvidedPercentage, &d.TimelyPaymentPercentage,
		&d.DataSource, &d.LastUpdated, &d.IsCached,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *PostgresStore) GetDistrictData(ctx context.Context, districtCode string, year int) (*models.DistrictData, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+districtDataColumns+`
		FROM district_data
		WHERE district_code = $1 AND year = $2`,
		districtCode, year)

	d, err := scanDistrictData(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching district data: %v", err)
	}
	return d, nil
}

func (s *PostgresStore) UpsertDistrictData(ctx context.Context, data *models.DistrictData) (*models.DistrictData, error) {
	now := time.Now()
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO district_data (
			district_code, district_name, state_name, year,
			total_job_cards, active_job_cards, total_workers, active_workers,
			total_person_days, average_days_per_household, households_completed_100_days,
			total_expenditure, wage_expenditure, material_expenditure, average_wage_rate,
			total_works, completed_works, ongoing_works,
			employment_provided_percentage, timely_payment_percentage,
			data_source, last_updated, is_cached
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
		ON CONFLICT (district_code, year) DO UPDATE SET
			district_name = EXCLUDED.district_name,
			state_name = EXCLUDED.state_name,
			total_job_cards = EXCLUDED.total_job_cards,
			active_job_cards = EXCLUDED.active_job_cards,
			total_workers = EXCLUDED.total_workers,
			active_workers = EXCLUDED.active_workers,
			total_person_days = EXCLUDED.total_person_days,
			average_days_per_household = EXCLUDED.average_days_per_household,
			households_completed_100_days = EXCLUDED.households_completed_100_days,
			total_expenditure = EXCLUDED.total_expenditure,
			wage_expenditure = EXCLUDED.wage_expenditure,
			material_expenditure = EXCLUDED.material_expenditure,
			average_wage_rate = EXCLUDED.average_wage_rate,
			total_works = EXCLUDED.total_works,
			completed_works = EXCLUDED.completed_works,
			ongoing_works = EXCLUDED.ongoing_works,
			employment_provided_percentage = EXCLUDED.employment_provided_percentage,
			timely_payment_percentage = EXCLUDED.timely_payment_percentage,
			data_source = EXCLUDED.data_source,
			last_updated = EXCLUDED.last_updated,
			is_cached = EXCLUDED.is_cached
		RETURNING `+districtDataColumns,
		data.DistrictCode, data.DistrictName, data.StateName, data.Year,
		data.TotalJobCards, data.ActiveJobCards, data.TotalWorkers, data.ActiveWorkers,
		data.TotalPersonDays, data.AverageDaysPerHousehold, data.HouseholdsCompleted100Days,
		data.TotalExpenditure, data.WageExpenditure, data.MaterialExpenditure, data.AverageWageRate,
		data.TotalWorks, data.CompletedWorks, data.OngoingWorks,
		data.EmploymentProvidedPercentage, data.TimelyPaymentPercentage,
		data.DataSource, now, data.IsCached,
	)

	stored, err := scanDistrictData(row)
	if err != nil {
		return nil, fmt.Errorf("error saving district data: %v", err)
	}
	return stored, nil
}

func (s *PostgresStore) GetRecentDistrictData(ctx context.Context, districtCode string, limit int) ([]*models.DistrictData, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+districtDataColumns+`
		FROM district_data
		WHERE district_code = $1
		ORDER BY year DESC
		LIMIT $2`,
		districtCode, limit)
	if err != nil {
		return nil, fmt.Errorf("error fetching recent district data: %v", err)
	}
	defer rows.Close()

	var result []*models.DistrictData
	for rows.Next() {
		d, err := scanDistrictData(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning district data row: %v", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (s *PostgresStore) GetDistrictStats(ctx context.Context, districtCode string) (*models.DistrictStats, error) {
	var st models.DistrictStats
	err := s.db.QueryRowContext(ctx, `
		SELECT district_code, district_name, state_name,
			performance_score, employment_rank, expenditure_rank,
			employment_trend, expenditure_trend,
			state_average_comparison, national_average_comparison,
			total_beneficiaries, total_investment,
			calculation_date, last_updated
		FROM district_stats
		WHERE district_code = $1`,
		districtCode).Scan(
		&st.DistrictCode, &st.DistrictName, &st.StateName,
		&st.PerformanceScore, &st.EmploymentRank, &st.ExpenditureRank,
		&st.EmploymentTrend, &st.ExpenditureTrend,
		&st.StateAverageComparison, &st.NationalAverageComparison,
		&st.TotalBeneficiaries, &st.TotalInvestment,
		&st.CalculationDate, &st.LastUpdated,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching district stats: %v", err)
	}
	return &st, nil
}

func (s *PostgresStore) UpsertDistrictStats(ctx context.Context, stats *models.DistrictStats) (*models.DistrictStats, error) {
	now := time.Now()
	stored := *stats
	stored.LastUpdated = now
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO district_stats (
			district_code, district_name, state_name,
			performance_score, employment_rank, expenditure_rank,
			employment_trend, expenditure_trend,
			state_average_comparison, national_average_comparison,
			total_beneficiaries, total_investment,
			calculation_date, last_updated
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (district_code) DO UPDATE SET
			district_name = EXCLUDED.district_name,
			state_name = EXCLUDED.state_name,
			performance_score = EXCLUDED.performance_score,
			employment_rank = EXCLUDED.employment_rank,
			expenditure_rank = EXCLUDED.expenditure_rank,
			employment_trend = EXCLUDED.employment_trend,
			expenditure_trend = EXCLUDED.expenditure_trend,
			state_average_comparison = EXCLUDED.state_average_comparison,
			national_average_comparison = EXCLUDED.national_average_comparison,
			total_beneficiaries = EXCLUDED.total_beneficiaries,
			total_investment = EXCLUDED.total_investment,
			calculation_date = EXCLUDED.calculation_date,
			last_updated = EXCLUDED.last_updated`,
		stats.DistrictCode, stats.DistrictName, stats.StateName,
		stats.PerformanceScore, stats.EmploymentRank, stats.ExpenditureRank,
		stats.EmploymentTrend, stats.ExpenditureTrend,
		stats.StateAverageComparison, stats.NationalAverageComparison,
		stats.TotalBeneficiaries, stats.TotalInvestment,
		stats.CalculationDate, now,
	)
	if err != nil {
		return nil, fmt.Errorf("error saving district stats: %v", err)
	}
	return &stored, nil
}

func (s *PostgresStore) ListDistrictCodes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT district_code FROM district_data ORDER BY district_code`)
	if err != nil {
		return nil, fmt.Errorf("error listing district codes: %v", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func (s *PostgresStore) GetCacheStatus(ctx context.Context, dataType string) (*models.CacheStatus, error) {
	var cs models.CacheStatus
	var lastFetch, lastSuccess sql.NullTime
	var errMsg sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT data_type, last_api_fetch, last_successful_fetch,
			total_records, failed_attempts, is_stale,
			api_status, error_message, updated_at
		FROM cache_status
		WHERE data_type = $1`,
		dataType).Scan(
		&cs.DataType, &lastFetch, &lastSuccess,
		&cs.TotalRecords, &cs.FailedAttempts, &cs.IsStale,
		&cs.APIStatus, &errMsg, &cs.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching cache status: %v", err)
	}
	if lastFetch.Valid {
		cs.LastAPIFetch = lastFetch.Time
	}
	if lastSuccess.Valid {
		cs.LastSuccessfulFetch = lastSuccess.Time
	}
	if errMsg.Valid {
		cs.ErrorMessage = errMsg.String
	}
	return &cs, nil
}

func (s *PostgresStore) UpsertCacheStatus(ctx context.Context, status *models.CacheStatus) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cache_status (
			data_type, last_api_fetch, last_successful_fetch,
			total_records, failed_attempts, is_stale,
			api_status, error_message, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (data_type) DO UPDATE SET
			last_api_fetch = EXCLUDED.last_api_fetch,
			last_successful_fetch = EXCLUDED.last_successful_fetch,
			total_records = EXCLUDED.total_records,
			failed_attempts = EXCLUDED.failed_attempts,
			is_stale = EXCLUDED.is_stale,
			api_status = EXCLUDED.api_status,
			error_message = EXCLUDED.error_message,
			updated_at = EXCLUDED.updated_at`,
		status.DataType, nullTime(status.LastAPIFetch), nullTime(status.LastSuccessfulFetch),
		status.TotalRecords, status.FailedAttempts, status.IsStale,
		status.APIStatus, nullString(status.ErrorMessage), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("error saving cache status: %v", err)
	}
	return nil
}

func (s *PostgresStore) DeleteDistrictDataBefore(ctx context.Context, cutoff time.Time, keepYears int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM district_data d
		WHERE d.last_updated < $1
		AND d.year NOT IN (
			SELECT year FROM district_data d2
			WHERE d2.district_code = d.district_code
			ORDER BY year DESC
			LIMIT $2
		)`,
		cutoff, keepYears)
	if err != nil {
		return 0, fmt.Errorf("error cleaning up district data: %v", err)
	}
	return res.RowsAffected()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
