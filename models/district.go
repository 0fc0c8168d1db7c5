package models

import "time"

// DistrictData holds MGNREGA metrics for one district and one year.
// Unique per (district_code, year); refreshed in place by upserts.
type DistrictData struct {
	DistrictCode string `json:"district_code" bson:"district_code"`
	DistrictName string `json:"district_name" bson:"district_name"`
	StateName    string `json:"state_name" bson:"state_name"`
	Year         int    `json:"year" bson:"year"`

	// Job card metrics
	TotalJobCards  int `json:"total_job_cards" bson:"total_job_cards"`
	ActiveJobCards int `json:"active_job_cards" bson:"active_job_cards"`
	TotalWorkers   int `json:"total_workers" bson:"total_workers"`
	ActiveWorkers  int `json:"active_workers" bson:"active_workers"`

	// Work and employment data
	TotalPersonDays            float64 `json:"total_person_days" bson:"total_person_days"`
	AverageDaysPerHousehold    float64 `json:"average_days_per_household" bson:"average_days_per_household"`
	HouseholdsCompleted100Days int     `json:"households_completed_100_days" bson:"households_completed_100_days"`

	// Financial data (expenditure in lakhs)
	TotalExpenditure    float64 `json:"total_expenditure" bson:"total_expenditure"`
	WageExpenditure     float64 `json:"wage_expenditure" bson:"wage_expenditure"`
	MaterialExpenditure float64 `json:"material_expenditure" bson:"material_expenditure"`
	AverageWageRate     float64 `json:"average_wage_rate" bson:"average_wage_rate"`

	// Works data
	TotalWorks     int `json:"total_works" bson:"total_works"`
	CompletedWorks int `json:"completed_works" bson:"completed_works"`
	OngoingWorks   int `json:"ongoing_works" bson:"ongoing_works"`

	// Performance indicators (percentages in [0,100])
	EmploymentProvidedPercentage float64 `json:"employment_provided_percentage" bson:"employment_provided_percentage"`
	TimelyPaymentPercentage      float64 `json:"timely_payment_percentage" bson:"timely_payment_percentage"`

	// Metadata
	DataSource      string    `json:"data_source" bson:"data_source"`
	LastUpdated     time.Time `json:"last_updated" bson:"last_updated"`
	IsCached        bool      `json:"is_cached" bson:"is_cached"`
	StaleOnFallback bool      `json:"stale_on_fallback,omitempty" bson:"-"`
}

// MergeFrom copies every refreshable metric from src, keeping the key
// fields (DistrictCode, Year) of the receiver. Field-by-field on
// purpose: unknown or mistyped source fields have nowhere to land.
func (d *DistrictData) MergeFrom(src *DistrictData) {
	d.DistrictName = src.DistrictName
	d.StateName = src.StateName
	d.TotalJobCards = src.TotalJobCards
	d.ActiveJobCards = src.ActiveJobCards
	d.TotalWorkers = src.TotalWorkers
	d.ActiveWorkers = src.ActiveWorkers
	d.TotalPersonDays = src.TotalPersonDays
	d.AverageDaysPerHousehold = src.AverageDaysPerHousehold
	d.HouseholdsCompleted100Days = src.HouseholdsCompleted100Days
	d.TotalExpenditure = src.TotalExpenditure
	d.WageExpenditure = src.WageExpenditure
	d.MaterialExpenditure = src.MaterialExpenditure
	d.AverageWageRate = src.AverageWageRate
	d.TotalWorks = src.TotalWorks
	d.CompletedWorks = src.CompletedWorks
	d.OngoingWorks = src.OngoingWorks
	d.EmploymentProvidedPercentage = src.EmploymentProvidedPercentage
	d.TimelyPaymentPercentage = src.TimelyPaymentPercentage
	d.DataSource = src.DataSource
	d.IsCached = src.IsCached
}

// DistrictStats is the derived per-district aggregate, recomputed from
// the most recent cached DistrictData rows. Unique per district_code.
type DistrictStats struct {
	DistrictCode string `json:"district_code" bson:"district_code"`
	DistrictName string `json:"district_name" bson:"district_name"`
	StateName    string `json:"state_name" bson:"state_name"`

	PerformanceScore float64 `json:"performance_score" bson:"performance_score"`
	EmploymentRank   int     `json:"employment_rank" bson:"employment_rank"`
	ExpenditureRank  int     `json:"expenditure_rank" bson:"expenditure_rank"`

	// Year-over-year percentage changes
	EmploymentTrend  float64 `json:"employment_trend" bson:"employment_trend"`
	ExpenditureTrend float64 `json:"expenditure_trend" bson:"expenditure_trend"`

	StateAverageComparison    float64 `json:"state_average_comparison" bson:"state_average_comparison"`
	NationalAverageComparison float64 `json:"national_average_comparison" bson:"national_average_comparison"`

	TotalBeneficiaries int     `json:"total_beneficiaries" bson:"total_beneficiaries"`
	TotalInvestment    float64 `json:"total_investment" bson:"total_investment"`

	CalculationDate time.Time `json:"calculation_date" bson:"calculation_date"`
	LastUpdated     time.Time `json:"last_updated" bson:"last_updated"`
}

// MergeFrom copies recomputed values from src, keeping the receiver's
// DistrictCode.
func (s *DistrictStats) MergeFrom(src *DistrictStats) {
	s.DistrictName = src.DistrictName
	s.StateName = src.StateName
	s.PerformanceScore = src.PerformanceScore
	s.EmploymentRank = src.EmploymentRank
	s.ExpenditureRank = src.ExpenditureRank
	s.EmploymentTrend = src.EmploymentTrend
	s.ExpenditureTrend = src.ExpenditureTrend
	s.StateAverageComparison = src.StateAverageComparison
	s.NationalAverageComparison = src.NationalAverageComparison
	s.TotalBeneficiaries = src.TotalBeneficiaries
	s.TotalInvestment = src.TotalInvestment
	s.CalculationDate = src.CalculationDate
}
