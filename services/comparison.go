package services

import (
	"context"
	"log"
	"time"

	"mgnrega_api/models"
)

const (
	minComparisonDistricts = 2
	maxComparisonDistricts = 5
)

// ComparisonDistrict identifies one participant in a comparison.
type ComparisonDistrict struct {
	DistrictCode string `json:"district_code"`
	DistrictName string `json:"district_name"`
	StateName    string `json:"state_name"`
}

// ComparisonMetric is one metric's values across the compared
// districts.
type ComparisonMetric struct {
	MetricName  string             `json:"metric_name"`
	MetricLabel string             `json:"metric_label"`
	Values      map[string]float64 `json:"values"`
	Unit        string             `json:"unit"`
	Description string             `json:"description"`
}

// DistrictValue names a district together with one metric value.
type DistrictValue struct {
	DistrictCode string  `json:"district_code"`
	DistrictName string  `json:"district_name"`
	Value        float64 `json:"value"`
}

// ComparisonSummary highlights the extremes across the compared
// districts.
type ComparisonSummary struct {
	BestEmploymentDistrict     *DistrictValue `json:"best_employment_district,omitempty"`
	WorstEmploymentDistrict    *DistrictValue `json:"worst_employment_district,omitempty"`
	HighestExpenditureDistrict *DistrictValue `json:"highest_expenditure_district,omitempty"`
	TotalDistrictsCompared     int            `json:"total_districts_compared"`
	ComparisonYear             int            `json:"comparison_year"`
}

// ComparisonData is the full comparison response.
type ComparisonData struct {
	Districts   []ComparisonDistrict `json:"districts"`
	Year        int                  `json:"year"`
	Metrics     []ComparisonMetric   `json:"metrics"`
	Summary     *ComparisonSummary   `json:"summary"`
	GeneratedAt time.Time            `json:"generated_at"`
}

type metricConfig struct {
	name        string
	label       string
	unit        string
	description string
	value       func(*models.DistrictData) float64
}

var comparisonMetrics = []metricConfig{
	{
		name:        "total_person_days",
		label:       "Total Person Days",
		unit:        "days",
		description: "Total person days of employment generated",
		value:       func(d *models.DistrictData) float64 { return d.TotalPersonDays },
	},
	{
		name:        "total_expenditure",
		label:       "Total Expenditure",
		unit:        "₹",
		description: "Total expenditure on MGNREGA works",
		value:       func(d *models.DistrictData) float64 { return d.TotalExpenditure },
	},
	{
		name:        "active_workers",
		label:       "Active Workers",
		unit:        "count",
		description: "Number of active workers",
		value:       func(d *models.DistrictData) float64 { return float64(d.ActiveWorkers) },
	},
	{
		name:        "average_days_per_household",
		label:       "Avg Days per Household",
		unit:        "days",
		description: "Average employment days per household",
		value:       func(d *models.DistrictData) float64 { return d.AverageDaysPerHousehold },
	},
	{
		name:        "employment_provided_percentage",
		label:       "Employment Provided",
		unit:        "%",
		description: "Percentage of employment provided",
		value:       func(d *models.DistrictData) float64 { return d.EmploymentProvidedPercentage },
	},
}

// CompareDistricts fans out over GetDistrictData for 2 to 5 districts
// and reduces the results into a metric table with best/worst
// highlights. Districts with no data anywhere are skipped.
func (s *MGNREGAService) CompareDistricts(ctx context.Context, districtCodes []string, year int) (*ComparisonData, error) {
	if len(districtCodes) < minComparisonDistricts {
		return nil, NewValidationError("at least 2 districts required for comparison")
	}
	if len(districtCodes) > maxComparisonDistricts {
		return nil, NewValidationError("maximum 5 districts allowed for comparison")
	}

	if year == 0 {
		year = s.clock.Now().Year()
	}

	comparison := &ComparisonData{
		Districts:   make([]ComparisonDistrict, 0, len(districtCodes)),
		Year:        year,
		Metrics:     make([]ComparisonMetric, 0, len(comparisonMetrics)),
		GeneratedAt: s.clock.Now(),
	}

	districtData := make(map[string]*models.DistrictData)
	for _, code := range districtCodes {
		data, err := s.GetDistrictData(ctx, code, year)
		if err != nil {
			log.Printf("Skipping district %s in comparison: %v", code, err)
			continue
		}
		districtData[code] = data
		comparison.Districts = append(comparison.Districts, ComparisonDistrict{
			DistrictCode: code,
			DistrictName: data.DistrictName,
			StateName:    data.StateName,
		})
	}

	if len(districtData) == 0 {
		return comparison, nil
	}

	for _, cfg := range comparisonMetrics {
		values := make(map[string]float64, len(districtData))
		for code, data := range districtData {
			values[code] = cfg.value(data)
		}
		comparison.Metrics = append(comparison.Metrics, ComparisonMetric{
			MetricName:  cfg.name,
			MetricLabel: cfg.label,
			Values:      values,
			Unit:        cfg.unit,
			Description: cfg.description,
		})
	}

	comparison.Summary = summarizeComparison(districtData, year)
	return comparison, nil
}

func summarizeComparison(districtData map[string]*models.DistrictData, year int) *ComparisonSummary {
	summary := &ComparisonSummary{
		TotalDistrictsCompared: len(districtData),
		ComparisonYear:         year,
	}

	var bestEmp, worstEmp, bestExp *models.DistrictData
	for _, data := range districtData {
		if bestEmp == nil || data.TotalPersonDays > bestEmp.TotalPersonDays {
			bestEmp = data
		}
		if worstEmp == nil || data.TotalPersonDays < worstEmp.TotalPersonDays {
			worstEmp = data
		}
		if bestExp == nil || data.TotalExpenditure > bestExp.TotalExpenditure {
			bestExp = data
		}
	}

	summary.BestEmploymentDistrict = &DistrictValue{
		DistrictCode: bestEmp.DistrictCode,
		DistrictName: bestEmp.DistrictName,
		Value:        bestEmp.TotalPersonDays,
	}
	summary.WorstEmploymentDistrict = &DistrictValue{
		DistrictCode: worstEmp.DistrictCode,
		DistrictName: worstEmp.DistrictName,
		Value:        worstEmp.TotalPersonDays,
	}
	summary.HighestExpenditureDistrict = &DistrictValue{
		DistrictCode: bestExp.DistrictCode,
		DistrictName: bestExp.DistrictName,
		Value:        bestExp.TotalExpenditure,
	}
	return summary
}
