package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetchDistrictDataIsDeterministic(t *testing.T) {
	client := NewDataGovClient("")
	ctx := context.Background()

	first, err := client.FetchDistrictData(ctx, "RJ001", 2024)
	require.NoError(t, err)
	second, err := client.FetchDistrictData(ctx, "RJ001", 2024)
	require.NoError(t, err)
	require.Equal(t, first, second)

	otherYear, err := client.FetchDistrictData(ctx, "RJ001", 2023)
	require.NoError(t, err)
	require.NotEqual(t, first.TotalPersonDays, otherYear.TotalPersonDays)
}

func TestFetchDistrictDataBounds(t *testing.T) {
	client := NewDataGovClient("")

	data, err := client.FetchDistrictData(context.Background(), "UP002", 2024)
	require.NoError(t, err)

	require.LessOrEqual(t, data.EmploymentProvidedPercentage, 100.0)
	require.GreaterOrEqual(t, data.TimelyPaymentPercentage, 70.0)
	require.LessOrEqual(t, data.TimelyPaymentPercentage, 95.0)
	require.Positive(t, data.TotalJobCards)
	require.LessOrEqual(t, data.ActiveJobCards, data.TotalJobCards)
	require.LessOrEqual(t, data.CompletedWorks+data.OngoingWorks, data.TotalWorks+1)
	require.InDelta(t, data.TotalExpenditure, data.WageExpenditure+data.MaterialExpenditure, 0.05)
}

func TestDistrictIdentity(t *testing.T) {
	tests := []struct {
		code      string
		wantName  string
		wantState string
	}{
		{"RJ001", "Jaipur", "Rajasthan"},
		{"KL001", "Thiruvananthapuram", "Kerala"},
		{"ZZ123", "District ZZ123", "State ZZ"},
	}

	for _, tt := range tests {
		name, state := districtIdentity(tt.code)
		require.Equal(t, tt.wantName, name)
		require.Equal(t, tt.wantState, state)
	}
}

func TestFetchSummariesAreDeterministic(t *testing.T) {
	client := NewDataGovClient("")
	ctx := context.Background()

	s1, err := client.FetchStateSummary(ctx, "MH", 2024)
	require.NoError(t, err)
	s2, err := client.FetchStateSummary(ctx, "MH", 2024)
	require.NoError(t, err)
	require.Equal(t, s1, s2)
	require.Equal(t, "MH", s1.StateCode)
	require.Equal(t, dataGovSource, s1.DataSource)

	n1, err := client.FetchNationalSummary(ctx, 2024)
	require.NoError(t, err)
	n2, err := client.FetchNationalSummary(ctx, 2024)
	require.NoError(t, err)
	require.Equal(t, n1, n2)
	require.Equal(t, 28, n1.TotalStates)
}

func TestCheckHealthWithoutKeyIsHealthy(t *testing.T) {
	client := NewDataGovClient("")

	health := client.CheckHealth(context.Background())
	require.Equal(t, "healthy", health.OverallStatus)
	for _, status := range health.Endpoints {
		require.Equal(t, "healthy", status)
	}
}

func TestRound2(t *testing.T) {
	require.Equal(t, 25.0, round2(25.004))
	require.Equal(t, 25.01, round2(25.005))
	require.Equal(t, 0.0, round2(0))

	// Negative values round away from zero, not toward it.
	require.Equal(t, -20.0, round2(-20.0))
	require.Equal(t, -25.01, round2(-25.005))
	require.Equal(t, -25.0, round2(-25.004))
}
