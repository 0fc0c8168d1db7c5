package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"mgnrega_api/services"
)

func TestGetStateSummaryEndpoint(t *testing.T) {
	router := setupRouter(t)
	router.HandleFunc("/summary/state/{state_code}", GetStateSummary).Methods("GET")

	rec := doRequest(t, router, http.MethodGet, "/summary/state/MH?year=2024", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Cache-Control"))

	var summary services.StateSummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	require.Equal(t, "MH", summary.StateCode)
	require.Equal(t, 2024, summary.Year)
	require.Positive(t, summary.TotalDistricts)
}

func TestGetNationalSummaryEndpoint(t *testing.T) {
	router := setupRouter(t)
	router.HandleFunc("/summary/national", GetNationalSummary).Methods("GET")

	rec := doRequest(t, router, http.MethodGet, "/summary/national?year=2024", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary services.NationalSummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	require.Equal(t, 2024, summary.Year)
	require.Equal(t, 28, summary.TotalStates)

	rec = doRequest(t, router, http.MethodGet, "/summary/national?year=abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
