package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectDistrictEndpoint(t *testing.T) {
	router := setupRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/detect-district", LocationRequest{
		Latitude:  26.9124,
		Longitude: 75.7873,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	require.Equal(t, "RJ001", payload["district_code"])
	require.Equal(t, "Jaipur", payload["district"])
}

func TestDetectDistrictOutsideIndia(t *testing.T) {
	router := setupRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/detect-district", LocationRequest{
		Latitude:  48.8566,
		Longitude: 2.3522,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetectDistrictNoNearbyDistrict(t *testing.T) {
	router := setupRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/detect-district", LocationRequest{
		Latitude:  34.15,
		Longitude: 77.57,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetDistrictsByStateEndpoint(t *testing.T) {
	router := setupRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/districts/Maharashtra", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		State     string `json:"state"`
		Districts []struct {
			Code string `json:"district_code"`
			Name string `json:"district_name"`
		} `json:"districts"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	require.Equal(t, "Maharashtra", payload.State)
	require.Len(t, payload.Districts, 4)
}
