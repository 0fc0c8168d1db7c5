package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"mgnrega_api/services"
	"mgnrega_api/store"
)

var (
	mgnregaService  *services.MGNREGAService
	locationService *services.LocationService
	dataClient      *services.DataGovClient
)

// Init wires the shared service instances used by all handlers.
func Init(service *services.MGNREGAService, location *services.LocationService, client *services.DataGovClient) {
	mgnregaService = service
	locationService = location
	dataClient = client
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeServiceError(w http.ResponseWriter, err error, notFoundMsg string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Message, http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, notFoundMsg, http.StatusNotFound)
	default:
		log.Printf("Internal error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// GetDistrictData serves GET /data/{district_code}?year=YYYY.
func GetDistrictData(w http.ResponseWriter, r *http.Request) {
	districtCode := mux.Vars(r)["district_code"]

	year := 0
	if yearParam := r.URL.Query().Get("year"); yearParam != "" {
		parsed, err := strconv.Atoi(yearParam)
		if err != nil {
			http.Error(w, "Invalid year parameter", http.StatusBadRequest)
			return
		}
		year = parsed
	}

	log.Printf("Received data request for district %s, year %d", districtCode, year)

	data, err := mgnregaService.GetDistrictData(r.Context(), districtCode, year)
	if err != nil {
		writeServiceError(w, err, "District data not found")
		return
	}

	if data.IsCached {
		w.Header().Set("Cache-Control", "public, max-age=300")
	}
	writeJSON(w, http.StatusOK, data)
}

// GetDistrictStats serves GET /stats/{district_code}.
func GetDistrictStats(w http.ResponseWriter, r *http.Request) {
	districtCode := mux.Vars(r)["district_code"]

	stats, err := mgnregaService.GetDistrictStats(r.Context(), districtCode)
	if err != nil {
		writeServiceError(w, err, "District statistics not found")
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, http.StatusOK, stats)
}

type ComparisonRequest struct {
	DistrictCodes []string `json:"district_codes"`
	Year          int      `json:"year"`
}

// CompareDistricts serves POST /compare.
func CompareDistricts(w http.ResponseWriter, r *http.Request) {
	var req ComparisonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Printf("Received comparison request for %d districts", len(req.DistrictCodes))

	comparison, err := mgnregaService.CompareDistricts(r.Context(), req.DistrictCodes, req.Year)
	if err != nil {
		writeServiceError(w, err, "District data not found")
		return
	}
	writeJSON(w, http.StatusOK, comparison)
}

// RefreshData serves GET /refresh-data, triggering a manual bulk
// refresh.
func RefreshData(w http.ResponseWriter, r *http.Request) {
	result, err := mgnregaService.RefreshAllData(r.Context())
	if err != nil {
		writeServiceError(w, err, "No cached districts to refresh")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Data refresh completed",
		"total":     result.Total,
		"succeeded": result.Succeeded,
	})
}

// GetCacheStatus serves GET /cache-status with the per-data-type
// freshness report plus a best-effort upstream health probe.
func GetCacheStatus(w http.ResponseWriter, r *http.Request) {
	report, err := mgnregaService.CacheStatus(r.Context())
	if err != nil {
		writeServiceError(w, err, "Cache status not available")
		return
	}

	response := map[string]interface{}{
		"data_types":     report.DataTypes,
		"overall_status": report.OverallStatus,
		"generated_at":   report.GeneratedAt,
		"api_health":     report.APIHealth,
	}
	if dataClient != nil {
		response["upstream"] = dataClient.CheckHealth(r.Context())
	}
	writeJSON(w, http.StatusOK, response)
}
