package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

type LocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DetectDistrict serves POST /detect-district, resolving GPS
// coordinates to the nearest known district.
func DetectDistrict(w http.ResponseWriter, r *http.Request) {
	var req LocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Printf("Received district detection request for %.4f, %.4f", req.Latitude, req.Longitude)

	detected, err := locationService.GetDistrictFromCoordinates(req.Latitude, req.Longitude)
	if err != nil {
		writeServiceError(w, err, "District not found for given coordinates")
		return
	}
	if detected == nil {
		http.Error(w, "District not found for given coordinates", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"district":      detected.District,
		"state":         detected.State,
		"district_code": detected.DistrictCode,
		"coordinates": map[string]float64{
			"latitude":  req.Latitude,
			"longitude": req.Longitude,
		},
	})
}

// GetDistrictsByState serves GET /districts/{state}.
func GetDistrictsByState(w http.ResponseWriter, r *http.Request) {
	state := mux.Vars(r)["state"]

	districts := locationService.GetDistrictsByState(state)

	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state":     state,
		"districts": districts,
	})
}
