package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

func currentYear() int {
	return time.Now().Year()
}

func yearFromQuery(r *http.Request, fallback int) (int, bool) {
	yearParam := r.URL.Query().Get("year")
	if yearParam == "" {
		return fallback, true
	}
	parsed, err := strconv.Atoi(yearParam)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// GetStateSummary serves GET /summary/state/{state_code}?year=YYYY.
func GetStateSummary(w http.ResponseWriter, r *http.Request) {
	stateCode := mux.Vars(r)["state_code"]

	year, ok := yearFromQuery(r, currentYear())
	if !ok {
		http.Error(w, "Invalid year parameter", http.StatusBadRequest)
		return
	}

	summary, err := dataClient.FetchStateSummary(r.Context(), stateCode, year)
	if err != nil {
		log.Printf("Error fetching state summary for %s: %v", stateCode, err)
		http.Error(w, "State summary unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, summary)
}

// GetNationalSummary serves GET /summary/national?year=YYYY.
func GetNationalSummary(w http.ResponseWriter, r *http.Request) {
	year, ok := yearFromQuery(r, currentYear())
	if !ok {
		http.Error(w, "Invalid year parameter", http.StatusBadRequest)
		return
	}

	summary, err := dataClient.FetchNationalSummary(r.Context(), year)
	if err != nil {
		log.Printf("Error fetching national summary: %v", err)
		http.Error(w, "National summary unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, summary)
}
