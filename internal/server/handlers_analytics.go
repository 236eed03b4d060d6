package server

import (
	"log"
	"net/http"
	"strconv"
	"time"
)

type analyticsOverview struct {
	Total         int            `json:"total"`
	ByStage       map[string]int `json:"by_stage"`
	ByRequisition map[string]int `json:"by_requisition"`
	ByStatus      map[string]int `json:"by_status"`
	ScoreBands    map[string]int `json:"score_bands"`
	FilterYear    *int           `json:"filter_year"`
	FilterMonth   *int           `json:"filter_month"`
}

// scoreBand buckets a total score into a 20-point band label.
func scoreBand(score int) string {
	switch {
	case score >= 80:
		return "80-100"
	case score >= 60:
		return "60-79"
	case score >= 40:
		return "40-59"
	case score >= 20:
		return "20-39"
	default:
		return "0-19"
	}
}

// handleAnalyticsOverview summarizes the hiring pipeline across all job
// calibrations: candidate counts per stage and per requisition, optionally
// restricted to an upload year and month.
func (s *Server) handleAnalyticsOverview(w http.ResponseWriter, r *http.Request) {
	year, ok := s.queryInt(w, r, "year")
	if !ok {
		return
	}
	month, ok := s.queryInt(w, r, "month")
	if !ok {
		return
	}
	if month != nil && (*month < 1 || *month > 12) {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Month must be between 1 and 12.")
		return
	}

	rows, err := s.store.ListCandidateAnalytics(r.Context())
	if err != nil {
		log.Printf("candidate analytics: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load analytics.")
		return
	}

	overview := analyticsOverview{
		ByStage:       map[string]int{},
		ByRequisition: map[string]int{},
		ByStatus:      map[string]int{},
		ScoreBands:    map[string]int{},
		FilterYear:    year,
		FilterMonth:   month,
	}
	for _, row := range rows {
		created := row.CreatedAt.UTC()
		if year != nil && created.Year() != *year {
			continue
		}
		if month != nil && created.Month() != time.Month(*month) {
			continue
		}
		overview.Total++
		overview.ByStage[row.Stage]++
		overview.ByStatus[string(row.Status)]++
		if row.Requisition != "" {
			overview.ByRequisition[row.Requisition]++
		}
		if row.TotalScore != nil {
			overview.ScoreBands[scoreBand(*row.TotalScore)]++
		}
	}

	s.jsonResponse(w, http.StatusOK, overview)
}

// queryInt parses an optional integer query parameter, writing a 422 on
// malformed input.
func (s *Server) queryInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Invalid "+name+" parameter.")
		return nil, false
	}
	return &v, true
}
