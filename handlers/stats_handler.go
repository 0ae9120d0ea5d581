package handlers

import (
	"net/http"

	"github.com/Dosada05/club-system/services"
	"github.com/Dosada05/club-system/stats"
)

type StatsHandler struct {
	matchService services.MatchService
}

func NewStatsHandler(matchService services.MatchService) *StatsHandler {
	return &StatsHandler{matchService: matchService}
}

// MatchCountsHandler serves per-member match counts for one time window.
// Query parameters: period (today|week|month|custom|all, default all),
// from/to as ISO dates for a custom period.
func (h *StatsHandler) MatchCountsHandler(w http.ResponseWriter, r *http.Request) {
	window := stats.TimeWindow{Period: stats.PeriodAll}
	if p := r.URL.Query().Get("period"); p != "" {
		window.Period = stats.Period(p)
	}
	if window.Period == stats.PeriodCustom {
		window.CustomStart = r.URL.Query().Get("from")
		window.CustomEnd = r.URL.Query().Get("to")
	}

	// Round-trip through the key so an unknown period is rejected the
	// same way the index would skip it.
	if _, ok := stats.ParseWindowKey(window.Key()); !ok {
		badRequestResponse(w, r, services.ErrInvalidTimeWindow)
		return
	}

	counts, err := h.matchService.MatchCounts(r.Context(), window)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	payload := jsonResponse{
		"window": window.Key(),
		"counts": counts,
	}
	if err := writeJSON(w, http.StatusOK, payload, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RefreshHandler is the bulk-change entry point: refetch both collections
// and drop every cached window.
func (h *StatsHandler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.matchService.InvalidateAll(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "refreshed"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
