package handler

import (
	"net/http"

	"github.com/devhuddle/doubtboard/internal/service"
)

// StatsHandler serves the sidebar stats endpoint.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// HandleStats returns the current aggregate counts.
//
// GET /api/stats
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
