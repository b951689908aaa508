package http

import (
	"log/slog"
	"net/http"
)

func (s *Server) handleMonthlyStats(w http.ResponseWriter, r *http.Request) {
	months, err := s.reports.MonthlyStats(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to build monthly stats", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build monthly stats")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"months": months})
}

func (s *Server) handleRevenueStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.reports.RevenueStats(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to build revenue stats", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build revenue stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
