package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"planner/internal/logger"
	"planner/internal/service"
)

// GetReport serves GET /reports/{startDate}/{endDate}.
func (h *TaskHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN: generate report")

	startDate := chi.URLParam(r, "startDate")
	endDate := chi.URLParam(r, "endDate")

	rep, err := h.taskService.GenerateReport(r.Context(), startDate, endDate)
	if err != nil {
		if !handleBusinessError(w, err) {
			logger.Error("HTTP: service error", err, zap.String("operation", "generate_report"))
			responseWithError(w, http.StatusInternalServerError, service.CodeStorage, err.Error())
		}
		return
	}

	logger.Info("HTTP_OUT: report generated",
		zap.String("start", startDate),
		zap.String("end", endDate),
		zap.Duration("ms", time.Since(start)))
	responseWithJSON(w, http.StatusOK, rep)
}

// GetCalendar serves GET /calendar/{startDate}/{endDate}: the cell
// classification for every day of the range.
func (h *TaskHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN: classify calendar")

	startDate := chi.URLParam(r, "startDate")
	endDate := chi.URLParam(r, "endDate")

	days, err := h.taskService.ClassifyCalendar(r.Context(), startDate, endDate)
	if err != nil {
		if !handleBusinessError(w, err) {
			logger.Error("HTTP: service error", err, zap.String("operation", "classify_calendar"))
			responseWithError(w, http.StatusInternalServerError, service.CodeStorage, err.Error())
		}
		return
	}

	logger.Info("HTTP_OUT: calendar classified",
		zap.Int("days", len(days)),
		zap.Duration("ms", time.Since(start)))
	responseWithJSON(w, http.StatusOK, days)
}
