package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"planner/internal/logger"
	"planner/internal/service"
)

// handleBusinessError writes a structured failure response when err is a
// BusinessError and reports whether it handled the error.
func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: business error",
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	responseWithJSON(w, statusCode, map[string]any{
		"error":   businessErr.Code,
		"message": businessErr.Message,
		"details": businessErr.Details,
	})
	return true
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeStorage:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
