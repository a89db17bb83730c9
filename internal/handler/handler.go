package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"platepin/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// WriteHealth writes the health check response.
func WriteHealth(w http.ResponseWriter, h model.HealthResponse) {
	writeJSON(w, http.StatusOK, h)
}

// writeError writes the API error envelope with the given status and detail.
func writeError(w http.ResponseWriter, status int, detail string, logger zerolog.Logger) {
	logger.Error().Str("detail", detail).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Detail: detail})
}

// writeDomainError maps a service error onto an HTTP status and the error
// envelope. Unknown errors become opaque 500s.
func writeDomainError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, statusForCode(domainErr.Code), domainErr.Message, logger)
		return
	}

	writeError(w, http.StatusInternalServerError, fallback, logger)
}

func statusForCode(code string) int {
	switch code {
	case model.ErrCodeAuth, model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeDuplicateEmail:
		return http.StatusConflict
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidJSON, model.ErrCodeMissingField:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
