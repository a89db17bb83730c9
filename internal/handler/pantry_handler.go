package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"platepin/internal/middleware"
	"platepin/internal/model"
	"platepin/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PantryHandler handles pantry HTTP requests.
type PantryHandler struct {
	service service.PantryService
	logger  zerolog.Logger
}

// NewPantryHandler creates a new pantry handler.
func NewPantryHandler(service service.PantryService, logger zerolog.Logger) *PantryHandler {
	return &PantryHandler{
		service: service,
		logger:  logger.With().Str("handler", "pantry").Logger(),
	}
}

// Collection handles GET, PUT and POST /pantry requests.
func (h *PantryHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPut, http.MethodPost:
		h.upsert(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}

func (h *PantryHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err, "failed to list pantry items", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.PantryList{Items: items})
}

func (h *PantryHandler) upsert(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req model.PantryUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	item, err := h.service.Upsert(r.Context(), userID, &req)
	if err != nil {
		writeDomainError(w, err, "failed to upsert pantry item", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /pantry/{name} requests.
func (h *PantryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	// r.URL.Path is already percent-decoded by the time we see it.
	name := strings.TrimPrefix(r.URL.Path, "/pantry/")
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "item name is required", h.logger)
		return
	}

	if err := h.service.Remove(r.Context(), userID, name); err != nil {
		writeDomainError(w, err, "failed to remove pantry item", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.OKResponse{OK: true})
}

func (h *PantryHandler) requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authorization header required", h.logger)
		return uuid.Nil, false
	}
	return userID, true
}
