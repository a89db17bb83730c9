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

// SavedHandler handles saved-recipe HTTP requests.
type SavedHandler struct {
	service service.SavedService
	logger  zerolog.Logger
}

// NewSavedHandler creates a new saved-recipe handler.
func NewSavedHandler(service service.SavedService, logger zerolog.Logger) *SavedHandler {
	return &SavedHandler{
		service: service,
		logger:  logger.With().Str("handler", "saved").Logger(),
	}
}

// Save handles POST /recipes/{id}/save requests.
// Expecting path: /recipes/{id}/save
func (h *SavedHandler) Save(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	recipeID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/recipes/"), "/save")
	if recipeID == "" || strings.Contains(recipeID, "/") {
		writeError(w, http.StatusBadRequest, "recipe ID is required", h.logger)
		return
	}

	var req model.SaveRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if err := h.service.Save(r.Context(), userID, recipeID, &req); err != nil {
		writeDomainError(w, err, "failed to save recipe", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.OKResponse{OK: true})
}

// List handles GET /users/me/saved requests.
func (h *SavedHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	saved, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err, "failed to list saved recipes", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.SavedList{Items: saved})
}

// Unsave handles DELETE /users/me/saved/{recipe_id} requests.
func (h *SavedHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	recipeID := strings.TrimPrefix(r.URL.Path, "/users/me/saved/")
	if recipeID == "" || strings.Contains(recipeID, "/") {
		writeError(w, http.StatusBadRequest, "recipe ID is required", h.logger)
		return
	}

	if err := h.service.Unsave(r.Context(), userID, recipeID); err != nil {
		writeDomainError(w, err, "failed to remove saved recipe", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.OKResponse{OK: true})
}

func (h *SavedHandler) requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authorization header required", h.logger)
		return uuid.Nil, false
	}
	return userID, true
}
