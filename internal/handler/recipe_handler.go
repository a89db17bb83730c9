package handler

import (
	"encoding/json"
	"net/http"

	"platepin/internal/model"
	"platepin/internal/service"

	"github.com/rs/zerolog"
)

// RecipeHandler handles recipe search and generation HTTP requests.
type RecipeHandler struct {
	service service.RecipeService
	logger  zerolog.Logger
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(service service.RecipeService, logger zerolog.Logger) *RecipeHandler {
	return &RecipeHandler{
		service: service,
		logger:  logger.With().Str("handler", "recipe").Logger(),
	}
}

// Search handles POST /recipes/search requests.
func (h *RecipeHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	recipes, err := h.service.Search(r.Context(), req.Ingredients)
	if err != nil {
		writeDomainError(w, err, "recipe search failed", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.RecipeList{Items: recipes})
}

// Generate handles POST /recipes/ai requests.
func (h *RecipeHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.AIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	recipes, err := h.service.Generate(r.Context(), req.Ingredients, req.Filters)
	if err != nil {
		writeDomainError(w, err, "AI recipe generation failed", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.RecipeList{Items: recipes})
}
