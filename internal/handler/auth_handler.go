package handler

import (
	"encoding/json"
	"net/http"

	"platepin/internal/middleware"
	"platepin/internal/model"
	"platepin/internal/service"

	"github.com/rs/zerolog"
)

// AuthHandler handles account and session HTTP requests.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("handler", "auth").Logger(),
	}
}

// Register handles POST /auth/register requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	user, err := h.service.Register(r.Context(), creds.Email, creds.Password)
	if err != nil {
		writeDomainError(w, err, "failed to register", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /auth/login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	token, err := h.service.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		writeDomainError(w, err, "failed to log in", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.TokenResponse{Access: token})
}

// Me handles GET /auth/me requests.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authorization header required", h.logger)
		return
	}

	profile, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err, "failed to load profile", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
