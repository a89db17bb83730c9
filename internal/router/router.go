package router

import (
	"net/http"
	"strings"
	"time"

	"platepin/internal/auth"
	"platepin/internal/handler"
	"platepin/internal/middleware"
	"platepin/internal/model"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	authHandler *handler.AuthHandler,
	recipeHandler *handler.RecipeHandler,
	savedHandler *handler.SavedHandler,
	pantryHandler *handler.PantryHandler,
	tokens *auth.TokenManager,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		handler.WriteHealth(w, model.HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC(),
		})
	})

	mux.HandleFunc("/auth/register", authHandler.Register)
	mux.HandleFunc("/auth/login", authHandler.Login)
	mux.HandleFunc("/auth/me", authHandler.Me)

	mux.HandleFunc("/recipes/search", recipeHandler.Search)
	mux.HandleFunc("/recipes/ai", recipeHandler.Generate)

	// Save recipe: POST /recipes/{id}/save
	mux.HandleFunc("/recipes/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/save") {
			savedHandler.Save(w, r)
			return
		}
		http.NotFound(w, r)
	})

	// Saved collection: GET /users/me/saved, DELETE /users/me/saved/{recipe_id}
	mux.HandleFunc("/users/me/saved", savedHandler.List)
	mux.HandleFunc("/users/me/saved/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/me/saved/" {
			savedHandler.List(w, r)
			return
		}
		savedHandler.Unsave(w, r)
	})

	// Pantry: GET/PUT/POST /pantry, DELETE /pantry/{name}
	mux.HandleFunc("/pantry", pantryHandler.Collection)
	mux.HandleFunc("/pantry/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/pantry/" {
			pantryHandler.Collection(w, r)
			return
		}
		pantryHandler.Delete(w, r)
	})

	// Apply middleware in order: Recovery -> Logging -> CORS -> BearerAuth
	var h http.Handler = mux
	h = middleware.BearerAuth(tokens, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
