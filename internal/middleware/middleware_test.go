package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"platepin/internal/auth"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(t *testing.T, wantUser *uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wantUser != nil {
			userID, ok := UserID(r.Context())
			require.True(t, ok)
			assert.Equal(t, *wantUser, userID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuth_PublicPathsSkipVerification(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	handler := BearerAuth(tokens, zerolog.Nop())(okHandler(t, nil))

	for _, path := range []string{"/health", "/auth/register", "/auth/login", "/recipes/search", "/recipes/ai"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	handler := BearerAuth(tokens, zerolog.Nop())(okHandler(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/users/me/saved", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var envelope map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Authorization header required", envelope["detail"])
}

func TestWriteDetail_QuotesInDetailStayValidJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	writeDetail(rec, http.StatusBadRequest, `name "eggs" is taken`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var envelope map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, `name "eggs" is taken`, envelope["detail"])
}

func TestBearerAuth_InvalidToken(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	handler := BearerAuth(tokens, zerolog.Nop())(okHandler(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/pantry", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var envelope map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Invalid or expired token", envelope["detail"])
}

func TestBearerAuth_WrongSecret(t *testing.T) {
	issuer := auth.NewTokenManager("issuer-secret", time.Hour)
	token, err := issuer.Issue(uuid.New(), "a@b.com")
	require.NoError(t, err)

	verifier := auth.NewTokenManager("other-secret", time.Hour)
	handler := BearerAuth(verifier, zerolog.Nop())(okHandler(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/pantry", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuth_ValidTokenPutsUserInContext(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	userID := uuid.New()
	token, err := tokens.Issue(userID, "a@b.com")
	require.NoError(t, err)

	handler := BearerAuth(tokens, zerolog.Nop())(okHandler(t, &userID))

	req := httptest.NewRequest(http.MethodGet, "/users/me/saved", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBearerAuth_ExpiredToken(t *testing.T) {
	tokens := auth.NewTokenManager("secret", -time.Minute)
	token, err := tokens.Issue(uuid.New(), "a@b.com")
	require.NoError(t, err)

	handler := BearerAuth(tokens, zerolog.Nop())(okHandler(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/pantry", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run for preflight")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/recipes/search", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRecovery_PanicBecomes500(t *testing.T) {
	handler := Recovery(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var envelope map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "internal server error", envelope["detail"])
}
