// Package client is the remote store client for the platepin API. It wraps
// each logical operation as a single authenticated request and normalizes all
// failures: non-success responses are parsed for their detail message, and
// transport failures surface as a generic network error. There is no retry
// and no timeout beyond the HTTP client's own.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"platepin/internal/model"

	"github.com/rs/zerolog"
)

// TokenSource supplies the current bearer token. An empty string means no
// active session; the request is then sent unauthenticated.
type TokenSource interface {
	Token() string
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// Client talks to a platepin API server.
type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
	logger  zerolog.Logger
}

// New creates a remote store client. The token source is passed in explicitly
// so the session dependency stays visible and testable.
func New(baseURL string, tokens TokenSource, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger.With().Str("component", "api-client").Logger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, email, password string) (*model.User, error) {
	var user model.User
	err := c.do(ctx, http.MethodPost, "/auth/register",
		model.Credentials{Email: email, Password: password}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	var token model.TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login",
		model.Credentials{Email: email, Password: password}, &token)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Profile fetches the current user's profile, verifying the session token.
func (c *Client) Profile(ctx context.Context) (*model.Profile, error) {
	var profile model.Profile
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Health checks server liveness.
func (c *Client) Health(ctx context.Context) (*model.HealthResponse, error) {
	var health model.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// SearchRecipes finds catalog recipes using every given ingredient.
func (c *Client) SearchRecipes(ctx context.Context, ingredients []string) ([]model.RecipeRecord, error) {
	var list model.RecipeList
	err := c.do(ctx, http.MethodPost, "/recipes/search",
		model.SearchRequest{Ingredients: ingredients}, &list)
	if err != nil {
		return nil, err
	}
	return list.Items, nil
}

// GenerateAIRecipes requests AI-generated recipes. Returned recipe IDs are
// fresh on every call.
func (c *Client) GenerateAIRecipes(ctx context.Context, ingredients []string, filters *model.AIFilters) ([]model.RecipeRecord, error) {
	var list model.RecipeList
	err := c.do(ctx, http.MethodPost, "/recipes/ai",
		model.AIRequest{Ingredients: ingredients, Filters: filters}, &list)
	if err != nil {
		return nil, err
	}
	return list.Items, nil
}

// SaveRecipe persists a recipe to the user's profile.
func (c *Client) SaveRecipe(ctx context.Context, recipeID string, req *model.SaveRecipeRequest) error {
	var ok model.OKResponse
	return c.do(ctx, http.MethodPost, "/recipes/"+url.PathEscape(recipeID)+"/save", req, &ok)
}

// ListSaved fetches the user's saved recipes.
func (c *Client) ListSaved(ctx context.Context) ([]model.SavedRecipe, error) {
	var list model.SavedList
	if err := c.do(ctx, http.MethodGet, "/users/me/saved", nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// UnsaveRecipe removes a saved recipe by its recipe ID.
func (c *Client) UnsaveRecipe(ctx context.Context, recipeID string) error {
	var ok model.OKResponse
	return c.do(ctx, http.MethodDelete, "/users/me/saved/"+url.PathEscape(recipeID), nil, &ok)
}

// GetPantry fetches the user's pantry items.
func (c *Client) GetPantry(ctx context.Context) ([]model.PantryItem, error) {
	var list model.PantryList
	if err := c.do(ctx, http.MethodGet, "/pantry", nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// UpsertPantryItem creates or replaces a pantry item by name and returns the
// item as stored by the server.
func (c *Client) UpsertPantryItem(ctx context.Context, req *model.PantryUpsertRequest) (*model.PantryItem, error) {
	var item model.PantryItem
	if err := c.do(ctx, http.MethodPut, "/pantry", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeletePantryItem removes a pantry item by name.
func (c *Client) DeletePantryItem(ctx context.Context, name string) error {
	var ok model.OKResponse
	return c.do(ctx, http.MethodDelete, "/pantry/"+url.PathEscape(name), nil, &ok)
}

// do performs one request: marshals the body, attaches the bearer token when
// present, and decodes either the expected response or the error envelope.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug().Str("method", method).Str("path", path).Msg("api request")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &model.APIError{
			Status: resp.StatusCode,
			Detail: parseDetail(respBody, resp.Status),
		}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("client: unmarshal response: %w", err)
		}
	}

	return nil
}

// parseDetail extracts the detail message from an error body, falling back to
// the HTTP status text when the body is not the expected envelope.
func parseDetail(body []byte, status string) string {
	var envelope model.ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Detail != "" {
		return envelope.Detail
	}
	return status
}
