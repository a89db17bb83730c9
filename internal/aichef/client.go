// Package aichef generates recipes from a list of ingredients via an
// OpenAI-compatible chat-completions endpoint. Generated recipe IDs are
// ephemeral: every call mints fresh ones, even for identical input.
package aichef

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"platepin/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const systemPrompt = `You are a recipe generator. Given a list of available ingredients and optional filters, respond with a JSON array of 2 to 4 recipes. Each recipe is an object with keys: "title", "cuisine", "meal_type", "tags" (array of strings), "ingredients" (array of {"name", "measure"}), "instructions" (array of strings), "time_minutes" (integer), "servings" (integer), "difficulty" ("easy"|"medium"|"hard"), "nutrition_summary" (one sentence). Respond with the JSON array only, no prose.`

// chatMessage is a single chat-completion message.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the request body sent to the chat-completions endpoint.
type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// chatResponse is the top-level response envelope.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// generatedRecipe is the shape the model is prompted to emit.
type generatedRecipe struct {
	Title            string             `json:"title"`
	Cuisine          string             `json:"cuisine"`
	MealType         string             `json:"meal_type"`
	Tags             []string           `json:"tags"`
	Ingredients      []model.Ingredient `json:"ingredients"`
	Instructions     []string           `json:"instructions"`
	TimeMinutes      int                `json:"time_minutes"`
	Servings         int                `json:"servings"`
	Difficulty       string             `json:"difficulty"`
	NutritionSummary string             `json:"nutrition_summary"`
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float64) ClientOption {
	return func(c *Client) { c.temperature = t }
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	endpoint    string
	apiKey      string
	model       string
	temperature float64
	http        *http.Client
	logger      zerolog.Logger
}

// NewClient creates an AI recipe generation client.
func NewClient(endpoint, apiKey, aiModel string, logger zerolog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:    endpoint,
		apiKey:      apiKey,
		model:       aiModel,
		temperature: 0.7,
		http:        &http.Client{Timeout: 60 * time.Second},
		logger:      logger.With().Str("component", "aichef").Logger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Generate asks the model for recipes using the given ingredients and filters
// and assigns each result a fresh ID.
func (c *Client) Generate(ctx context.Context, ingredients []string, filters *model.AIFilters) ([]model.RecipeRecord, error) {
	reply, err := c.chat(ctx, userPrompt(ingredients, filters))
	if err != nil {
		return nil, err
	}

	var generated []generatedRecipe
	if err := json.Unmarshal([]byte(extractJSON(reply)), &generated); err != nil {
		c.logger.Error().Err(err).Msg("model reply was not valid recipe JSON")
		return nil, fmt.Errorf("aichef: unmarshal generated recipes: %w", err)
	}

	recipes := make([]model.RecipeRecord, 0, len(generated))
	for _, g := range generated {
		recipes = append(recipes, model.RecipeRecord{
			ID:               "ai-" + uuid.NewString(),
			Title:            g.Title,
			Cuisine:          g.Cuisine,
			MealType:         g.MealType,
			Tags:             orEmpty(g.Tags),
			Ingredients:      orEmptyIngredients(g.Ingredients),
			Instructions:     orEmpty(g.Instructions),
			TimeMinutes:      g.TimeMinutes,
			Servings:         g.Servings,
			Difficulty:       g.Difficulty,
			NutritionSummary: g.NutritionSummary,
			IsAiGenerated:    true,
		})
	}

	c.logger.Debug().Int("recipe_count", len(recipes)).Msg("recipes generated")
	return recipes, nil
}

func (c *Client) chat(ctx context.Context, prompt string) (string, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: c.temperature,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("aichef: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("aichef: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("aichef: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("aichef: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("aichef: API %s: %s", resp.Status, string(respBody))
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("aichef: unmarshal response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("aichef: empty response (no choices)")
	}

	return result.Choices[0].Message.Content, nil
}

func userPrompt(ingredients []string, filters *model.AIFilters) string {
	var b strings.Builder
	b.WriteString("Available ingredients: ")
	b.WriteString(strings.Join(ingredients, ", "))
	if filters != nil {
		if filters.Cuisine != "" {
			fmt.Fprintf(&b, "\nCuisine: %s", filters.Cuisine)
		}
		if filters.MealType != "" {
			fmt.Fprintf(&b, "\nMeal type: %s", filters.MealType)
		}
		if filters.Difficulty != "" {
			fmt.Fprintf(&b, "\nDifficulty: %s", filters.Difficulty)
		}
		if filters.MaxMinutes > 0 {
			fmt.Fprintf(&b, "\nMaximum total time: %d minutes", filters.MaxMinutes)
		}
	}
	return b.String()
}

// extractJSON strips markdown code fences some models wrap around JSON.
func extractJSON(reply string) string {
	reply = strings.TrimSpace(reply)
	if strings.HasPrefix(reply, "```") {
		reply = strings.TrimPrefix(reply, "```json")
		reply = strings.TrimPrefix(reply, "```")
		reply = strings.TrimSuffix(strings.TrimSpace(reply), "```")
	}
	return strings.TrimSpace(reply)
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyIngredients(s []model.Ingredient) []model.Ingredient {
	if s == nil {
		return []model.Ingredient{}
	}
	return s
}
