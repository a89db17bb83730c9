// Package mealdb is a client for TheMealDB, the static recipe catalog behind
// ingredient search. Catalog recipe IDs are stable across calls.
package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"platepin/internal/model"

	"github.com/rs/zerolog"
)

// Client talks to a TheMealDB-compatible JSON API.
type Client struct {
	baseURL    string
	maxResults int
	http       *http.Client
	logger     zerolog.Logger
}

// NewClient creates a catalog client. maxResults caps the number of full
// lookups performed per search.
func NewClient(baseURL string, maxResults int, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxResults: maxResults,
		http:       &http.Client{Timeout: 15 * time.Second},
		logger:     logger.With().Str("component", "mealdb").Logger(),
	}
}

// filterResponse is the envelope of filter.php. Meals is null when nothing
// matches.
type filterResponse struct {
	Meals []struct {
		IDMeal string `json:"idMeal"`
	} `json:"meals"`
}

// lookupResponse is the envelope of lookup.php. Every meal field is a string
// or null, including the 20 numbered ingredient/measure slots, so meals are
// decoded as loose maps.
type lookupResponse struct {
	Meals []map[string]*string `json:"meals"`
}

// SearchByIngredients returns catalog recipes that use every one of the given
// ingredients. Each ingredient is filtered separately and the ID sets are
// intersected before the full records are looked up.
func (c *Client) SearchByIngredients(ctx context.Context, ingredients []string) ([]model.RecipeRecord, error) {
	ids, err := c.intersectIDs(ctx, ingredients)
	if err != nil {
		return nil, err
	}

	if len(ids) > c.maxResults {
		ids = ids[:c.maxResults]
	}

	recipes := make([]model.RecipeRecord, 0, len(ids))
	for _, id := range ids {
		recipe, err := c.lookup(ctx, id)
		if err != nil {
			return nil, err
		}
		if recipe != nil {
			recipes = append(recipes, *recipe)
		}
	}

	c.logger.Debug().
		Int("ingredient_count", len(ingredients)).
		Int("result_count", len(recipes)).
		Msg("catalog search completed")

	return recipes, nil
}

// intersectIDs filters by each ingredient and keeps only IDs present in every
// result set, preserving the order of the first ingredient's results.
func (c *Client) intersectIDs(ctx context.Context, ingredients []string) ([]string, error) {
	var ordered []string
	for i, ingredient := range ingredients {
		ingredient = strings.TrimSpace(ingredient)
		if ingredient == "" {
			continue
		}

		ids, err := c.filter(ctx, ingredient)
		if err != nil {
			return nil, err
		}

		if i == 0 || ordered == nil {
			ordered = ids
			continue
		}

		present := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			present[id] = struct{}{}
		}

		var kept []string
		for _, id := range ordered {
			if _, ok := present[id]; ok {
				kept = append(kept, id)
			}
		}
		ordered = kept

		if len(ordered) == 0 {
			return nil, nil
		}
	}

	return ordered, nil
}

// filter returns the meal IDs that use the given ingredient.
func (c *Client) filter(ctx context.Context, ingredient string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/filter.php?i=%s", c.baseURL, url.QueryEscape(ingredient))

	var result filterResponse
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result.Meals))
	for _, m := range result.Meals {
		ids = append(ids, m.IDMeal)
	}
	return ids, nil
}

// lookup fetches the full record for a meal ID. Returns nil when the catalog
// has no such meal.
func (c *Client) lookup(ctx context.Context, id string) (*model.RecipeRecord, error) {
	endpoint := fmt.Sprintf("%s/lookup.php?i=%s", c.baseURL, url.QueryEscape(id))

	var result lookupResponse
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}

	if len(result.Meals) == 0 {
		c.logger.Debug().Str("meal_id", id).Msg("meal not found in catalog")
		return nil, nil
	}

	recipe := mapMeal(result.Meals[0])
	return &recipe, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("mealdb: create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mealdb: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("mealdb: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mealdb: unexpected status %s", resp.Status)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("mealdb: unmarshal response: %w", err)
	}

	return nil
}

// mapMeal converts a raw catalog meal into a RecipeRecord.
func mapMeal(meal map[string]*string) model.RecipeRecord {
	recipe := model.RecipeRecord{
		ID:            field(meal, "idMeal"),
		Title:         field(meal, "strMeal"),
		Image:         field(meal, "strMealThumb"),
		Cuisine:       field(meal, "strArea"),
		MealType:      field(meal, "strCategory"),
		Tags:          splitTags(field(meal, "strTags")),
		Instructions:  splitInstructions(field(meal, "strInstructions")),
		IsAiGenerated: false,
	}

	recipe.Ingredients = []model.Ingredient{}
	for i := 1; i <= 20; i++ {
		name := strings.TrimSpace(field(meal, "strIngredient"+strconv.Itoa(i)))
		if name == "" {
			continue
		}
		recipe.Ingredients = append(recipe.Ingredients, model.Ingredient{
			Name:    name,
			Measure: strings.TrimSpace(field(meal, "strMeasure"+strconv.Itoa(i))),
		})
	}

	return recipe
}

func field(meal map[string]*string, key string) string {
	if v, ok := meal[key]; ok && v != nil {
		return *v
	}
	return ""
}

func splitTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func splitInstructions(raw string) []string {
	if raw == "" {
		return []string{}
	}
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	steps := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			steps = append(steps, l)
		}
	}
	return steps
}
