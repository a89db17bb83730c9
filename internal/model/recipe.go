package model

// Recipe sources.
const (
	SourceAI      = "AI"
	SourceMealDB  = "TheMealDB"
)

// Ingredient is a single ingredient line within a recipe.
type Ingredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure"`
}

// RecipeRecord identifies a recipe regardless of where it came from.
// IDs minted by the AI generator are ephemeral: the "same" recipe gets a fresh
// ID on every generation call. Catalog IDs are stable across calls.
type RecipeRecord struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Image            string       `json:"image,omitempty"`
	Cuisine          string       `json:"cuisine,omitempty"`
	MealType         string       `json:"meal_type,omitempty"`
	Tags             []string     `json:"tags"`
	Ingredients      []Ingredient `json:"ingredients"`
	Instructions     []string     `json:"instructions"`
	TimeMinutes      int          `json:"time_minutes,omitempty"`
	Servings         int          `json:"servings,omitempty"`
	Difficulty       string       `json:"difficulty,omitempty"`
	NutritionSummary string       `json:"nutrition_summary,omitempty"`
	IsAiGenerated    bool         `json:"is_ai_generated"`
}

// DerivedSource maps the AI discriminant onto the persisted source enum.
func (r *RecipeRecord) DerivedSource() string {
	if r.IsAiGenerated {
		return SourceAI
	}
	return SourceMealDB
}

// SearchRequest is the payload for POST /recipes/search.
type SearchRequest struct {
	Ingredients []string `json:"ingredients"`
}

// AIFilters narrows AI recipe generation.
type AIFilters struct {
	Cuisine    string `json:"cuisine,omitempty"`
	MealType   string `json:"meal_type,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	MaxMinutes int    `json:"max_minutes,omitempty"`
}

// AIRequest is the payload for POST /recipes/ai.
type AIRequest struct {
	Ingredients []string   `json:"ingredients"`
	Filters     *AIFilters `json:"filters,omitempty"`
}

// RecipeList wraps a list of recipes returned by search or generation.
type RecipeList struct {
	Items []RecipeRecord `json:"items"`
}

// SaveRecipeRequest is the payload for POST /recipes/{id}/save. It carries the
// full recipe body so the server can persist AI recipes it has never seen.
type SaveRecipeRequest struct {
	Title            string       `json:"title"`
	Image            string       `json:"image,omitempty"`
	Source           string       `json:"source"`
	Cuisine          string       `json:"cuisine,omitempty"`
	MealType         string       `json:"meal_type,omitempty"`
	Tags             []string     `json:"tags"`
	Ingredients      []Ingredient `json:"ingredients"`
	Instructions     []string     `json:"instructions"`
	TimeMinutes      int          `json:"time_minutes,omitempty"`
	Servings         int          `json:"servings,omitempty"`
	Difficulty       string       `json:"difficulty,omitempty"`
	NutritionSummary string       `json:"nutrition_summary,omitempty"`
	IsAiGenerated    bool         `json:"is_ai_generated"`
}
