package model

import "time"

// SavedRecipe is a recipe persisted to a user's profile. SavedID is the
// server-assigned persistence identity; RecipeID is the source-scoped recipe
// identity. RecipeID is unique within a user's saved set.
type SavedRecipe struct {
	SavedID          string       `json:"id"`
	RecipeID         string       `json:"recipe_id"`
	Source           string       `json:"source"`
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
	CreatedAt        time.Time    `json:"created_at"`
}

// SavedList wraps the saved-recipe collection returned by GET /users/me/saved.
type SavedList struct {
	Items []SavedRecipe `json:"items"`
}

// OKResponse acknowledges a mutation with no payload.
type OKResponse struct {
	OK bool `json:"ok"`
}
