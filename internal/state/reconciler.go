package state

import (
	"context"
	"fmt"
	"strings"
	"time"

	"platepin/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RemoteSaved is the subset of the API client the reconciler needs.
type RemoteSaved interface {
	SaveRecipe(ctx context.Context, recipeID string, req *model.SaveRecipeRequest) error
	ListSaved(ctx context.Context) ([]model.SavedRecipe, error)
	UnsaveRecipe(ctx context.Context, recipeID string) error
}

// Reconciler keeps the local saved-recipe collection in sync with the remote
// store. The collection is keyed by recipe ID, so saving the same recipe
// twice updates the existing entry instead of duplicating it. Every mutation
// goes to the server first; local state changes only after the server accepts.
type Reconciler struct {
	remote RemoteSaved
	logger zerolog.Logger

	byRecipe map[string]*model.SavedRecipe
	order    []string
}

// NewReconciler creates an empty reconciler. Call Hydrate after login to load
// the server's collection.
func NewReconciler(remote RemoteSaved, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		remote:   remote,
		logger:   logger.With().Str("component", "saved-reconciler").Logger(),
		byRecipe: make(map[string]*model.SavedRecipe),
	}
}

// Hydrate replaces the local collection with the server's. Duplicate recipe
// IDs in the server response collapse to the first occurrence.
func (r *Reconciler) Hydrate(ctx context.Context) error {
	saved, err := r.remote.ListSaved(ctx)
	if err != nil {
		return fmt.Errorf("hydrate saved recipes: %w", err)
	}

	r.byRecipe = make(map[string]*model.SavedRecipe, len(saved))
	r.order = r.order[:0]
	for i := range saved {
		item := saved[i]
		if _, exists := r.byRecipe[item.RecipeID]; exists {
			continue
		}
		r.byRecipe[item.RecipeID] = &item
		r.order = append(r.order, item.RecipeID)
	}

	r.logger.Debug().Int("count", len(r.order)).Msg("saved recipes hydrated")
	return nil
}

// Save persists a recipe remotely, then reflects it locally. Saving a recipe
// that is already saved refreshes its snapshot in place. The local entry
// carries a placeholder saved ID until the next hydration.
func (r *Reconciler) Save(ctx context.Context, recipe model.RecipeRecord) error {
	req := saveRequestFrom(recipe)
	if err := r.remote.SaveRecipe(ctx, recipe.ID, req); err != nil {
		return fmt.Errorf("%w: %v", model.ErrSaveFailed, err)
	}

	entry := savedFrom(recipe)
	if existing, ok := r.byRecipe[recipe.ID]; ok {
		entry.SavedID = existing.SavedID
		entry.CreatedAt = existing.CreatedAt
		r.byRecipe[recipe.ID] = entry
		return nil
	}

	r.byRecipe[recipe.ID] = entry
	r.order = append([]string{recipe.ID}, r.order...)
	return nil
}

// Unsave removes a saved recipe remotely, then drops it locally.
func (r *Reconciler) Unsave(ctx context.Context, recipeID string) error {
	if err := r.remote.UnsaveRecipe(ctx, recipeID); err != nil {
		return fmt.Errorf("%w: %v", model.ErrUnsaveFailed, err)
	}

	delete(r.byRecipe, recipeID)
	kept := r.order[:0]
	for _, id := range r.order {
		if id != recipeID {
			kept = append(kept, id)
		}
	}
	r.order = kept
	return nil
}

// IsSaved reports whether the recipe is in the local collection. This is what
// the UI binds bookmark toggles to.
func (r *Reconciler) IsSaved(recipeID string) bool {
	_, ok := r.byRecipe[recipeID]
	return ok
}

// Saved returns the collection in display order, newest first.
func (r *Reconciler) Saved() []model.SavedRecipe {
	out := make([]model.SavedRecipe, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byRecipe[id])
	}
	return out
}

// Count returns the number of saved recipes.
func (r *Reconciler) Count() int {
	return len(r.order)
}

// Clear drops all local state without touching the server. Used on logout.
func (r *Reconciler) Clear() {
	r.byRecipe = make(map[string]*model.SavedRecipe)
	r.order = nil
}

func saveRequestFrom(recipe model.RecipeRecord) *model.SaveRecipeRequest {
	source := recipe.DerivedSource()
	return &model.SaveRecipeRequest{
		Title:            strings.TrimSpace(recipe.Title),
		Image:            recipe.Image,
		Source:           source,
		Cuisine:          recipe.Cuisine,
		MealType:         recipe.MealType,
		Tags:             recipe.Tags,
		Ingredients:      recipe.Ingredients,
		Instructions:     recipe.Instructions,
		TimeMinutes:      recipe.TimeMinutes,
		Servings:         recipe.Servings,
		Difficulty:       recipe.Difficulty,
		NutritionSummary: recipe.NutritionSummary,
		IsAiGenerated:    recipe.IsAiGenerated,
	}
}

func savedFrom(recipe model.RecipeRecord) *model.SavedRecipe {
	return &model.SavedRecipe{
		SavedID:          "local-" + uuid.NewString(),
		RecipeID:         recipe.ID,
		Source:           recipe.DerivedSource(),
		Title:            strings.TrimSpace(recipe.Title),
		Image:            recipe.Image,
		Cuisine:          recipe.Cuisine,
		MealType:         recipe.MealType,
		Tags:             recipe.Tags,
		Ingredients:      recipe.Ingredients,
		Instructions:     recipe.Instructions,
		TimeMinutes:      recipe.TimeMinutes,
		Servings:         recipe.Servings,
		Difficulty:       recipe.Difficulty,
		NutritionSummary: recipe.NutritionSummary,
		IsAiGenerated:    recipe.IsAiGenerated,
		CreatedAt:        time.Now().UTC(),
	}
}
