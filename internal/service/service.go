package service

import (
	"context"

	"platepin/internal/model"

	"github.com/google/uuid"
)

// AuthService defines account and token operations.
type AuthService interface {
	// Register creates a new account. Fails with model.ErrDuplicateEmail when
	// the email is already registered.
	Register(ctx context.Context, email, password string) (*model.User, error)

	// Login verifies credentials and returns a signed bearer token.
	Login(ctx context.Context, email, password string) (string, error)

	// Profile returns the profile of the given user.
	Profile(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
}

// RecipeService defines recipe search and generation.
type RecipeService interface {
	// Search finds catalog recipes using every given ingredient.
	Search(ctx context.Context, ingredients []string) ([]model.RecipeRecord, error)

	// Generate produces AI recipes from the given ingredients. Generated IDs
	// are fresh on every call.
	Generate(ctx context.Context, ingredients []string, filters *model.AIFilters) ([]model.RecipeRecord, error)
}

// SavedService defines the saved-recipe operations.
type SavedService interface {
	// Save persists a recipe to the user's profile. Saving an already-saved
	// recipe ID replaces the stored body instead of duplicating the entry.
	Save(ctx context.Context, userID uuid.UUID, recipeID string, req *model.SaveRecipeRequest) error

	// List retrieves the user's saved recipes, newest first.
	List(ctx context.Context, userID uuid.UUID) ([]model.SavedRecipe, error)

	// Unsave removes all saved entries for a recipe ID. Fails with
	// model.ErrRecipeNotFound when nothing was saved under that ID.
	Unsave(ctx context.Context, userID uuid.UUID, recipeID string) error
}

// PantryService defines the pantry operations.
type PantryService interface {
	// Upsert creates or replaces an item keyed case-insensitively by name and
	// returns the item as stored.
	Upsert(ctx context.Context, userID uuid.UUID, req *model.PantryUpsertRequest) (*model.PantryItem, error)

	// List retrieves the user's pantry, newest first.
	List(ctx context.Context, userID uuid.UUID) ([]model.PantryItem, error)

	// Remove deletes the item matching the name case-insensitively.
	Remove(ctx context.Context, userID uuid.UUID, name string) error
}

// CatalogClient is the upstream recipe catalog used by search.
type CatalogClient interface {
	SearchByIngredients(ctx context.Context, ingredients []string) ([]model.RecipeRecord, error)
}

// GeneratorClient is the upstream AI recipe generator.
type GeneratorClient interface {
	Generate(ctx context.Context, ingredients []string, filters *model.AIFilters) ([]model.RecipeRecord, error)
}
