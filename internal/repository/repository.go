package repository

import (
	"context"

	"platepin/internal/model"

	"github.com/google/uuid"
)

// UserRepository defines the interface for account data access operations.
type UserRepository interface {
	// Create inserts a new user. Returns model.ErrDuplicateEmail if the email
	// is already registered (case-insensitively).
	Create(ctx context.Context, user *model.User) error

	// GetByEmail retrieves a user by email. Returns nil when not found.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID retrieves a user by ID. Returns nil when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// SavedRecipeRepository defines the interface for saved-recipe data access.
type SavedRecipeRepository interface {
	// Upsert inserts a saved recipe, or replaces the existing row for the same
	// (user, recipe_id). Re-saving a recipe never creates a duplicate entry.
	Upsert(ctx context.Context, userID uuid.UUID, saved *model.SavedRecipe) error

	// ListByUser retrieves all saved recipes for a user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.SavedRecipe, error)

	// DeleteByRecipeID removes all saved rows for the given recipe ID and
	// returns the number of rows removed.
	DeleteByRecipeID(ctx context.Context, userID uuid.UUID, recipeID string) (int64, error)
}

// PantryRepository defines the interface for pantry data access operations.
type PantryRepository interface {
	// Upsert creates or replaces the item keyed by the case-normalized name.
	// The stored name is taken from the request, so re-upserting with a
	// differently-cased name recases the entry.
	Upsert(ctx context.Context, userID uuid.UUID, item *model.PantryItem) (*model.PantryItem, error)

	// ListByUser retrieves all pantry items for a user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.PantryItem, error)

	// DeleteByName removes the item matching the name case-insensitively and
	// returns the number of rows removed.
	DeleteByName(ctx context.Context, userID uuid.UUID, name string) (int64, error)
}
