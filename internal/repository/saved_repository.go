package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"platepin/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// savedRecipeRepository implements SavedRecipeRepository using PostgreSQL.
// Tags, ingredients and instructions are stored as JSONB columns.
type savedRecipeRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSavedRecipeRepository creates a new PostgreSQL-backed saved-recipe repository.
func NewSavedRecipeRepository(pool *pgxpool.Pool, logger zerolog.Logger) SavedRecipeRepository {
	return &savedRecipeRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "saved_recipe").Logger(),
	}
}

// Upsert inserts a saved recipe or replaces the row for the same (user,
// recipe_id). The replacement keeps the original row ID and created_at so a
// re-save does not reorder the user's list.
func (r *savedRecipeRepository) Upsert(ctx context.Context, userID uuid.UUID, saved *model.SavedRecipe) error {
	tags, ingredients, instructions, err := marshalRecipeFields(saved.Tags, saved.Ingredients, saved.Instructions)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO saved_recipes (
			id, user_id, recipe_id, source, title, image, cuisine, meal_type,
			tags, ingredients, instructions, time_minutes, servings,
			difficulty, nutrition_summary, is_ai_generated, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (user_id, recipe_id) DO UPDATE SET
			source = EXCLUDED.source,
			title = EXCLUDED.title,
			image = EXCLUDED.image,
			cuisine = EXCLUDED.cuisine,
			meal_type = EXCLUDED.meal_type,
			tags = EXCLUDED.tags,
			ingredients = EXCLUDED.ingredients,
			instructions = EXCLUDED.instructions,
			time_minutes = EXCLUDED.time_minutes,
			servings = EXCLUDED.servings,
			difficulty = EXCLUDED.difficulty,
			nutrition_summary = EXCLUDED.nutrition_summary,
			is_ai_generated = EXCLUDED.is_ai_generated
	`

	_, err = r.pool.Exec(ctx, query,
		saved.SavedID, userID, saved.RecipeID, saved.Source, saved.Title,
		nullIfEmpty(saved.Image), nullIfEmpty(saved.Cuisine), nullIfEmpty(saved.MealType),
		tags, ingredients, instructions,
		nullIfZero(saved.TimeMinutes), nullIfZero(saved.Servings),
		nullIfEmpty(saved.Difficulty), nullIfEmpty(saved.NutritionSummary),
		saved.IsAiGenerated, saved.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).
			Str("recipe_id", saved.RecipeID).
			Msg("failed to upsert saved recipe")
		return fmt.Errorf("failed to upsert saved recipe: %w", err)
	}

	return nil
}

// ListByUser retrieves all saved recipes for a user, newest first.
func (r *savedRecipeRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.SavedRecipe, error) {
	query := `
		SELECT id, recipe_id, source, title, image, cuisine, meal_type,
		       tags, ingredients, instructions, time_minutes, servings,
		       difficulty, nutrition_summary, is_ai_generated, created_at
		FROM saved_recipes
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query saved recipes")
		return nil, fmt.Errorf("failed to query saved recipes: %w", err)
	}
	defer rows.Close()

	var saved []model.SavedRecipe
	for rows.Next() {
		var (
			s                               model.SavedRecipe
			image, cuisine, mealType        *string
			difficulty, nutrition           *string
			timeMinutes, servings           *int
			tags, ingredients, instructions []byte
		)

		err := rows.Scan(&s.SavedID, &s.RecipeID, &s.Source, &s.Title,
			&image, &cuisine, &mealType,
			&tags, &ingredients, &instructions,
			&timeMinutes, &servings, &difficulty, &nutrition,
			&s.IsAiGenerated, &s.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan saved recipe row")
			return nil, fmt.Errorf("failed to scan saved recipe: %w", err)
		}

		s.Image = deref(image)
		s.Cuisine = deref(cuisine)
		s.MealType = deref(mealType)
		s.Difficulty = deref(difficulty)
		s.NutritionSummary = deref(nutrition)
		if timeMinutes != nil {
			s.TimeMinutes = *timeMinutes
		}
		if servings != nil {
			s.Servings = *servings
		}

		if err := unmarshalRecipeFields(tags, ingredients, instructions, &s); err != nil {
			return nil, err
		}

		saved = append(saved, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating saved recipe rows")
		return nil, fmt.Errorf("error iterating saved recipes: %w", err)
	}

	return saved, nil
}

// DeleteByRecipeID removes all saved rows for the given recipe ID.
func (r *savedRecipeRepository) DeleteByRecipeID(ctx context.Context, userID uuid.UUID, recipeID string) (int64, error) {
	query := `
		DELETE FROM saved_recipes
		WHERE user_id = $1 AND recipe_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, userID, recipeID)
	if err != nil {
		r.logger.Error().Err(err).Str("recipe_id", recipeID).Msg("failed to delete saved recipe")
		return 0, fmt.Errorf("failed to delete saved recipe: %w", err)
	}

	return tag.RowsAffected(), nil
}

func marshalRecipeFields(tags []string, ingredients []model.Ingredient, instructions []string) ([]byte, []byte, []byte, error) {
	if tags == nil {
		tags = []string{}
	}
	if ingredients == nil {
		ingredients = []model.Ingredient{}
	}
	if instructions == nil {
		instructions = []string{}
	}

	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal tags: %w", err)
	}
	ingredientsJSON, err := json.Marshal(ingredients)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal ingredients: %w", err)
	}
	instructionsJSON, err := json.Marshal(instructions)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal instructions: %w", err)
	}

	return tagsJSON, ingredientsJSON, instructionsJSON, nil
}

func unmarshalRecipeFields(tags, ingredients, instructions []byte, s *model.SavedRecipe) error {
	if err := json.Unmarshal(tags, &s.Tags); err != nil {
		return fmt.Errorf("failed to unmarshal tags: %w", err)
	}
	if err := json.Unmarshal(ingredients, &s.Ingredients); err != nil {
		return fmt.Errorf("failed to unmarshal ingredients: %w", err)
	}
	if err := json.Unmarshal(instructions, &s.Instructions); err != nil {
		return fmt.Errorf("failed to unmarshal instructions: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullIfZero(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
