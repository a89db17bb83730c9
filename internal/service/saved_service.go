package service

import (
	"context"
	"fmt"
	"time"

	"platepin/internal/images"
	"platepin/internal/model"
	"platepin/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// savedService implements SavedService.
type savedService struct {
	saved    repository.SavedRecipeRepository
	archiver images.Archiver
	logger   zerolog.Logger
}

// NewSavedService creates a new saved-recipe service.
func NewSavedService(saved repository.SavedRecipeRepository, archiver images.Archiver, logger zerolog.Logger) SavedService {
	return &savedService{
		saved:    saved,
		archiver: archiver,
		logger:   logger.With().Str("service", "saved").Logger(),
	}
}

// Save persists a recipe to the user's profile. The stored source falls back
// to the AI discriminant when the request omits it.
func (s *savedService) Save(ctx context.Context, userID uuid.UUID, recipeID string, req *model.SaveRecipeRequest) error {
	if err := validateSaveRequest(recipeID, req); err != nil {
		return err
	}

	source := req.Source
	if source == "" {
		if req.IsAiGenerated {
			source = model.SourceAI
		} else {
			source = model.SourceMealDB
		}
	}

	saved := &model.SavedRecipe{
		SavedID:          uuid.NewString(),
		RecipeID:         recipeID,
		Source:           source,
		Title:            req.Title,
		Image:            s.archiver.Mirror(ctx, recipeID, req.Image),
		Cuisine:          req.Cuisine,
		MealType:         req.MealType,
		Tags:             req.Tags,
		Ingredients:      req.Ingredients,
		Instructions:     req.Instructions,
		TimeMinutes:      req.TimeMinutes,
		Servings:         req.Servings,
		Difficulty:       req.Difficulty,
		NutritionSummary: req.NutritionSummary,
		IsAiGenerated:    req.IsAiGenerated,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.saved.Upsert(ctx, userID, saved); err != nil {
		s.logger.Error().Err(err).Str("recipe_id", recipeID).Msg("failed to save recipe")
		return fmt.Errorf("failed to save recipe: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Str("recipe_id", recipeID).
		Str("source", source).
		Msg("recipe saved")

	return nil
}

// List retrieves the user's saved recipes, newest first.
func (s *savedService) List(ctx context.Context, userID uuid.UUID) ([]model.SavedRecipe, error) {
	saved, err := s.saved.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list saved recipes")
		return nil, fmt.Errorf("failed to list saved recipes: %w", err)
	}

	if saved == nil {
		saved = []model.SavedRecipe{}
	}

	return saved, nil
}

// Unsave removes all saved entries for the recipe ID.
func (s *savedService) Unsave(ctx context.Context, userID uuid.UUID, recipeID string) error {
	removed, err := s.saved.DeleteByRecipeID(ctx, userID, recipeID)
	if err != nil {
		s.logger.Error().Err(err).Str("recipe_id", recipeID).Msg("failed to unsave recipe")
		return fmt.Errorf("failed to unsave recipe: %w", err)
	}

	if removed == 0 {
		s.logger.Debug().Str("recipe_id", recipeID).Msg("unsave for recipe that was not saved")
		return model.ErrRecipeNotFound
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Str("recipe_id", recipeID).
		Int64("removed", removed).
		Msg("recipe unsaved")

	return nil
}

func validateSaveRequest(recipeID string, req *model.SaveRecipeRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeMissingField, "Request body is required")
	}
	if recipeID == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Recipe ID is required")
	}
	if req.Title == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Title is required")
	}
	if req.Source != "" && req.Source != model.SourceAI && req.Source != model.SourceMealDB {
		return model.NewDomainError(model.ErrCodeMissingField,
			fmt.Sprintf("Source must be %q or %q", model.SourceAI, model.SourceMealDB))
	}
	return nil
}
