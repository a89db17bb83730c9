package service

import (
	"context"
	"fmt"
	"strings"

	"platepin/internal/model"

	"github.com/rs/zerolog"
)

// recipeService implements RecipeService on top of the catalog and generator
// clients.
type recipeService struct {
	catalog   CatalogClient
	generator GeneratorClient
	logger    zerolog.Logger
}

// NewRecipeService creates a new recipe service. generator may be nil when AI
// generation is disabled.
func NewRecipeService(catalog CatalogClient, generator GeneratorClient, logger zerolog.Logger) RecipeService {
	return &recipeService{
		catalog:   catalog,
		generator: generator,
		logger:    logger.With().Str("service", "recipe").Logger(),
	}
}

// Search finds catalog recipes that use every given ingredient.
func (s *recipeService) Search(ctx context.Context, ingredients []string) ([]model.RecipeRecord, error) {
	ingredients, err := cleanIngredients(ingredients)
	if err != nil {
		return nil, err
	}

	recipes, err := s.catalog.SearchByIngredients(ctx, ingredients)
	if err != nil {
		s.logger.Error().Err(err).Msg("catalog search failed")
		return nil, fmt.Errorf("catalog search failed: %w", err)
	}

	if recipes == nil {
		recipes = []model.RecipeRecord{}
	}

	s.logger.Debug().
		Int("ingredient_count", len(ingredients)).
		Int("result_count", len(recipes)).
		Msg("recipe search completed")

	return recipes, nil
}

// Generate produces AI recipes. Every call mints fresh recipe IDs, so two
// generations from the same ingredients yield records with distinct IDs.
func (s *recipeService) Generate(ctx context.Context, ingredients []string, filters *model.AIFilters) ([]model.RecipeRecord, error) {
	if s.generator == nil {
		return nil, model.NewDomainError(model.ErrCodeInternalError, "AI recipe generation is not enabled")
	}

	ingredients, err := cleanIngredients(ingredients)
	if err != nil {
		return nil, err
	}

	recipes, err := s.generator.Generate(ctx, ingredients, filters)
	if err != nil {
		s.logger.Error().Err(err).Msg("AI generation failed")
		return nil, fmt.Errorf("AI generation failed: %w", err)
	}

	if recipes == nil {
		recipes = []model.RecipeRecord{}
	}

	return recipes, nil
}

// cleanIngredients trims entries, drops empties, and requires at least one.
func cleanIngredients(ingredients []string) ([]string, error) {
	cleaned := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			cleaned = append(cleaned, ing)
		}
	}

	if len(cleaned) == 0 {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "At least one ingredient is required")
	}

	return cleaned, nil
}
