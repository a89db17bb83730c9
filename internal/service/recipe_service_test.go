package service

import (
	"context"
	"errors"
	"testing"

	"platepin/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalogClient is a mock implementation of CatalogClient.
type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) SearchByIngredients(ctx context.Context, ingredients []string) ([]model.RecipeRecord, error) {
	args := m.Called(ctx, ingredients)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RecipeRecord), args.Error(1)
}

// MockGeneratorClient is a mock implementation of GeneratorClient.
type MockGeneratorClient struct {
	mock.Mock
}

func (m *MockGeneratorClient) Generate(ctx context.Context, ingredients []string, filters *model.AIFilters) ([]model.RecipeRecord, error) {
	args := m.Called(ctx, ingredients, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RecipeRecord), args.Error(1)
}

func TestRecipeService_Search_TrimsAndDropsEmptyIngredients(t *testing.T) {
	ctx := context.Background()
	catalog := new(MockCatalogClient)
	catalog.On("SearchByIngredients", ctx, []string{"tomato", "onion"}).
		Return([]model.RecipeRecord{{ID: "52764", Title: "Tomato Soup"}}, nil)

	svc := NewRecipeService(catalog, nil, zerolog.Nop())
	recipes, err := svc.Search(ctx, []string{" tomato ", "", "onion", "  "})

	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "52764", recipes[0].ID)
	catalog.AssertExpectations(t)
}

func TestRecipeService_Search_NoIngredients(t *testing.T) {
	catalog := new(MockCatalogClient)
	svc := NewRecipeService(catalog, nil, zerolog.Nop())

	_, err := svc.Search(context.Background(), []string{"", "  "})

	require.Error(t, err)
	var domainErr *model.DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, model.ErrCodeMissingField, domainErr.Code)
	catalog.AssertNotCalled(t, "SearchByIngredients", mock.Anything, mock.Anything)
}

func TestRecipeService_Search_NilResultBecomesEmpty(t *testing.T) {
	ctx := context.Background()
	catalog := new(MockCatalogClient)
	catalog.On("SearchByIngredients", ctx, []string{"durian"}).Return(nil, nil)

	svc := NewRecipeService(catalog, nil, zerolog.Nop())
	recipes, err := svc.Search(ctx, []string{"durian"})

	require.NoError(t, err)
	assert.NotNil(t, recipes)
	assert.Empty(t, recipes)
}

func TestRecipeService_Generate_Success(t *testing.T) {
	ctx := context.Background()
	filters := &model.AIFilters{Cuisine: "Thai"}
	generator := new(MockGeneratorClient)
	generator.On("Generate", ctx, []string{"rice", "egg"}, filters).
		Return([]model.RecipeRecord{
			{ID: "ai-1111", Title: "Thai Fried Rice", IsAiGenerated: true},
		}, nil)

	svc := NewRecipeService(new(MockCatalogClient), generator, zerolog.Nop())
	recipes, err := svc.Generate(ctx, []string{"rice", "egg"}, filters)

	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.True(t, recipes[0].IsAiGenerated)
}

func TestRecipeService_Generate_DisabledWithoutGenerator(t *testing.T) {
	svc := NewRecipeService(new(MockCatalogClient), nil, zerolog.Nop())

	_, err := svc.Generate(context.Background(), []string{"rice"}, nil)

	require.Error(t, err)
	var domainErr *model.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, model.ErrCodeInternalError, domainErr.Code)
}

func TestRecipeService_Generate_UpstreamFailure(t *testing.T) {
	ctx := context.Background()
	generator := new(MockGeneratorClient)
	generator.On("Generate", ctx, []string{"rice"}, (*model.AIFilters)(nil)).
		Return(nil, errors.New("model overloaded"))

	svc := NewRecipeService(new(MockCatalogClient), generator, zerolog.Nop())
	_, err := svc.Generate(ctx, []string{"rice"}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "AI generation failed")
}
