package service

import (
	"context"
	"errors"
	"testing"

	"platepin/internal/images"
	"platepin/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSavedRecipeRepository is a mock implementation of SavedRecipeRepository.
type MockSavedRecipeRepository struct {
	mock.Mock
}

func (m *MockSavedRecipeRepository) Upsert(ctx context.Context, userID uuid.UUID, saved *model.SavedRecipe) error {
	args := m.Called(ctx, userID, saved)
	return args.Error(0)
}

func (m *MockSavedRecipeRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.SavedRecipe, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SavedRecipe), args.Error(1)
}

func (m *MockSavedRecipeRepository) DeleteByRecipeID(ctx context.Context, userID uuid.UUID, recipeID string) (int64, error) {
	args := m.Called(ctx, userID, recipeID)
	return args.Get(0).(int64), args.Error(1)
}

func TestSavedService_Save_Success(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := new(MockSavedRecipeRepository)
	repo.On("Upsert", ctx, userID, mock.MatchedBy(func(s *model.SavedRecipe) bool {
		return s.RecipeID == "52764" && s.Title == "Tomato Soup" &&
			s.Source == model.SourceMealDB && s.SavedID != ""
	})).Return(nil)

	svc := NewSavedService(repo, images.NewNoopArchiver(), zerolog.Nop())
	err := svc.Save(ctx, userID, "52764", &model.SaveRecipeRequest{
		Title:  "Tomato Soup",
		Source: model.SourceMealDB,
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSavedService_Save_SourceDefaultsFromAIFlag(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := new(MockSavedRecipeRepository)
	repo.On("Upsert", ctx, userID, mock.MatchedBy(func(s *model.SavedRecipe) bool {
		return s.Source == model.SourceAI && s.IsAiGenerated
	})).Return(nil)

	svc := NewSavedService(repo, images.NewNoopArchiver(), zerolog.Nop())
	err := svc.Save(ctx, userID, "ai-9f2c", &model.SaveRecipeRequest{
		Title:         "Pantry Stir Fry",
		IsAiGenerated: true,
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSavedService_Save_Validation(t *testing.T) {
	tests := []struct {
		name     string
		recipeID string
		req      *model.SaveRecipeRequest
	}{
		{name: "nil body", recipeID: "52764", req: nil},
		{name: "empty recipe id", recipeID: "", req: &model.SaveRecipeRequest{Title: "Soup"}},
		{name: "missing title", recipeID: "52764", req: &model.SaveRecipeRequest{}},
		{name: "bad source", recipeID: "52764", req: &model.SaveRecipeRequest{Title: "Soup", Source: "Scraped"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockSavedRecipeRepository)
			svc := NewSavedService(repo, images.NewNoopArchiver(), zerolog.Nop())

			err := svc.Save(context.Background(), uuid.New(), tt.recipeID, tt.req)

			require.Error(t, err)
			var domainErr *model.DomainError
			assert.True(t, errors.As(err, &domainErr))
			repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSavedService_List_NilBecomesEmpty(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := new(MockSavedRecipeRepository)
	repo.On("ListByUser", ctx, userID).Return(nil, nil)

	svc := NewSavedService(repo, images.NewNoopArchiver(), zerolog.Nop())
	saved, err := svc.List(ctx, userID)

	require.NoError(t, err)
	assert.NotNil(t, saved)
	assert.Empty(t, saved)
}

func TestSavedService_Unsave_Success(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := new(MockSavedRecipeRepository)
	repo.On("DeleteByRecipeID", ctx, userID, "52764").Return(int64(1), nil)

	svc := NewSavedService(repo, images.NewNoopArchiver(), zerolog.Nop())
	assert.NoError(t, svc.Unsave(ctx, userID, "52764"))
}

func TestSavedService_Unsave_NotSaved(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := new(MockSavedRecipeRepository)
	repo.On("DeleteByRecipeID", ctx, userID, "missing").Return(int64(0), nil)

	svc := NewSavedService(repo, images.NewNoopArchiver(), zerolog.Nop())
	err := svc.Unsave(ctx, userID, "missing")

	assert.Equal(t, model.ErrRecipeNotFound, err)
}
