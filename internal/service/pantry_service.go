package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"platepin/internal/model"
	"platepin/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// pantryService implements PantryService.
type pantryService struct {
	pantry repository.PantryRepository
	logger zerolog.Logger
}

// NewPantryService creates a new pantry service.
func NewPantryService(pantry repository.PantryRepository, logger zerolog.Logger) PantryService {
	return &pantryService{
		pantry: pantry,
		logger: logger.With().Str("service", "pantry").Logger(),
	}
}

// Upsert creates or replaces an item keyed case-insensitively by name.
func (s *pantryService) Upsert(ctx context.Context, userID uuid.UUID, req *model.PantryUpsertRequest) (*model.PantryItem, error) {
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Item name is required")
	}

	item := &model.PantryItem{
		Name:       strings.TrimSpace(req.Name),
		Quantity:   req.Quantity,
		ExpiryDate: req.ExpiryDate,
		AddedAt:    time.Now().UTC(),
	}

	stored, err := s.pantry.Upsert(ctx, userID, item)
	if err != nil {
		s.logger.Error().Err(err).Str("name", item.Name).Msg("failed to upsert pantry item")
		return nil, fmt.Errorf("failed to upsert pantry item: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Str("name", stored.Name).
		Msg("pantry item upserted")

	return stored, nil
}

// List retrieves the user's pantry items, newest first.
func (s *pantryService) List(ctx context.Context, userID uuid.UUID) ([]model.PantryItem, error) {
	items, err := s.pantry.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list pantry items")
		return nil, fmt.Errorf("failed to list pantry items: %w", err)
	}

	if items == nil {
		items = []model.PantryItem{}
	}

	return items, nil
}

// Remove deletes the item matching the name case-insensitively.
func (s *pantryService) Remove(ctx context.Context, userID uuid.UUID, name string) error {
	if strings.TrimSpace(name) == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Item name is required")
	}

	removed, err := s.pantry.DeleteByName(ctx, userID, name)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to remove pantry item")
		return fmt.Errorf("failed to remove pantry item: %w", err)
	}

	if removed == 0 {
		s.logger.Debug().Str("name", name).Msg("remove for pantry item that does not exist")
		return model.NewDomainError(model.ErrCodeNotFound, "Pantry item not found")
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Str("name", name).
		Msg("pantry item removed")

	return nil
}
