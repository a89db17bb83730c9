package repository

import (
	"context"
	"fmt"

	"platepin/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// pantryRepository implements PantryRepository using PostgreSQL. The unique
// index on (user_id, LOWER(name)) backs the create-or-replace semantics.
type pantryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPantryRepository creates a new PostgreSQL-backed pantry repository.
func NewPantryRepository(pool *pgxpool.Pool, logger zerolog.Logger) PantryRepository {
	return &pantryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "pantry").Logger(),
	}
}

// Upsert creates or replaces the item keyed by the case-normalized name. The
// stored name is recased to whatever the caller sent; added_at survives a
// replacement. Returns the row as stored.
func (r *pantryRepository) Upsert(ctx context.Context, userID uuid.UUID, item *model.PantryItem) (*model.PantryItem, error) {
	query := `
		INSERT INTO pantry_items (id, user_id, name, quantity, expiry_date, added_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, LOWER(name)) DO UPDATE SET
			name = EXCLUDED.name,
			quantity = EXCLUDED.quantity,
			expiry_date = EXCLUDED.expiry_date
		RETURNING name, quantity, expiry_date, added_at
	`

	var out model.PantryItem
	err := r.pool.QueryRow(ctx, query,
		uuid.New(), userID, item.Name, item.Quantity, item.ExpiryDate, item.AddedAt,
	).Scan(&out.Name, &out.Quantity, &out.ExpiryDate, &out.AddedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("name", item.Name).Msg("failed to upsert pantry item")
		return nil, fmt.Errorf("failed to upsert pantry item: %w", err)
	}

	return &out, nil
}

// ListByUser retrieves all pantry items for a user, newest first.
func (r *pantryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.PantryItem, error) {
	query := `
		SELECT name, quantity, expiry_date, added_at
		FROM pantry_items
		WHERE user_id = $1
		ORDER BY added_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query pantry items")
		return nil, fmt.Errorf("failed to query pantry items: %w", err)
	}
	defer rows.Close()

	var items []model.PantryItem
	for rows.Next() {
		var item model.PantryItem
		if err := rows.Scan(&item.Name, &item.Quantity, &item.ExpiryDate, &item.AddedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan pantry item row")
			return nil, fmt.Errorf("failed to scan pantry item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating pantry item rows")
		return nil, fmt.Errorf("error iterating pantry items: %w", err)
	}

	return items, nil
}

// DeleteByName removes the item matching the name case-insensitively.
func (r *pantryRepository) DeleteByName(ctx context.Context, userID uuid.UUID, name string) (int64, error) {
	query := `
		DELETE FROM pantry_items
		WHERE user_id = $1 AND LOWER(name) = LOWER($2)
	`

	tag, err := r.pool.Exec(ctx, query, userID, name)
	if err != nil {
		r.logger.Error().Err(err).Str("name", name).Msg("failed to delete pantry item")
		return 0, fmt.Errorf("failed to delete pantry item: %w", err)
	}

	return tag.RowsAffected(), nil
}
