package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema is the full table layout. Applied at startup; every statement is
// idempotent so repeated boots are safe.
const Schema = `
	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (LOWER(email));

	CREATE TABLE IF NOT EXISTS saved_recipes (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		recipe_id VARCHAR(100) NOT NULL,
		source VARCHAR(20) NOT NULL,
		title VARCHAR(255) NOT NULL,
		image TEXT,
		cuisine VARCHAR(100),
		meal_type VARCHAR(100),
		tags JSONB NOT NULL DEFAULT '[]',
		ingredients JSONB NOT NULL DEFAULT '[]',
		instructions JSONB NOT NULL DEFAULT '[]',
		time_minutes INTEGER,
		servings INTEGER,
		difficulty VARCHAR(50),
		nutrition_summary TEXT,
		is_ai_generated BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (user_id, recipe_id)
	);

	CREATE INDEX IF NOT EXISTS idx_saved_recipes_user_id ON saved_recipes(user_id);

	CREATE TABLE IF NOT EXISTS pantry_items (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		quantity VARCHAR(100) NOT NULL DEFAULT '',
		expiry_date TIMESTAMPTZ,
		added_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_pantry_items_user_name
		ON pantry_items (user_id, LOWER(name));
`

// Migrate applies the schema to the database.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	logger.Info().Msg("database schema applied")
	return nil
}
