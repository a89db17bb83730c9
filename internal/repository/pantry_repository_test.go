package repository

import (
	"context"
	"testing"
	"time"

	"platepin/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPantryRepository_UpsertAndList(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewPantryRepository(pool, zerolog.Nop())
	user := seedUser(t, pool, "a@b.com")

	expiry := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	stored, err := repo.Upsert(ctx, user.ID, &model.PantryItem{
		Name:       "Eggs",
		Quantity:   "12",
		ExpiryDate: &expiry,
		AddedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Eggs", stored.Name)
	assert.Equal(t, "12", stored.Quantity)
	require.NotNil(t, stored.ExpiryDate)

	items, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Eggs", items[0].Name)
}

func TestPantryRepository_Upsert_CaseInsensitiveReplace(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewPantryRepository(pool, zerolog.Nop())
	user := seedUser(t, pool, "a@b.com")

	firstAdded := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	_, err := repo.Upsert(ctx, user.ID, &model.PantryItem{
		Name:     "Eggs",
		Quantity: "12",
		AddedAt:  firstAdded,
	})
	require.NoError(t, err)

	stored, err := repo.Upsert(ctx, user.ID, &model.PantryItem{
		Name:     "eggs",
		Quantity: "6",
		AddedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)

	// one entry, recased, quantity replaced, added_at preserved
	assert.Equal(t, "eggs", stored.Name)
	assert.Equal(t, "6", stored.Quantity)
	assert.WithinDuration(t, firstAdded, stored.AddedAt, time.Second)

	items, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "eggs", items[0].Name)
}

func TestPantryRepository_Upsert_ClearsExpiry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewPantryRepository(pool, zerolog.Nop())
	user := seedUser(t, pool, "a@b.com")

	expiry := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	_, err := repo.Upsert(ctx, user.ID, &model.PantryItem{
		Name:       "Milk",
		Quantity:   "1L",
		ExpiryDate: &expiry,
		AddedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)

	// replacement without an expiry wipes the stored one
	stored, err := repo.Upsert(ctx, user.ID, &model.PantryItem{
		Name:     "Milk",
		Quantity: "1L",
		AddedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Nil(t, stored.ExpiryDate)
}

func TestPantryRepository_DeleteByName(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewPantryRepository(pool, zerolog.Nop())
	user := seedUser(t, pool, "a@b.com")

	_, err := repo.Upsert(ctx, user.ID, &model.PantryItem{
		Name:     "Olive Oil",
		Quantity: "500ml",
		AddedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)

	removed, err := repo.DeleteByName(ctx, user.ID, "olive oil")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	removed, err = repo.DeleteByName(ctx, user.ID, "olive oil")
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)
}
