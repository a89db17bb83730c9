package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"platepin/internal/aichef"
	"platepin/internal/auth"
	"platepin/internal/database"
	"platepin/internal/handler"
	"platepin/internal/images"
	"platepin/internal/mealdb"
	"platepin/internal/repository"
	"platepin/internal/router"
	"platepin/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, applies the schema, and
// returns a connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: pgContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// CleanupDB truncates all tables between test cases.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`TRUNCATE users, saved_recipes, pantry_items CASCADE`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// SetupTestServer wires the full HTTP stack against the test database. The
// catalog and generator point at the given upstream URLs, which tests back
// with httptest servers.
func SetupTestServer(t *testing.T, testDB *TestDB, catalogURL, aiURL string) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	userRepo := repository.NewUserRepository(testDB.Pool, logger)
	savedRepo := repository.NewSavedRecipeRepository(testDB.Pool, logger)
	pantryRepo := repository.NewPantryRepository(testDB.Pool, logger)

	tokens := auth.NewTokenManager("integration-test-secret", time.Hour)

	catalog := mealdb.NewClient(catalogURL, 10, logger)
	var generator service.GeneratorClient
	if aiURL != "" {
		generator = aichef.NewClient(aiURL, "test-key", "test-model", logger)
	}

	authService := service.NewAuthService(userRepo, tokens, logger)
	recipeService := service.NewRecipeService(catalog, generator, logger)
	savedService := service.NewSavedService(savedRepo, images.NewNoopArchiver(), logger)
	pantryService := service.NewPantryService(pantryRepo, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	recipeHandler := handler.NewRecipeHandler(recipeService, logger)
	savedHandler := handler.NewSavedHandler(savedService, logger)
	pantryHandler := handler.NewPantryHandler(pantryService, logger)

	return router.New(authHandler, recipeHandler, savedHandler, pantryHandler, tokens, logger)
}

// StartTestServer exposes the stack over a real listener so the client SDK
// can talk to it.
func StartTestServer(t *testing.T, testDB *TestDB, catalogURL, aiURL string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(SetupTestServer(t, testDB, catalogURL, aiURL))
	t.Cleanup(server.Close)
	return server
}
