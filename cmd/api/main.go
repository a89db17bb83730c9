package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"platepin/internal/aichef"
	"platepin/internal/auth"
	"platepin/internal/config"
	"platepin/internal/database"
	"platepin/internal/handler"
	"platepin/internal/images"
	"platepin/internal/mealdb"
	"platepin/internal/repository"
	"platepin/internal/router"
	"platepin/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present, then configuration from the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting platepin API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool and schema
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool, logger)
	savedRepo := repository.NewSavedRecipeRepository(pool, logger)
	pantryRepo := repository.NewPantryRepository(pool, logger)

	// Initialize recipe image archiver
	var archiver images.Archiver
	if cfg.S3.Enabled {
		archiver, err = images.NewS3Archiver(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 image archiver, keeping original image URLs")
			archiver = images.NewNoopArchiver()
		}
	} else {
		archiver = images.NewNoopArchiver()
		logger.Info().Msg("S3 image archiving disabled, keeping original image URLs")
	}

	// Initialize upstream recipe providers
	catalog := mealdb.NewClient(cfg.MealDB.BaseURL, cfg.MealDB.MaxResults, logger)

	var generator service.GeneratorClient
	if cfg.AI.Enabled {
		generator = aichef.NewClient(cfg.AI.Endpoint, cfg.AI.APIKey, cfg.AI.Model, logger)
	} else {
		logger.Info().Msg("AI recipe generation disabled")
	}

	// Initialize token manager
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

	// Initialize services
	authService := service.NewAuthService(userRepo, tokens, logger)
	recipeService := service.NewRecipeService(catalog, generator, logger)
	savedService := service.NewSavedService(savedRepo, archiver, logger)
	pantryService := service.NewPantryService(pantryRepo, logger)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService, logger)
	recipeHandler := handler.NewRecipeHandler(recipeService, logger)
	savedHandler := handler.NewSavedHandler(savedService, logger)
	pantryHandler := handler.NewPantryHandler(pantryService, logger)

	// Initialize router
	mux := router.New(authHandler, recipeHandler, savedHandler, pantryHandler, tokens, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
