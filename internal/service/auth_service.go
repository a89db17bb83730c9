package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"platepin/internal/auth"
	"platepin/internal/model"
	"platepin/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// authService implements AuthService.
type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	logger zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, logger zerolog.Logger) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
		logger: logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *authService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if err == model.ErrDuplicateEmail {
			s.logger.Warn().Str("email", email).Msg("registration with existing email")
			return nil, err
		}
		s.logger.Error().Err(err).Msg("failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")
	return user, nil
}

// Login verifies credentials and issues a bearer token.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to look up user for login")
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if user == nil {
		s.logger.Debug().Str("email", email).Msg("login for unknown email")
		return "", model.ErrBadCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.Debug().Str("user_id", user.ID.String()).Msg("login with wrong password")
		return "", model.ErrBadCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to issue token")
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return token, nil
}

// Profile returns the profile for a verified user ID.
func (s *authService) Profile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to load profile")
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if user == nil {
		// Token subject no longer exists; treat as an invalid session.
		return nil, model.ErrInvalidToken
	}

	return &model.Profile{ID: user.ID, Email: user.Email}, nil
}

func validateCredentials(email, password string) error {
	if email == "" || !strings.Contains(email, "@") {
		return model.NewDomainError(model.ErrCodeMissingField, "A valid email is required")
	}
	if len(password) < minPasswordLength {
		return model.NewDomainError(model.ErrCodeMissingField,
			fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	return nil
}
