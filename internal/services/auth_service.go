package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/campus-board/announcements-service/internal/auth"
	"github.com/campus-board/announcements-service/internal/models"
	"github.com/campus-board/announcements-service/internal/repositories"
	"github.com/campus-board/announcements-service/internal/validator"
)

const bcryptCost = 10

type authService struct {
	repo      repositories.Repository
	tokens    *auth.TokenManager
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAuthService(repo repositories.Repository, tokens *auth.TokenManager, logger *slog.Logger, validator *validator.Validator) AuthService {
	return &authService{
		repo:      repo,
		tokens:    tokens,
		logger:    logger,
		validator: validator,
	}
}

// LoginOrRegister compares credentials against an existing account, or
// creates one with role USER when the email is unused. The two paths share
// one endpoint; account creation from an unknown email is intentional here
// and logged so operators can observe it.
func (s *authService) LoginOrRegister(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.repo.User().GetByEmail(ctx, nil, email)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if existing != nil {
		if err := bcrypt.CompareHashAndPassword([]byte(existing.Password), []byte(req.Password)); err != nil {
			s.logger.Info("Login rejected", "email", email)
			return nil, ErrInvalidCredentials
		}

		token, err := s.tokens.Issue(existing.ID, existing.Email, existing.Role)
		if err != nil {
			return nil, fmt.Errorf("failed to issue token: %w", err)
		}

		s.logger.Info("Login successful", "user_id", existing.ID, "role", existing.Role)
		return &LoginResult{
			Message:   "Login successful",
			Token:     token,
			User:      existing.Public(),
			IsNewUser: false,
		}, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     req.Name,
		Role:     models.RoleUser,
	}
	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	// A failed login against an unregistered email lands here and
	// silently becomes an account. Logged at warn so the enumeration
	// exposure stays observable.
	s.logger.Warn("Implicit registration", "user_id", user.ID, "email", email)

	return &LoginResult{
		Message:   "Account created successfully",
		Token:     token,
		User:      user.Public(),
		IsNewUser: true,
	}, nil
}

// CurrentUser resolves a bearer token to the account's public fields.
// Identity is derived fresh from the verified token on every call, never
// cached process-wide.
func (s *authService) CurrentUser(ctx context.Context, token string) (*models.PublicUser, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrUnauthenticated
	}

	identity, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, nil, identity.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	public := user.Public()
	return &public, nil
}
