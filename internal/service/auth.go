// Package service holds the business rules between the HTTP handlers and
// the repositories.
//
//	Handler (HTTP)  → parses requests, writes responses
//	Service         → validates, normalises, enforces ownership, orchestrates
//	Repository      → reads/writes storage
//
// Services take repository interfaces, so tests run them against in-memory
// fakes, and they return apperror values rather than status codes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/second-brain/internal/apperror"
	"github.com/sakif/second-brain/internal/auth"
	"github.com/sakif/second-brain/internal/model"
	"github.com/sakif/second-brain/internal/repository"
	"github.com/sakif/second-brain/internal/validation"
)

// SignupInput is the body of POST /api/v1/signup.
type SignupInput struct {
	Email    string `json:"email" validate:"required,email,min=3,max=100"`
	Password string `json:"password" validate:"required,min=8,max=20,bcryptmax,password"`
	Name     string `json:"name" validate:"omitempty,min=3,max=50"`
}

// SigninInput is the body of POST /api/v1/signin.
type SigninInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult bundles the signed-in user and the token issued for them.
type AuthResult struct {
	User  *model.User
	Token string
}

// errBadCredentials is shared by every signin failure so a caller cannot
// tell an unknown email from a wrong password.
const errBadCredentials = "invalid email or password"

// AuthService handles signup, signin and GitHub sign-in.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	validator *validation.Validator
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		validator: validator,
		logger:    logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup validates the input, hashes the password and stores a new user.
//
// Duplicate emails are reported as apperror.ErrConflict. The early lookup
// gives a clean error in the common case; the unique index still decides
// when two signups race.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	_, err := s.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, &apperror.AppError{Err: apperror.ErrConflict, Message: "an account with this email already exists", Field: "email"}
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, fmt.Errorf("service/auth: checking email: %w", err)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{Email: in.Email, PasswordHash: hash, Name: in.Name}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, &apperror.AppError{Err: apperror.ErrConflict, Message: "an account with this email already exists", Field: "email"}
		}
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user signed up", slog.String("userID", user.ID))
	return user, nil
}

// Signin checks credentials and issues a token.
//
// Unknown email, wrong password and password-less (GitHub-only) accounts
// all fail with the same apperror.Unauthorized.
func (s *AuthService) Signin(ctx context.Context, in SigninInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized(errBadCredentials)
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, in.Password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("password check failed",
				slog.String("userID", user.ID),
				slog.String("error", err.Error()),
			)
		}
		return nil, apperror.Unauthorized(errBadCredentials)
	}

	return s.issue(user)
}

// LoginOrRegisterGitHub signs in the user whose email matches the GitHub
// profile, creating a password-less account on first visit.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}
	email := normalizeEmail(ghUser.Email)
	if email == "" {
		return nil, apperror.ValidationFailed("email", "GitHub account has no verified email")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, apperror.ErrNotFound) {
		name := ghUser.Name
		if name == "" {
			name = ghUser.Login
		}
		user = &model.User{Email: email, Name: name}
		err = s.users.Create(ctx, user)
		if err == nil {
			s.logger.Info("user signed up via GitHub", slog.String("userID", user.ID))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("service/auth: resolving GitHub user %d: %w", ghUser.ID, err)
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user signed in", slog.String("userID", user.ID))
	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByID backs GET /api/v1/me.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}

	return user, nil
}
