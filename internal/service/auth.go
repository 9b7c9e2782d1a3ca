// Package service contains the business logic layer: validation, auth
// rules, and the wash/retire/leaderboard orchestration. Handlers parse
// HTTP and delegate here; repositories persist. Services know nothing
// about HTTP and return apperror domain errors for the handler to map.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/sakif/washday/internal/apperror"
	"github.com/sakif/washday/internal/auth"
	"github.com/sakif/washday/internal/model"
	"github.com/sakif/washday/internal/repository"
)

const (
	MaxUsernameLength = 150
	MinPasswordLength = 8
)

// AuthService handles registration, login, and user lookup.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record with an issued session token so the
// handler can set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account and logs it in (registration issues a
// session token immediately, so the client lands authenticated).
//
// Validation collects every field problem into one error so the response
// reports all of them at once: username required/unique, email optional
// but well-formed and unique when given, password long enough.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	fields := map[string]string{}

	if username == "" {
		fields["username"] = "username is required"
	} else if len(username) > MaxUsernameLength {
		fields["username"] = fmt.Sprintf("username must be %d characters or less", MaxUsernameLength)
	} else if _, err := s.users.GetByUsername(ctx, username); err == nil {
		fields["username"] = "a user with that username already exists"
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking username %q: %w", username, err)
	}

	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			fields["email"] = "enter a valid email address"
		} else if _, err := s.users.GetByEmail(ctx, email); err == nil {
			fields["email"] = "a user with that email already exists"
		} else if !errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("service/auth: checking email: %w", err)
		}
	}

	if len(password) < MinPasswordLength {
		fields["password"] = fmt.Sprintf("password must be at least %d characters", MinPasswordLength)
	}

	if len(fields) > 0 {
		return nil, apperror.ValidationErrors(fields)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", "password must be 72 bytes or fewer")
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user %q: %w", username, err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return s.issue(user)
}

// Login verifies a username/password pair and issues a session token.
//
// An unknown username and a wrong password both return the same
// "Invalid credentials" error — the response never reveals which half
// was wrong.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.InvalidCredentials()
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/auth: looking up user %q: %w", username, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.InvalidCredentials()
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return s.issue(user)
}

// GetUserByID returns the user for the given internal ID. Used by the
// current-user endpoint after the middleware validates the session.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
