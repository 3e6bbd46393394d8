// Package service contains the business logic layer.
//
// The layering follows handler → service → repository: handlers parse HTTP
// and write responses, services enforce the rules (validation, conflicts,
// ownership), repositories talk to the database. Services receive
// repository interfaces, never concrete types, so tests inject mocks.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sakif/blog-platform/internal/apperror"
	"github.com/sakif/blog-platform/internal/auth"
	"github.com/sakif/blog-platform/internal/model"
	"github.com/sakif/blog-platform/internal/repository"
)

// Username rules: 3-30 chars, letters, digits, underscore.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// AuthService handles registration, login, and current-user lookup.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
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

// AuthResult bundles the user record with the issued session token so the
// handler can set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account and issues a session token.
//
// Username and email are pre-checked for duplicates so the client gets a
// message naming which field collided; the UNIQUE constraints in the
// repository still catch the race where two registrations pass the check
// simultaneously.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if n := utf8.RuneCountInString(username); n < MinUsernameLength || n > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("Username must be %d-%d characters", MinUsernameLength, MaxUsernameLength))
	}
	if !usernamePattern.MatchString(username) {
		return nil, apperror.ValidationFailed("username",
			"Username may only contain letters, digits, and underscores")
	}
	if !validEmail(email) {
		return nil, apperror.ValidationFailed("email", "Invalid email address")
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperror.Conflict("Username already exists")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking username %q: %w", username, err)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("Email already exists")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking email: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) || errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperror.ValidationFailed("password", passwordRuleMessage(err))
		}
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %d: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

func passwordRuleMessage(err error) string {
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "Password must be 72 bytes or fewer"
	}
	return fmt.Sprintf("Password must be at least %d characters", auth.MinPasswordLength)
}

// validEmail accepts a bare RFC 5322 address (no display name).
func validEmail(email string) bool {
	if email == "" || len(email) > 255 {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	// ParseAddress accepts local-only addresses; require a domain dot.
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}

// Login verifies credentials and issues a session token. Unknown username
// and wrong password produce the same error, so responses don't reveal
// which half was wrong.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	invalid := apperror.Unauthenticated("Invalid username or password")

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("service/auth: looking up user %q: %w", username, err)
	}

	ok, err := s.passwords.Verify(user.PasswordHash, password)
	if err != nil {
		// A stored hash bcrypt cannot parse is corrupt data, not a bad
		// credential; log it but still answer 401.
		s.logger.Error("stored password hash unreadable",
			slog.Int64("userID", user.ID),
			slog.String("error", err.Error()),
		)
		return nil, invalid
	}
	if !ok {
		return nil, invalid
	}

	s.logger.Info("user logged in",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %d: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// CurrentUser resolves the acting identity to its full user record.
//
// Token verification is stateless, so a token can outlive its user; this
// is the one place existence is re-checked, and a missing record comes
// back as unauthenticated rather than not-found.
func (s *AuthService) CurrentUser(ctx context.Context, identity auth.Identity) (*model.User, error) {
	userID, ok := identity.UserID()
	if !ok {
		return nil, apperror.Unauthenticated("Not authenticated")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthenticated("User not found")
		}
		return nil, fmt.Errorf("service/auth: fetching user %d: %w", userID, err)
	}

	return user, nil
}
