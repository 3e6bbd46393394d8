package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/blog-platform/internal/model"
	"github.com/sakif/blog-platform/internal/repository"
)

// UserService serves public user profiles.
type UserService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// Profile returns a user's public profile with their post count. No email,
// no identity check — profiles are public.
func (s *UserService) Profile(ctx context.Context, userID int64) (*model.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	postCount, err := s.users.CountPostsByAuthor(ctx, userID)
	if err != nil {
		s.logger.Error("failed to count posts",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("counting posts for user %d: %w", userID, err)
	}

	return &model.Profile{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
		PostCount: postCount,
	}, nil
}
