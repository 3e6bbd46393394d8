package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/blog-platform/internal/apperror"
	"github.com/sakif/blog-platform/internal/auth"
	"github.com/sakif/blog-platform/internal/model"
	"github.com/sakif/blog-platform/internal/repository"
)

// Validation and pagination bounds for posts.
const (
	MaxTitleLength  = 200
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// PostService handles business logic for blog posts: validation, the
// ownership gate on mutations, and pagination.
type PostService struct {
	posts  repository.PostRepository
	logger *slog.Logger
}

// NewPostService creates a PostService.
func NewPostService(posts repository.PostRepository, logger *slog.Logger) *PostService {
	return &PostService{posts: posts, logger: logger}
}

// Create validates and saves a new post authored by the acting identity.
func (s *PostService) Create(ctx context.Context, identity auth.Identity, title, content string) (*model.Post, error) {
	authorID, ok := identity.UserID()
	if !ok {
		return nil, apperror.Unauthenticated("Not authenticated")
	}

	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if err := validatePostPayload(title, content); err != nil {
		return nil, err
	}

	post := &model.Post{
		Title:    title,
		Content:  content,
		AuthorID: authorID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.Int64("authorID", authorID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.Int64("postID", post.ID),
		slog.Int64("authorID", authorID),
	)

	return post, nil
}

func validatePostPayload(title, content string) error {
	if title == "" {
		return apperror.ValidationFailed("title", "Title cannot be empty")
	}
	// Limits count characters, not bytes — a multibyte title is as long
	// as it reads.
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("Title must be %d characters or less", MaxTitleLength))
	}
	if content == "" {
		return apperror.ValidationFailed("content", "Content cannot be empty")
	}
	return nil
}

// GetByID retrieves a single post. Reads are public — no identity check.
func (s *PostService) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// List returns one page of posts, newest first, with pagination metadata.
func (s *PostService) List(ctx context.Context, page, pageSize int) (*model.PostPage, error) {
	if page < 1 {
		return nil, apperror.ValidationFailed("page", "Page must be >= 1")
	}
	// The handler substitutes DefaultPageSize when the parameter is
	// absent; by the time a value reaches here it was asked for, so 0 is
	// out of range like any other.
	if pageSize < 1 || pageSize > MaxPageSize {
		return nil, apperror.ValidationFailed("page_size",
			fmt.Sprintf("Page size must be between 1 and %d", MaxPageSize))
	}

	items, total, err := s.posts.List(ctx, repository.ListOptions{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	return &model.PostPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Update replaces a post's title and content. Order of checks: fetch
// (404), authorize (401/403), validate (400) — authorization always runs
// and its failures stay distinct from validation failures.
func (s *PostService) Update(ctx context.Context, identity auth.Identity, id int64, title, content string) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(identity, post.AuthorID, id, "update"); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if err := validatePostPayload(title, content); err != nil {
		return nil, err
	}

	post.Title = title
	post.Content = content
	if err := s.posts.Update(ctx, post); err != nil {
		s.logger.Error("failed to update post",
			slog.Int64("postID", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating post: %w", err)
	}

	s.logger.Info("post updated", slog.Int64("postID", id))
	return post, nil
}

// Delete removes a post and, transactionally, all its comments.
func (s *PostService) Delete(ctx context.Context, identity auth.Identity, id int64) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorize(identity, post.AuthorID, id, "delete"); err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("post deleted", slog.Int64("postID", id))
	return nil
}

// authorize runs the ownership check and maps its decision to the error
// taxonomy: anonymous → 401, authenticated non-author → 403.
func (s *PostService) authorize(identity auth.Identity, authorID, postID int64, op string) error {
	switch decision := auth.AuthorizeMutation(identity, authorID); decision {
	case auth.Allowed:
		return nil
	case auth.DeniedAnonymous:
		return apperror.Unauthenticated("Not authenticated")
	default:
		userID, _ := identity.UserID()
		s.logger.Warn("post mutation denied",
			slog.Int64("postID", postID),
			slog.Int64("userID", userID),
			slog.String("op", op),
			slog.String("decision", decision.String()),
		)
		return apperror.Forbidden(fmt.Sprintf("Only the post author can %s this post", op))
	}
}
