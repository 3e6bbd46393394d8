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

// MaxCommentLength bounds comment bodies.
const MaxCommentLength = 1000

// CommentService handles business logic for comments on posts.
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	logger   *slog.Logger
}

// NewCommentService creates a CommentService. It needs the post repository
// too: creating or listing comments must first confirm the post exists.
func NewCommentService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	logger *slog.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		logger:   logger,
	}
}

// Create validates and saves a new comment on an existing post.
func (s *CommentService) Create(ctx context.Context, identity auth.Identity, postID int64, content string) (*model.Comment, error) {
	authorID, ok := identity.UserID()
	if !ok {
		return nil, apperror.Unauthenticated("Not authenticated")
	}

	content = strings.TrimSpace(content)
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}

	// Confirm the post exists so the comment never dangles; its absence
	// is the caller's 404.
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		Content:  content,
		PostID:   postID,
		AuthorID: authorID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		s.logger.Error("failed to create comment",
			slog.Int64("postID", postID),
			slog.Int64("authorID", authorID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	s.logger.Info("comment created",
		slog.Int64("commentID", comment.ID),
		slog.Int64("postID", postID),
	)

	return comment, nil
}

func validateCommentContent(content string) error {
	if content == "" {
		return apperror.ValidationFailed("content", "Content cannot be empty")
	}
	if utf8.RuneCountInString(content) > MaxCommentLength {
		return apperror.ValidationFailed("content",
			fmt.Sprintf("Content must be %d characters or less", MaxCommentLength))
	}
	return nil
}

// ListByPost returns all comments on a post, oldest first. Public read.
func (s *CommentService) ListByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID)
}

// Update replaces a comment's content. Fetch, then authorize, then
// validate — same ordering as posts.
func (s *CommentService) Update(ctx context.Context, identity auth.Identity, id int64, content string) (*model.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(identity, comment.AuthorID, id, "update"); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}

	comment.Content = content
	if err := s.comments.Update(ctx, comment); err != nil {
		s.logger.Error("failed to update comment",
			slog.Int64("commentID", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating comment: %w", err)
	}

	s.logger.Info("comment updated", slog.Int64("commentID", id))
	return comment, nil
}

// Delete removes a comment.
func (s *CommentService) Delete(ctx context.Context, identity auth.Identity, id int64) error {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorize(identity, comment.AuthorID, id, "delete"); err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("comment deleted", slog.Int64("commentID", id))
	return nil
}

func (s *CommentService) authorize(identity auth.Identity, authorID, commentID int64, op string) error {
	switch decision := auth.AuthorizeMutation(identity, authorID); decision {
	case auth.Allowed:
		return nil
	case auth.DeniedAnonymous:
		return apperror.Unauthenticated("Not authenticated")
	default:
		userID, _ := identity.UserID()
		s.logger.Warn("comment mutation denied",
			slog.Int64("commentID", commentID),
			slog.Int64("userID", userID),
			slog.String("op", op),
			slog.String("decision", decision.String()),
		)
		return apperror.Forbidden(fmt.Sprintf("Only the comment author can %s this comment", op))
	}
}
