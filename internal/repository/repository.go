// Package repository declares the storage interfaces the service layer
// depends on. Services receive these interfaces, never the concrete
// sqlite implementation, so tests can substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/blog-platform/internal/model"
)

// ListOptions carries offset pagination for post listings.
type ListOptions struct {
	Limit  int
	Offset int
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// CountPostsByAuthor backs the public profile's post count.
	CountPostsByAuthor(ctx context.Context, authorID int64) (int, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	// List returns newest-first posts plus the total count across all pages.
	List(ctx context.Context, opts ListOptions) ([]model.PostListItem, int, error)
	Update(ctx context.Context, post *model.Post) error
	// Delete removes the post and all its comments in one transaction.
	Delete(ctx context.Context, id int64) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id int64) (*model.Comment, error)
	// ListByPost returns a post's comments oldest-first.
	ListByPost(ctx context.Context, postID int64) ([]model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, id int64) error
}
