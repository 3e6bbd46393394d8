package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sakif/blog-platform/internal/apperror"
	"github.com/sakif/blog-platform/internal/auth"
	"github.com/sakif/blog-platform/internal/model"
)

// newTestCommentService wires a CommentService plus a post repo seeded with
// one post (id 1, author 1).
func newTestCommentService(t *testing.T) (*CommentService, *fakeCommentRepo, *fakePostRepo) {
	t.Helper()
	comments := newFakeCommentRepo()
	posts := newFakePostRepo()
	if err := posts.Create(context.Background(), &model.Post{Title: "host post", Content: "content", AuthorID: 1}); err != nil {
		t.Fatalf("seeding post: %v", err)
	}
	return NewCommentService(comments, posts, testLogger()), comments, posts
}

// =========================================================================
// Create
// =========================================================================

func TestCommentServiceCreate_Success(t *testing.T) {
	svc, _, _ := newTestCommentService(t)

	comment, err := svc.Create(context.Background(), auth.Authenticated(2), 1, "  nice post  ")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if comment.Content != "nice post" {
		t.Errorf("Content = %q, want trimmed", comment.Content)
	}
	if comment.PostID != 1 || comment.AuthorID != 2 {
		t.Errorf("PostID = %d, AuthorID = %d", comment.PostID, comment.AuthorID)
	}
}

func TestCommentServiceCreate_Anonymous(t *testing.T) {
	svc, _, _ := newTestCommentService(t)

	_, err := svc.Create(context.Background(), auth.Anonymous, 1, "hello")
	if !errors.Is(err, apperror.ErrUnauthenticated) {
		t.Errorf("Create() error = %v, want ErrUnauthenticated", err)
	}
}

func TestCommentServiceCreate_MissingPost(t *testing.T) {
	svc, _, _ := newTestCommentService(t)

	_, err := svc.Create(context.Background(), auth.Authenticated(2), 999, "hello")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Create() error = %v, want ErrNotFound", err)
	}
}

func TestCommentServiceCreate_Validation(t *testing.T) {
	svc, _, _ := newTestCommentService(t)
	ctx := context.Background()

	for _, content := range []string{"", "   ", strings.Repeat("a", MaxCommentLength+1)} {
		if _, err := svc.Create(ctx, auth.Authenticated(2), 1, content); !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Create(%.10q...) error = %v, want ErrValidation", content, err)
		}
	}

	// Exactly at the limit is fine.
	if _, err := svc.Create(ctx, auth.Authenticated(2), 1, strings.Repeat("a", MaxCommentLength)); err != nil {
		t.Errorf("Create() error = %v for a max-length comment", err)
	}

	// The limit counts characters: a max-length multibyte comment is twice
	// the bytes but still within bounds.
	if _, err := svc.Create(ctx, auth.Authenticated(2), 1, strings.Repeat("я", MaxCommentLength)); err != nil {
		t.Errorf("Create() error = %v for a max-length multibyte comment", err)
	}
}

// =========================================================================
// ListByPost
// =========================================================================

func TestCommentServiceListByPost(t *testing.T) {
	svc, _, _ := newTestCommentService(t)
	ctx := context.Background()

	for _, content := range []string{"first", "second", "third"} {
		if _, err := svc.Create(ctx, auth.Authenticated(2), 1, content); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	comments, err := svc.ListByPost(ctx, 1)
	if err != nil {
		t.Fatalf("ListByPost() error = %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("len(comments) = %d, want 3", len(comments))
	}
	if comments[0].Content != "first" || comments[2].Content != "third" {
		t.Errorf("ordering = [%q ... %q], want oldest first", comments[0].Content, comments[2].Content)
	}
}

func TestCommentServiceListByPost_MissingPost(t *testing.T) {
	svc, _, _ := newTestCommentService(t)

	_, err := svc.ListByPost(context.Background(), 999)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("ListByPost() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// Update / Delete — the ownership gate
// =========================================================================

func TestCommentServiceUpdate_Owner(t *testing.T) {
	svc, _, _ := newTestCommentService(t)
	ctx := context.Background()

	comment, err := svc.Create(ctx, auth.Authenticated(2), 1, "before")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := svc.Update(ctx, auth.Authenticated(2), comment.ID, "after")
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Content != "after" {
		t.Errorf("Content = %q", updated.Content)
	}
}

func TestCommentServiceUpdate_NotOwner(t *testing.T) {
	svc, _, _ := newTestCommentService(t)
	ctx := context.Background()

	comment, err := svc.Create(ctx, auth.Authenticated(2), 1, "mine")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Even the post's author cannot edit someone else's comment.
	_, err = svc.Update(ctx, auth.Authenticated(1), comment.ID, "hijacked")
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("Update() error = %v, want ErrForbidden", err)
	}
}

func TestCommentServiceUpdate_Anonymous(t *testing.T) {
	svc, _, _ := newTestCommentService(t)
	ctx := context.Background()

	comment, err := svc.Create(ctx, auth.Authenticated(2), 1, "mine")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = svc.Update(ctx, auth.Anonymous, comment.ID, "hijacked")
	if !errors.Is(err, apperror.ErrUnauthenticated) {
		t.Errorf("Update() error = %v, want ErrUnauthenticated", err)
	}
}

func TestCommentServiceUpdate_NotFound(t *testing.T) {
	svc, _, _ := newTestCommentService(t)

	_, err := svc.Update(context.Background(), auth.Authenticated(2), 999, "anything")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestCommentServiceDelete_Owner(t *testing.T) {
	svc, comments, _ := newTestCommentService(t)
	ctx := context.Background()

	comment, err := svc.Create(ctx, auth.Authenticated(2), 1, "gone soon")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(ctx, auth.Authenticated(2), comment.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := comments.GetByID(ctx, comment.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("comment still present after delete: %v", err)
	}
}

func TestCommentServiceDelete_NotOwner(t *testing.T) {
	svc, _, _ := newTestCommentService(t)
	ctx := context.Background()

	comment, err := svc.Create(ctx, auth.Authenticated(2), 1, "mine")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(ctx, auth.Authenticated(3), comment.ID); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("Delete() error = %v, want ErrForbidden", err)
	}
}
