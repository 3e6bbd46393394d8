package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/blog-platform/internal/apperror"
	"github.com/sakif/blog-platform/internal/auth"
	"github.com/sakif/blog-platform/internal/model"
	"github.com/sakif/blog-platform/internal/repository"
)

// =========================================================================
// FAKES AND HELPERS
//
// In-memory fakes instead of a mock framework: each fake is a few dozen
// transparent lines, and a test reads without cross-referencing
// expectation setup.
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeUserRepo implements repository.UserRepository in memory.
type fakeUserRepo struct {
	users  map[int64]*model.User
	nextID int64
	// post counts per author, for CountPostsByAuthor
	postCounts map[int64]int
	// set to a non-nil error to simulate a database failure
	failWith error
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:      make(map[int64]*model.User),
		nextID:     1,
		postCounts: make(map[int64]int),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if f.failWith != nil {
		return f.failWith
	}
	for _, existing := range f.users {
		if existing.Username == user.Username {
			return apperror.Conflict("Username already exists")
		}
		if existing.Email == user.Email {
			return apperror.Conflict("Email already exists")
		}
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now().UTC()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("User")
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("User")
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("User")
}

func (f *fakeUserRepo) CountPostsByAuthor(ctx context.Context, authorID int64) (int, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	return f.postCounts[authorID], nil
}

// fakePostRepo implements repository.PostRepository in memory. Posts list
// newest-first by id, mirroring the real ordering.
type fakePostRepo struct {
	posts    map[int64]*model.Post
	nextID   int64
	failWith error
}

var _ repository.PostRepository = (*fakePostRepo)(nil)

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[int64]*model.Post), nextID: 1}
}

func (f *fakePostRepo) Create(ctx context.Context, post *model.Post) error {
	if f.failWith != nil {
		return f.failWith
	}
	post.ID = f.nextID
	f.nextID++
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	copied := *post
	f.posts[post.ID] = &copied
	return nil
}

func (f *fakePostRepo) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	p, ok := f.posts[id]
	if !ok {
		return nil, apperror.NotFound("Post")
	}
	copied := *p
	return &copied, nil
}

func (f *fakePostRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.PostListItem, int, error) {
	if f.failWith != nil {
		return nil, 0, f.failWith
	}
	// Collect ids newest-first
	items := []model.PostListItem{}
	for id := f.nextID - 1; id >= 1; id-- {
		p, ok := f.posts[id]
		if !ok {
			continue
		}
		items = append(items, model.PostListItem{
			ID:        p.ID,
			Title:     p.Title,
			Author:    p.Author,
			CreatedAt: p.CreatedAt,
		})
	}
	total := len(items)
	if opts.Offset >= len(items) {
		return []model.PostListItem{}, total, nil
	}
	items = items[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	return items, total, nil
}

func (f *fakePostRepo) Update(ctx context.Context, post *model.Post) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.posts[post.ID]; !ok {
		return apperror.NotFound("Post")
	}
	post.UpdatedAt = time.Now().UTC()
	copied := *post
	f.posts[post.ID] = &copied
	return nil
}

func (f *fakePostRepo) Delete(ctx context.Context, id int64) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.posts[id]; !ok {
		return apperror.NotFound("Post")
	}
	delete(f.posts, id)
	return nil
}

// fakeCommentRepo implements repository.CommentRepository in memory.
type fakeCommentRepo struct {
	comments map[int64]*model.Comment
	nextID   int64
	failWith error
}

var _ repository.CommentRepository = (*fakeCommentRepo)(nil)

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[int64]*model.Comment), nextID: 1}
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	if f.failWith != nil {
		return f.failWith
	}
	comment.ID = f.nextID
	f.nextID++
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	copied := *comment
	f.comments[comment.ID] = &copied
	return nil
}

func (f *fakeCommentRepo) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	c, ok := f.comments[id]
	if !ok {
		return nil, apperror.NotFound("Comment")
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCommentRepo) ListByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	// Oldest-first by id, mirroring the real ordering.
	comments := []model.Comment{}
	for id := int64(1); id < f.nextID; id++ {
		c, ok := f.comments[id]
		if !ok || c.PostID != postID {
			continue
		}
		comments = append(comments, *c)
	}
	return comments, nil
}

func (f *fakeCommentRepo) Update(ctx context.Context, comment *model.Comment) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.comments[comment.ID]; !ok {
		return apperror.NotFound("Comment")
	}
	comment.UpdatedAt = time.Now().UTC()
	copied := *comment
	f.comments[comment.ID] = &copied
	return nil
}

func (f *fakeCommentRepo) Delete(ctx context.Context, id int64) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.comments[id]; !ok {
		return apperror.NotFound("Comment")
	}
	delete(f.comments, id)
	return nil
}

// newTestAuthService wires an AuthService to the given fake repo with fast
// crypto settings.
func newTestAuthService(t *testing.T, repo *fakeUserRepo) *AuthService {
	t.Helper()

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordService(bcrypt.MinCost)
	return NewAuthService(repo, tokens, passwords, testLogger())
}
