package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/blog-platform/internal/model"
)

// newTestDB opens a fresh in-memory database with the full schema. Each
// test gets its own instance, so tests never see each other's rows.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(:memory:) error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedUser inserts a user with a throwaway email derived from the username.
func seedUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$2a$04$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
	}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("seeding user %q: %v", username, err)
	}
	return user
}

// seedUserInput builds a user value without inserting it, for tests that
// need the insert itself to fail.
func seedUserInput(username, email string) *model.User {
	return &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$04$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
	}
}

// seedPost inserts a post by the given author.
func seedPost(t *testing.T, db *DB, authorID int64, title string) *model.Post {
	t.Helper()
	post := &model.Post{
		Title:    title,
		Content:  "content of " + title,
		AuthorID: authorID,
	}
	if err := db.Posts().Create(context.Background(), post); err != nil {
		t.Fatalf("seeding post %q: %v", title, err)
	}
	return post
}

// seedComment inserts a comment on the given post.
func seedComment(t *testing.T, db *DB, postID, authorID int64, content string) *model.Comment {
	t.Helper()
	comment := &model.Comment{
		Content:  content,
		PostID:   postID,
		AuthorID: authorID,
	}
	if err := db.Comments().Create(context.Background(), comment); err != nil {
		t.Fatalf("seeding comment %q: %v", content, err)
	}
	return comment
}
