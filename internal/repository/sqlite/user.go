package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sakif/blog-platform/internal/apperror"
	"github.com/sakif/blog-platform/internal/model"
	"github.com/sakif/blog-platform/internal/repository"
)

// UserDB implements repository.UserRepository on the shared pool.
type UserDB struct {
	conn *sql.DB
}

// compile-time check that *UserDB implements repository.UserRepository
var _ repository.UserRepository = (*UserDB)(nil)

// Create inserts a new user. The service pre-checks username/email
// uniqueness for friendly 409 messages, but two concurrent registrations
// can still race past those checks — the UNIQUE constraints are the
// authority, and their violation is translated back into a conflict error
// here.
func (u *UserDB) Create(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now().UTC()

	res, err := u.conn.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?)`,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		if conflictErr := translateUserConflict(err); conflictErr != nil {
			return conflictErr
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	user.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading inserted user id: %w", err)
	}

	return nil
}

// translateUserConflict maps a UNIQUE-constraint failure on the users
// table to the matching conflict error, or returns nil for other errors.
func translateUserConflict(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return nil
	}
	if strings.Contains(msg, "users.email") {
		return apperror.Conflict("Email already exists")
	}
	return apperror.Conflict("Username already exists")
}

// GetByID retrieves a user by id. Returns apperror.ErrNotFound if absent.
func (u *UserDB) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return u.getUser(ctx, `WHERE id = ?`, id)
}

// GetByUsername retrieves a user by exact username.
func (u *UserDB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return u.getUser(ctx, `WHERE username = ?`, username)
}

// GetByEmail retrieves a user by exact email.
func (u *UserDB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.getUser(ctx, `WHERE email = ?`, email)
}

func (u *UserDB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var user model.User

	err := u.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at
		 FROM users `+where,
		arg,
	).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("User")
		}
		return nil, fmt.Errorf("sqlite: getting user (%v): %w", arg, err)
	}

	return &user, nil
}

// CountPostsByAuthor returns how many posts the user has written.
func (u *UserDB) CountPostsByAuthor(ctx context.Context, authorID int64) (int, error) {
	var count int
	err := u.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE author_id = ?`,
		authorID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting posts for user %d: %w", authorID, err)
	}
	return count, nil
}
