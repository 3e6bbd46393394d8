package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/blog-platform/internal/apperror"
	"github.com/sakif/blog-platform/internal/model"
	"github.com/sakif/blog-platform/internal/repository"
)

// CommentDB implements repository.CommentRepository on the shared pool.
type CommentDB struct {
	conn *sql.DB
}

// compile-time check that *CommentDB implements repository.CommentRepository
var _ repository.CommentRepository = (*CommentDB)(nil)

// Create inserts a new comment and fills in its id, timestamps, and author
// fields. The service has already confirmed the post exists.
func (c *CommentDB) Create(ctx context.Context, comment *model.Comment) error {
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	res, err := c.conn.ExecContext(ctx,
		`INSERT INTO comments (content, post_id, author_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		comment.Content,
		comment.PostID,
		comment.AuthorID,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating comment on post %d: %w", comment.PostID, err)
	}

	comment.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading inserted comment id: %w", err)
	}

	err = c.conn.QueryRowContext(ctx,
		`SELECT id, username, created_at FROM users WHERE id = ?`,
		comment.AuthorID,
	).Scan(&comment.Author.ID, &comment.Author.Username, &comment.Author.CreatedAt)
	if err != nil {
		return fmt.Errorf("sqlite: loading author %d for comment %d: %w", comment.AuthorID, comment.ID, err)
	}

	return nil
}

// GetByID retrieves a comment with its author joined in.
func (c *CommentDB) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment

	err := c.conn.QueryRowContext(ctx,
		`SELECT c.id, c.content, c.post_id, c.author_id, c.created_at, c.updated_at,
		        u.id, u.username, u.created_at
		 FROM comments c
		 JOIN users u ON u.id = c.author_id
		 WHERE c.id = ?`,
		id,
	).Scan(
		&comment.ID,
		&comment.Content,
		&comment.PostID,
		&comment.AuthorID,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&comment.Author.ID,
		&comment.Author.Username,
		&comment.Author.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Comment")
		}
		return nil, fmt.Errorf("sqlite: getting comment %d: %w", id, err)
	}

	return &comment, nil
}

// ListByPost returns a post's comments oldest-first — discussion threads
// read top to bottom.
func (c *CommentDB) ListByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	rows, err := c.conn.QueryContext(ctx,
		`SELECT c.id, c.content, c.post_id, c.author_id, c.created_at, c.updated_at,
		        u.id, u.username, u.created_at
		 FROM comments c
		 JOIN users u ON u.id = c.author_id
		 WHERE c.post_id = ?
		 ORDER BY c.created_at ASC, c.id ASC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments of post %d: %w", postID, err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var comment model.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.Content,
			&comment.PostID,
			&comment.AuthorID,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&comment.Author.ID,
			&comment.Author.Username,
			&comment.Author.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}

	return comments, nil
}

// Update writes the comment's content and bumped updated_at.
func (c *CommentDB) Update(ctx context.Context, comment *model.Comment) error {
	comment.UpdatedAt = time.Now().UTC()

	result, err := c.conn.ExecContext(ctx,
		`UPDATE comments SET content = ?, updated_at = ? WHERE id = ?`,
		comment.Content,
		comment.UpdatedAt,
		comment.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating comment %d: %w", comment.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("Comment")
	}

	return nil
}

// Delete removes a single comment.
func (c *CommentDB) Delete(ctx context.Context, id int64) error {
	result, err := c.conn.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting comment %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("Comment")
	}

	return nil
}
