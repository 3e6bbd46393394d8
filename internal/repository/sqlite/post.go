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

// PostDB implements repository.PostRepository on the shared pool.
type PostDB struct {
	conn *sql.DB
}

// compile-time check that *PostDB implements repository.PostRepository
var _ repository.PostRepository = (*PostDB)(nil)

// Create inserts a new post and fills in its id, timestamps, and the
// author's public fields.
func (p *PostDB) Create(ctx context.Context, post *model.Post) error {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	res, err := p.conn.ExecContext(ctx,
		`INSERT INTO posts (title, content, author_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		post.Title,
		post.Content,
		post.AuthorID,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	post.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading inserted post id: %w", err)
	}

	// Load the author's public fields so the post leaves the repository
	// response-ready.
	err = p.conn.QueryRowContext(ctx,
		`SELECT id, username, created_at FROM users WHERE id = ?`,
		post.AuthorID,
	).Scan(&post.Author.ID, &post.Author.Username, &post.Author.CreatedAt)
	if err != nil {
		return fmt.Errorf("sqlite: loading author %d for post %d: %w", post.AuthorID, post.ID, err)
	}

	return nil
}

// GetByID retrieves a post with its author joined in.
func (p *PostDB) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post

	err := p.conn.QueryRowContext(ctx,
		`SELECT p.id, p.title, p.content, p.author_id, p.created_at, p.updated_at,
		        u.id, u.username, u.created_at
		 FROM posts p
		 JOIN users u ON u.id = p.author_id
		 WHERE p.id = ?`,
		id,
	).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.AuthorID,
		&post.CreatedAt,
		&post.UpdatedAt,
		&post.Author.ID,
		&post.Author.Username,
		&post.Author.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Post")
		}
		return nil, fmt.Errorf("sqlite: getting post %d: %w", id, err)
	}

	return &post, nil
}

// List returns a newest-first page of post list items (no content column)
// together with the total post count the pagination metadata needs.
func (p *PostDB) List(ctx context.Context, opts repository.ListOptions) ([]model.PostListItem, int, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := p.conn.QueryContext(ctx,
		`SELECT p.id, p.title, p.created_at,
		        u.id, u.username, u.created_at
		 FROM posts p
		 JOIN users u ON u.id = p.author_id
		 ORDER BY p.created_at DESC, p.id DESC
		 LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	items := make([]model.PostListItem, 0, limit)
	for rows.Next() {
		var item model.PostListItem
		if err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.CreatedAt,
			&item.Author.ID,
			&item.Author.Username,
			&item.Author.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	var total int
	if err := p.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting posts: %w", err)
	}

	return items, total, nil
}

// Update writes the post's title, content, and bumped updated_at. Id,
// author, and created_at are immutable and never touched.
func (p *PostDB) Update(ctx context.Context, post *model.Post) error {
	post.UpdatedAt = time.Now().UTC()

	result, err := p.conn.ExecContext(ctx,
		`UPDATE posts SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		post.Title,
		post.Content,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating post %d: %w", post.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("Post")
	}

	return nil
}

// Delete removes a post and all its comments in one transaction. The
// cascade is explicit — comments first, then the post — rather than
// leaning on the FK's ON DELETE CASCADE, so the behavior holds even on a
// connection where foreign keys were left off.
func (p *PostDB) Delete(ctx context.Context, id int64) error {
	tx, err := p.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE post_id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: deleting comments of post %d: %w", id, err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("Post")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing delete of post %d: %w", id, err)
	}

	return nil
}
