package model

import "time"

// Post is a blog post. AuthorID is immutable after creation; only the
// author may mutate or delete the post. UpdatedAt is bumped on every
// mutation.
type Post struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	AuthorID  int64      `json:"-"`
	Author    PublicUser `json:"author"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PostListItem is a post as it appears in paginated listings. Content is
// omitted — list pages only need the headline fields.
type PostListItem struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Author    PublicUser `json:"author"`
	CreatedAt time.Time  `json:"created_at"`
}

// PostPage is the paginated response for GET /api/posts.
type PostPage struct {
	Items      []PostListItem `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}
