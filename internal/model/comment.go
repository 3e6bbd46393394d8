package model

import "time"

// Comment belongs to exactly one post. PostID and AuthorID are immutable;
// deleting the parent post deletes its comments.
type Comment struct {
	ID        int64      `json:"id"`
	Content   string     `json:"content"`
	PostID    int64      `json:"post_id"`
	AuthorID  int64      `json:"-"`
	Author    PublicUser `json:"author"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
