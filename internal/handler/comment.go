package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/blog-platform/internal/auth"
	"github.com/sakif/blog-platform/internal/service"
)

// CommentHandler serves the comment endpoints. Creation and listing hang
// off the parent post's URL; update and delete address comments directly.
type CommentHandler struct {
	comments *service.CommentService
	logger   *slog.Logger
}

// NewCommentHandler creates a CommentHandler.
func NewCommentHandler(comments *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, logger: logger}
}

type commentRequest struct {
	Content string `json:"content"`
}

// HandleListByPost returns a post's comments, oldest first.
//
// HTTP: GET /api/posts/{id}/comments → 200, or 404 if the post is absent.
func (h *CommentHandler) HandleListByPost(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	comments, err := h.comments.ListByPost(r.Context(), postID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

// HandleCreate adds a comment to a post.
//
// HTTP: POST /api/posts/{id}/comments, behind RequireAuth → 201.
func (h *CommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.comments.Create(r.Context(), auth.IdentityFromContext(r.Context()), postID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

// HandleUpdate replaces a comment's content.
//
// HTTP: PUT /api/comments/{id}, behind RequireAuth → 200.
func (h *CommentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.comments.Update(r.Context(), auth.IdentityFromContext(r.Context()), id, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

// HandleDelete removes a comment.
//
// HTTP: DELETE /api/comments/{id}, behind RequireAuth → 204.
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.comments.Delete(r.Context(), auth.IdentityFromContext(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
