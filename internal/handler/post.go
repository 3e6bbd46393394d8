package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/blog-platform/internal/apperror"
	"github.com/sakif/blog-platform/internal/auth"
	"github.com/sakif/blog-platform/internal/service"
)

// PostHandler serves the post CRUD endpoints.
type PostHandler struct {
	posts  *service.PostService
	logger *slog.Logger
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(posts *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, logger: logger}
}

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// HandleList returns one page of posts.
//
// HTTP: GET /api/posts?page=1&page_size=20 → {items,total,page,page_size,total_pages}
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, err)
		return
	}
	pageSize, err := queryInt(r, "page_size", service.DefaultPageSize)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.posts.List(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleCreate creates a post authored by the session user.
//
// HTTP: POST /api/posts, behind RequireAuth → 201 with the full post.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.Create(r.Context(), auth.IdentityFromContext(r.Context()), req.Title, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// HandleGet returns a single post with its author.
//
// HTTP: GET /api/posts/{id} → 200 or 404. Public.
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleUpdate replaces a post's title and content.
//
// HTTP: PUT /api/posts/{id}, behind RequireAuth → 200, 403 for
// non-authors, 404 for absent posts.
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.Update(r.Context(), auth.IdentityFromContext(r.Context()), id, req.Title, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleDelete removes a post and its comments.
//
// HTTP: DELETE /api/posts/{id}, behind RequireAuth → 204.
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.posts.Delete(r.Context(), auth.IdentityFromContext(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the numeric {name} URL parameter. Non-numeric ids cannot
// name any resource, so they answer 404 rather than 400.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NotFound("Resource")
	}
	return id, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.ValidationFailed(name, name+" must be an integer")
	}
	return v, nil
}
