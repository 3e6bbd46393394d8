package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/sakif/blog-platform/internal/apperror"
	"github.com/sakif/blog-platform/internal/model"
	"github.com/sakif/blog-platform/internal/service"
)

// PageHandler renders the server-side HTML pages. Templates are parsed
// once at construction and reused; each page template defines a "content"
// block pulled into base.html.
//
// The pages are thin shells — content mutation always goes through the
// JSON API, so these handlers only fetch what the page needs to render.
type PageHandler struct {
	templates map[string]*template.Template
	posts     *service.PostService
	users     *service.UserService
	logger    *slog.Logger
}

// NewPageHandler parses the page templates under templateDir.
func NewPageHandler(templateDir string, posts *service.PostService, users *service.UserService, logger *slog.Logger) (*PageHandler, error) {
	pages := []string{"index.html", "register.html", "login.html", "post_form.html", "post_detail.html", "user_profile.html"}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, page),
		)
		if err != nil {
			return nil, err
		}
		templates[page] = tmpl
	}

	return &PageHandler{
		templates: templates,
		posts:     posts,
		users:     users,
		logger:    logger,
	}, nil
}

// HandleIndex renders the post list shell; the page loads posts from
// GET /api/posts.
func (h *PageHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, "index.html", map[string]any{"Title": "Blog"})
}

// HandleRegister renders the registration form.
func (h *PageHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	h.render(w, "register.html", map[string]any{"Title": "Register"})
}

// HandleLogin renders the login form.
func (h *PageHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", map[string]any{"Title": "Log in"})
}

// HandleNewPost renders the empty post form.
func (h *PageHandler) HandleNewPost(w http.ResponseWriter, r *http.Request) {
	h.render(w, "post_form.html", map[string]any{
		"Title": "New post",
		"Post":  (*model.Post)(nil),
	})
}

// HandlePostDetail renders a post's page.
func (h *PageHandler) HandlePostDetail(w http.ResponseWriter, r *http.Request) {
	post, ok := h.lookupPost(w, r)
	if !ok {
		return
	}

	h.render(w, "post_detail.html", map[string]any{
		"Title": post.Title,
		"Post":  post,
	})
}

// HandleEditPost renders the post form pre-filled for editing. The
// ownership check happens in the API when the edit is submitted.
func (h *PageHandler) HandleEditPost(w http.ResponseWriter, r *http.Request) {
	post, ok := h.lookupPost(w, r)
	if !ok {
		return
	}

	h.render(w, "post_form.html", map[string]any{
		"Title": "Edit post",
		"Post":  post,
	})
}

// HandleUserProfile renders a user's public profile page.
func (h *PageHandler) HandleUserProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	profile, err := h.users.Profile(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, "user_profile.html", map[string]any{
		"Title":   profile.Username,
		"Profile": profile,
	})
}

func (h *PageHandler) lookupPost(w http.ResponseWriter, r *http.Request) (*model.Post, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	post, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return nil, false
	}

	return post, true
}

func (h *PageHandler) render(w http.ResponseWriter, page string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates[page].ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *PageHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, apperror.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	h.logger.Error("page lookup failed", slog.String("error", err.Error()))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
