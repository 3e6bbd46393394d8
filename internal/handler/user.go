package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/blog-platform/internal/service"
)

// UserHandler serves public profile lookups.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandleProfile returns a user's public profile with post count.
//
// HTTP: GET /api/users/{id} → {id,username,created_at,post_count}. Public.
func (h *UserHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.users.Profile(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
