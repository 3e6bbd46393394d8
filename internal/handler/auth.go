package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/blog-platform/internal/auth"
	"github.com/sakif/blog-platform/internal/service"
)

// AuthHandler serves registration, login, logout, and the current-user
// endpoint. It owns the session cookie: services issue tokens, but only
// this handler decides how they travel to the browser.
type AuthHandler struct {
	auths        *service.AuthService
	cookieMaxAge time.Duration
	secureCookie bool
	logger       *slog.Logger
}

// NewAuthHandler creates an AuthHandler. cookieMaxAge should match the
// token TTL; secureCookie must be true in production so the cookie only
// travels over HTTPS.
func NewAuthHandler(auths *service.AuthService, cookieMaxAge time.Duration, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auths:        auths,
		cookieMaxAge: cookieMaxAge,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister creates an account and starts a session.
//
// HTTP: POST /api/auth/register → 201 with the new user's fields (email
// included — the owner is reading) and the session cookie set.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auths.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	writeJSON(w, http.StatusCreated, result.User)
}

// HandleLogin authenticates an existing account.
//
// HTTP: POST /api/auth/login → 200 + cookie, or 401 on bad credentials.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auths.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	writeJSON(w, http.StatusOK, result.User)
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /api/auth/logout → 200. Logout is client-side only: the
// token stays technically valid until expiry, but without the cookie the
// browser can no longer send it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookie,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

// HandleMe returns the authenticated user's own record.
//
// HTTP: GET /api/auth/me, behind RequireAuth. The service re-checks that
// the user row still exists — this is the one endpoint where a stale
// token for a vanished user surfaces, and it answers 401.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.auths.CurrentUser(r.Context(), auth.IdentityFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// setSessionCookie stores the token in the HttpOnly session cookie.
// SameSite=Lax keeps it off cross-site POSTs; Max-Age matches the token
// TTL so cookie and token expire together.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookie,
	})
}
