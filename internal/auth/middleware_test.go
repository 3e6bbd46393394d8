package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func requestWithToken(t *testing.T, token string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	}
	return r
}

// =========================================================================
// RequireAuth
// =========================================================================

func TestRequireAuth_NoCookie(t *testing.T) {
	ts := newTestTokenService(t)

	called := false
	handler := RequireAuth(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestWithToken(t, ""))

	if called {
		t.Error("inner handler ran without a token")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(w.Body.String(), "Not authenticated") {
		t.Errorf("body = %q, want detail message", w.Body.String())
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.Issue(42)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	var got Identity
	handler := RequireAuth(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IdentityFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestWithToken(t, token))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	id, ok := got.UserID()
	if !ok || id != 42 {
		t.Errorf("identity = (%d, %v), want (42, true)", id, ok)
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.IssueWithDuration(42, -time.Minute)
	if err != nil {
		t.Fatalf("IssueWithDuration() error = %v", err)
	}

	handler := RequireAuth(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestWithToken(t, token))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// =========================================================================
// OptionalAuth
// =========================================================================

func TestOptionalAuth_NoCookiePassesThroughAnonymous(t *testing.T) {
	ts := newTestTokenService(t)

	var got Identity
	handler := OptionalAuth(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IdentityFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestWithToken(t, ""))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got.IsAuthenticated() {
		t.Error("identity authenticated without a token")
	}
}

func TestOptionalAuth_InvalidTokenPassesThroughAnonymous(t *testing.T) {
	ts := newTestTokenService(t)

	var got Identity
	handler := OptionalAuth(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IdentityFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestWithToken(t, "garbage"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got.IsAuthenticated() {
		t.Error("identity authenticated from a garbage token")
	}
}

func TestOptionalAuth_ValidToken(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.Issue(7)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	var got Identity
	handler := OptionalAuth(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IdentityFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestWithToken(t, token))

	id, ok := got.UserID()
	if !ok || id != 7 {
		t.Errorf("identity = (%d, %v), want (7, true)", id, ok)
	}
}

func TestIdentityFromContext_EmptyContext(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if IdentityFromContext(r.Context()).IsAuthenticated() {
		t.Error("IdentityFromContext() authenticated on a bare context")
	}
}
