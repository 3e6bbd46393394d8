package auth

import (
	"context"
	"net/http"
)

// CookieName is the credential carrier: an HttpOnly cookie holding the JWT.
// HttpOnly keeps the token out of reach of page JavaScript.
const CookieName = "access_token"

// contextKey is unexported so only this package can read or write the
// identity stored in a request context — a plain string key would let any
// package shadow it.
type contextKey struct{}

var identityKey contextKey

// RequireAuth enforces authentication on protected routes. A missing or
// failed-verification cookie ends the request with 401; on success the
// resolved Identity is stored in the request context.
//
// Verification failures are deliberately collapsed into one client-facing
// message: the response never says whether the token was absent, expired,
// or tampered with.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := resolve(r, tokens)
			if !identity.IsAuthenticated() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail":"Not authenticated"}`))
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves the identity if a valid token is present but never
// blocks the request. Public read routes use it so handlers can still tell
// who is asking; an absent or invalid token simply leaves the request
// anonymous.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if identity := resolve(r, tokens); identity.IsAuthenticated() {
				r = r.WithContext(context.WithValue(r.Context(), identityKey, identity))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext retrieves the identity stored by the middleware.
// Requests that never passed through the middleware, or carried no valid
// token, come back as Anonymous.
func IdentityFromContext(ctx context.Context) Identity {
	if identity, ok := ctx.Value(identityKey).(Identity); ok {
		return identity
	}
	return Anonymous
}

// resolve reads the token cookie and verifies it. It never consults the
// user store — session extraction is stateless; handlers that need the
// backing user record fetch it themselves.
func resolve(r *http.Request, tokens *TokenService) Identity {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Anonymous
	}

	userID, err := tokens.Verify(cookie.Value)
	if err != nil {
		return Anonymous
	}

	return Authenticated(userID)
}
