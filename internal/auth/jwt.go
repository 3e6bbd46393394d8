// Package auth implements the authentication and authorization core:
// password hashing, session token issue/verify, request identity
// extraction, and the ownership rule that gates content mutation.
//
// SESSION FLOW:
//  1. Register/login verifies credentials and issues a signed JWT
//  2. The handler stores the JWT in the HttpOnly "access_token" cookie
//  3. On later requests, middleware reads the cookie, verifies the JWT,
//     and puts the resolved Identity in the request context
//
// Tokens are stateless — everything needed to validate them (user id,
// expiry, signature) is inside the token itself, so no session store
// exists server-side. The tradeoff is non-revocability before expiry,
// accepted with the 24h default lifetime.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL matches the cookie lifetime: a session lasts 24 hours.
const DefaultTokenTTL = 24 * time.Hour

// Typed verification failures. Callers never see raw jwt library errors —
// Verify translates them into these three, and the middleware collapses
// all of them into a 401 without leaking cryptographic detail.
var (
	// ErrTokenExpired means the token was valid but its expiry has passed.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrTokenSignatureInvalid means the signature does not match
	// recomputation with this service's secret.
	ErrTokenSignatureInvalid = errors.New("auth: token signature invalid")
	// ErrTokenMalformed means the string could not be parsed as a JWT at all.
	ErrTokenMalformed = errors.New("auth: token malformed")
)

// TokenService issues and verifies the signed session tokens.
//
// The HMAC secret is injected at construction (not read from a global), so
// independent instances — and tests — can use independent secrets.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService signing with the given secret.
// The secret must be at least 16 characters; use 32+ bytes of randomness
// in production (e.g. JWT_SECRET=$(openssl rand -hex 32)).
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// claims embeds jwt.RegisteredClaims; the user id travels in "sub".
type claims struct {
	jwt.RegisteredClaims
}

// Issue creates a signed token for the given user id, expiring after the
// service's configured TTL.
func (s *TokenService) Issue(userID int64) (string, error) {
	return s.IssueWithDuration(userID, s.ttl)
}

// IssueWithDuration creates a token with an explicit lifetime. Used by
// tests to mint already-expired tokens.
func (s *TokenService) IssueWithDuration(userID int64, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    "blog-platform",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// TTL reports the configured token lifetime. The handler uses it to set a
// matching cookie Max-Age.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Verify parses and validates a token string and returns the user id it
// encodes. Success carries no guarantee that the user still exists — that
// check belongs to callers that need it.
//
// Restricting the accepted algorithms to HS256 closes the algorithm
// confusion hole where a "none"-signed token might slip through.
func (s *TokenService) Verify(tokenStr string) (int64, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("blog-platform"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return 0, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return 0, ErrTokenSignatureInvalid
		default:
			return 0, ErrTokenMalformed
		}
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return 0, ErrTokenMalformed
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrTokenMalformed
	}

	return userID, nil
}
