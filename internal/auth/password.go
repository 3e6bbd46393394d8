// Package auth — password hashing.
//
// bcrypt generates a random salt per hash and embeds algorithm, cost, and
// salt in the output string, so verification needs nothing besides the
// stored digest. Cost 12 takes roughly 250ms on current server hardware —
// raising the cost slows registration and login proportionally, which is
// the point: the same slowdown is what makes offline cracking expensive.
package auth

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used in production. Tests inject
// bcrypt.MinCost instead to avoid paying ~250ms per hash.
const DefaultCost = 12

// MinPasswordLength is the shortest password Hash will accept.
const MinPasswordLength = 8

var (
	// ErrPasswordTooShort is returned by Hash for passwords under
	// MinPasswordLength characters.
	ErrPasswordTooShort = fmt.Errorf("auth: password must be at least %d characters", MinPasswordLength)
	// ErrPasswordTooLong is returned by Hash for passwords over 72 bytes;
	// bcrypt silently truncates beyond that, so we reject instead.
	ErrPasswordTooLong = errors.New("auth: password must be 72 bytes or fewer")
	// ErrMalformedHash is returned by Verify when the stored digest is not
	// something bcrypt produced.
	ErrMalformedHash = errors.New("auth: malformed password hash")
)

// PasswordService provides bcrypt hashing and verification. The cost is a
// struct field (not a package constant at the call sites) so tests can use
// the minimum cost without touching the logic under test.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the given bcrypt cost.
// Costs outside bcrypt's supported range fall back to DefaultCost.
func NewPasswordService(cost int) *PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &PasswordService{cost: cost}
}

// Hash hashes a plaintext password. The returned string is self-contained
// ($2a$12$<salt><hash>) and goes straight into the users table.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	// The minimum counts characters; the maximum stays in bytes because
	// 72 bytes is bcrypt's actual input limit.
	if utf8.RuneCountInString(plaintext) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	if len(plaintext) > 72 {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored digest.
//
// A mismatch is (false, nil) — not an error; wrong passwords are a normal
// outcome. The only error case is a digest this hasher could not have
// produced, reported as ErrMalformedHash. bcrypt's comparison is
// constant-time, so response timing reveals nothing about how close a
// guess was.
func (p *PasswordService) Verify(hash, plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, ErrMalformedHash
}
