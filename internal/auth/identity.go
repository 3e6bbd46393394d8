package auth

// Identity is the resolved acting principal for a request: either
// anonymous or an authenticated user id. The zero value is anonymous, so
// a request that never passed through auth middleware resolves safely.
type Identity struct {
	userID        int64
	authenticated bool
}

// Anonymous is the identity of a request with no valid credential.
var Anonymous = Identity{}

// Authenticated builds the identity of a logged-in user.
func Authenticated(userID int64) Identity {
	return Identity{userID: userID, authenticated: true}
}

// IsAuthenticated reports whether the identity carries a user id.
func (i Identity) IsAuthenticated() bool {
	return i.authenticated
}

// UserID returns the acting user's id and whether one is present.
func (i Identity) UserID() (int64, bool) {
	return i.userID, i.authenticated
}
