package auth

// Decision is the outcome of an ownership check. It is a three-valued
// enum rather than a bool so call sites stay self-documenting and the two
// denial causes keep their distinct HTTP mappings (401 vs 403).
type Decision int

const (
	// Allowed: the acting identity is the resource's author.
	Allowed Decision = iota
	// DeniedAnonymous: no authenticated identity. Maps to 401.
	DeniedAnonymous
	// DeniedNotOwner: authenticated, but not the author. Maps to 403.
	DeniedNotOwner
)

// String implements fmt.Stringer for log output.
func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case DeniedAnonymous:
		return "denied:anonymous"
	case DeniedNotOwner:
		return "denied:not-owner"
	default:
		return "denied:unknown"
	}
}

// AuthorizeMutation decides whether identity may mutate a resource authored
// by authorID. The model is flat ownership: only an exact author match is
// Allowed — no roles, no admin override. Must run before every post or
// comment update/delete; reads never call it.
func AuthorizeMutation(identity Identity, authorID int64) Decision {
	userID, ok := identity.UserID()
	if !ok {
		return DeniedAnonymous
	}
	if userID != authorID {
		return DeniedNotOwner
	}
	return Allowed
}
