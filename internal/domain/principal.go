package domain

// Principal is the caller identity resolved from a bearer token.
// IsAdmin is the snapshot embedded at issuance; it is not re-read from the store.
type Principal struct {
	UserID  UserID
	IsAdmin bool
}

// ClaimIsAdmin is the token claim carrying the administrator flag.
const ClaimIsAdmin = "is_admin"

// TokenSubject is the decoded content of a verified token.
type TokenSubject struct {
	Subject UserID
	Claims  map[string]any
}

// Principal derives the caller identity. Tokens without an is_admin claim
// (recovery tokens) yield a non-admin principal.
func (t TokenSubject) Principal() Principal {
	admin, _ := t.Claims[ClaimIsAdmin].(bool)
	return Principal{UserID: t.Subject, IsAdmin: admin}
}
