package auth

// Package auth contains domain-level types for the session-authentication
// gate. It is pure and free of framework/adapter concerns.

// Identity is the minimal projection of an authenticated user handed to
// route handlers. It deliberately excludes email and the password hash.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Status is the state an inbound request resolves to, in order of
// evaluation. Every caller of the gate must handle each case distinctly;
// there is no catch-all nil.
type Status int

const (
	// StatusNoToken means the session carries no token. Normal for
	// anonymous visitors, not an error.
	StatusNoToken Status = iota
	// StatusTokenMalformed means verification failed for structural or
	// signature reasons. Same UX as NoToken, logged distinctly.
	StatusTokenMalformed
	// StatusTokenExpired means the token verified structurally but is past
	// its expiry. The now-useless cookie must be cleared alongside the
	// login redirect.
	StatusTokenExpired
	// StatusUnknownUser means the token verified but no matching user
	// record exists (e.g., account deleted after issuance).
	StatusUnknownUser
	// StatusAuthenticated means the token verified and the user resolved.
	StatusAuthenticated
)

// String returns the snake_case name used in logs.
func (s Status) String() string {
	switch s {
	case StatusNoToken:
		return "no_token"
	case StatusTokenMalformed:
		return "token_malformed"
	case StatusTokenExpired:
		return "token_expired"
	case StatusUnknownUser:
		return "unknown_user"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// CheckResult is the tagged outcome of a gate check. Identity is non-nil
// exactly when Status is StatusAuthenticated. ClearSession is set when the
// client cookie should be destroyed (expired token).
type CheckResult struct {
	Status       Status
	Identity     *Identity
	ClearSession bool
}

// Authenticated reports whether the check resolved to a logged-in user.
func (r CheckResult) Authenticated() bool {
	return r.Status == StatusAuthenticated && r.Identity != nil
}
