package service

import "errors"

// Error taxonomy shared by every backend implementation. Messages are
// user-facing and surfaced verbatim.
var (
	// ErrNotAuthenticated means no bearer token was available; no
	// network call was made.
	ErrNotAuthenticated = errors.New("Not authenticated")

	// ErrSessionExpired means the server answered 401. The forced
	// redirect to the login location has already happened.
	ErrSessionExpired = errors.New("Authentication expired")
)
