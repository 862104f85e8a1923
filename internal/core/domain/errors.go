package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCredentialDecode marks a stored credential that could not be parsed.
	// Handled internally as "no session"; never shown to the user.
	ErrCredentialDecode = errors.New("credential decode failed")

	// ErrCredentialExpired marks a structurally valid credential whose expiry
	// is not in the future. Handled identically to ErrCredentialDecode.
	ErrCredentialExpired = errors.New("credential expired")

	// ErrInvalidCredentials is returned when login or signup input is unusable
	// before any network round trip is attempted.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSignupLoginFailed marks the signup auto-login chain breaking: the
	// account was created server-side but the follow-up login failed. Not
	// retried automatically.
	ErrSignupLoginFailed = errors.New("signup succeeded but automatic login failed")
)

// AuthError carries a backend rejection of login or signup credentials.
// The detail is surfaced verbatim to the initiating form; no session state
// transition accompanies it.
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string {
	if e.Detail == "" {
		return "authentication failed"
	}
	return fmt.Sprintf("authentication failed: %s", e.Detail)
}
