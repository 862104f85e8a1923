package ports

import "context"

// AuthBackend is the slice of the backend API the session service needs.
type AuthBackend interface {
	// Token exchanges a username and password for a bearer credential
	// (form-encoded POST to /auth/token).
	Token(ctx context.Context, username, password string) (string, error)

	// Signup creates an account. It does not log in; the session service
	// chains a Token call after a successful signup.
	Signup(ctx context.Context, username, password string) error
}
