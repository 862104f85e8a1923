package ports

import (
	"context"

	"github.com/cctrack/wallet-client/internal/core/domain"
)

// SessionService owns the authenticated/unauthenticated/loading state machine.
type SessionService interface {
	// Initialize runs the boot-time credential check. It must complete before
	// the first navigation decision. Safe to call more than once; repeat calls
	// re-evaluate the stored credential and reach the same state.
	Initialize() error

	Login(ctx context.Context, username, password string) error
	Signup(ctx context.Context, username, password string) error

	// Logout clears the credential store and forces the unauthenticated
	// state. Idempotent.
	Logout()

	// CurrentUser returns the decoded identity when authenticated.
	CurrentUser() (domain.Identity, bool)
	Status() domain.SessionStatus

	// Subscribe registers fn to be called with a copy of the session after
	// every state change. The returned function cancels the subscription.
	Subscribe(fn func(domain.Session)) (cancel func())
}
