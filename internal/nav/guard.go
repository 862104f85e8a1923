// Package nav gates in-app navigation on session state. The guard is a pure
// function evaluated synchronously on every route change, so no frame of
// protected content can render while unauthenticated.
package nav

import "github.com/cctrack/wallet-client/internal/core/domain"

// Fixed path table: one unauthenticated entry, one signup path, and the
// protected views.
const (
	PathLogin  = "/login"
	PathSignup = "/signup"

	PathDashboard     = "/"
	PathCards         = "/cards"
	PathTransactions  = "/transactions"
	PathLending       = "/lending"
	PathSubscriptions = "/subscriptions"
	PathSalary        = "/salary"
	PathSettings      = "/settings"
)

var protected = map[string]bool{
	PathDashboard:     true,
	PathCards:         true,
	PathTransactions:  true,
	PathLending:       true,
	PathSubscriptions: true,
	PathSalary:        true,
	PathSettings:      true,
}

// Action is what the shell should do with a navigation request.
type Action string

const (
	// ActionRender permits the requested path.
	ActionRender Action = "render"
	// ActionRedirect replaces the requested path with Decision.Target.
	ActionRedirect Action = "redirect"
	// ActionHold means the session is still loading; the shell must wait for
	// Initialize to complete and re-evaluate, rendering nothing protected.
	ActionHold Action = "hold"
)

// Decision is the guard's verdict for one navigation request.
type Decision struct {
	Action Action
	Target string
}

// Guard decides whether path may render under the given session status.
// Unknown paths redirect to the unauthenticated entry.
func Guard(status domain.SessionStatus, path string) Decision {
	if status == domain.StatusLoading {
		return Decision{Action: ActionHold}
	}

	switch path {
	case PathLogin, PathSignup:
		if status == domain.StatusAuthenticated {
			return Decision{Action: ActionRedirect, Target: PathDashboard}
		}
		return Decision{Action: ActionRender, Target: path}
	}

	if !protected[path] {
		return Decision{Action: ActionRedirect, Target: PathLogin}
	}
	if status != domain.StatusAuthenticated {
		return Decision{Action: ActionRedirect, Target: PathLogin}
	}
	return Decision{Action: ActionRender, Target: path}
}
