package domain

// SessionStatus represents the client's belief about its own authentication.
type SessionStatus string

const (
	// StatusLoading is the boot state, before the stored credential has been
	// inspected. Navigation decisions must not be made while in this state.
	StatusLoading SessionStatus = "loading"

	StatusAuthenticated   SessionStatus = "authenticated"
	StatusUnauthenticated SessionStatus = "unauthenticated"
)

// Identity is the subject extracted from a decodable bearer credential.
type Identity struct {
	Subject string `json:"subject"`
}

// Session is the authentication state of the running client. It is owned
// exclusively by the session service; everything else observes copies.
type Session struct {
	Status     SessionStatus `json:"status"`
	Credential string        `json:"-"`
	Identity   *Identity     `json:"identity,omitempty"`
}

// Authenticated reports whether the session currently holds a valid identity.
func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated
}
