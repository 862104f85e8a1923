package ports

// CredentialStore is the durable slot for the bearer credential and the
// privacy-mode flag. It survives process restarts and performs no validation;
// callers react to what they read. Values are replaced whole, never patched.
type CredentialStore interface {
	// Credential returns the stored bearer credential, or "" when logged out.
	Credential() (string, error)
	SetCredential(credential string) error
	ClearCredential() error

	// PrivacyMode reports whether monetary values should render masked.
	// Defaults to false and survives logout.
	PrivacyMode() (bool, error)
	SetPrivacyMode(enabled bool) error
}
