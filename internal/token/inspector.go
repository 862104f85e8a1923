// Package token inspects bearer credentials without contacting the network.
//
// The client holds no signing key: signature verification is the backend's
// job, and any forged token is rejected server-side with a 401. The client
// only needs the subject and expiry out of the payload, so the credential is
// parsed unverified.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cctrack/wallet-client/internal/core/domain"
)

// Claims is the decoded payload of a bearer credential.
type Claims struct {
	Subject string
	Expiry  time.Time
}

// ExpiredAt reports whether the credential is unusable at the given instant.
// An expiry exactly equal to now counts as expired.
func (c Claims) ExpiredAt(now time.Time) bool {
	return !c.Expiry.After(now)
}

// Decode parses a bearer credential into its subject and expiry. It performs
// no I/O and never panics on malformed input; every failure mode comes back
// as an error wrapping domain.ErrCredentialDecode. Expiry is extracted but
// not checked here; callers compare against their own clock.
func Decode(credential string) (Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", domain.ErrCredentialDecode, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", domain.ErrCredentialDecode)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return Claims{}, fmt.Errorf("%w: missing expiry", domain.ErrCredentialDecode)
	}

	return Claims{Subject: sub, Expiry: exp.Time}, nil
}
