package gateway

import (
	"net/http"
	"strings"

	"github.com/cctrack/wallet-client/internal/core/ports"
)

// Middleware wraps a RoundTripper with one request- or response-transform
// step. The gateway composes an explicit, ordered chain of these so each
// behavior stays independently testable.
type Middleware func(next http.RoundTripper) http.RoundTripper

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Chain wraps rt with mws so that mws[0] is the outermost step.
func Chain(rt http.RoundTripper, mws ...Middleware) http.RoundTripper {
	for i := len(mws) - 1; i >= 0; i-- {
		rt = mws[i](rt)
	}
	return rt
}

// BearerAuth attaches the stored credential as a bearer Authorization header.
// When the store is empty (or unreadable) the request goes out
// unauthenticated and the backend decides.
func BearerAuth(store ports.CredentialStore) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if credential, err := store.Credential(); err == nil && credential != "" {
				req = req.Clone(req.Context())
				req.Header.Set("Authorization", "Bearer "+credential)
			}
			return next.RoundTrip(req)
		})
	}
}

// CanonicalPath rewrites the request path to end in exactly one "/", which
// the backend's routing requires. Host, scheme, and query are untouched, and
// the rewrite is idempotent.
func CanonicalPath() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if !strings.HasSuffix(req.URL.Path, "/") {
				req = req.Clone(req.Context())
				req.URL.Path += "/"
				if req.URL.RawPath != "" {
					req.URL.RawPath += "/"
				}
			}
			return next.RoundTrip(req)
		})
	}
}
