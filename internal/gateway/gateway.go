// Package gateway is the single point through which every backend call
// passes. Its transport chain attaches the current bearer credential,
// canonicalizes resource paths, and reacts to 401 responses by clearing the
// credential store and firing the registered logout hook exactly once.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/cctrack/wallet-client/internal/core/ports"
)

// DefaultTimeout bounds every request; requests that outlive it fail with
// ErrTimeout rather than an HTTP error.
const DefaultTimeout = 15 * time.Second

// Options configures a Gateway.
type Options struct {
	// BaseURL is the backend root, e.g. "http://localhost:8000".
	BaseURL string
	// Timeout defaults to DefaultTimeout when zero.
	Timeout time.Duration
	// Store supplies the bearer credential and is cleared on 401.
	Store ports.CredentialStore
	// Transport is the base RoundTripper; http.DefaultTransport when nil.
	Transport http.RoundTripper
	Logger    zerolog.Logger
}

// Gateway is the shared HTTP client configuration for all backend calls.
type Gateway struct {
	base   *url.URL
	client *http.Client
	store  ports.CredentialStore
	log    zerolog.Logger

	// authFired latches after the first observed 401 so concurrent failures
	// cannot trigger duplicate redirects. Re-armed on successful login.
	authFired atomic.Bool

	mu            sync.Mutex
	onAuthFailure func()
}

// New builds a Gateway whose transport runs, outermost first: the 401
// observer, credential attachment, then path canonicalization.
func New(opts Options) (*Gateway, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", opts.BaseURL)
	}
	if opts.Store == nil {
		return nil, errors.New("gateway requires a credential store")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	g := &Gateway{
		base:  base,
		store: opts.Store,
		log:   opts.Logger,
	}
	g.client = &http.Client{
		Timeout: timeout,
		Transport: Chain(transport,
			g.authFailureObserver(),
			BearerAuth(opts.Store),
			CanonicalPath(),
		),
	}
	return g, nil
}

// OnAuthFailure registers the hook fired when a 401 forces a logout. The hook
// runs at most once per authenticated epoch (see ResetAuthLatch).
func (g *Gateway) OnAuthFailure(fn func()) {
	g.mu.Lock()
	g.onAuthFailure = fn
	g.mu.Unlock()
}

// ResetAuthLatch re-arms the 401 hook. Called after a successful login opens
// a new authenticated epoch.
func (g *Gateway) ResetAuthLatch() {
	g.authFired.Store(false)
}

// authFailureObserver watches responses and, on the first 401 of the current
// epoch, clears the credential store and fires the logout hook before the
// error propagates to the caller.
func (g *Gateway) authFailureObserver() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			if err == nil && resp.StatusCode == http.StatusUnauthorized {
				g.handleAuthFailure(req)
			}
			return resp, err
		})
	}
}

func (g *Gateway) handleAuthFailure(req *http.Request) {
	if !g.authFired.CompareAndSwap(false, true) {
		return
	}
	authFailuresTotal.Inc()
	g.log.Warn().Str("path", req.URL.Path).Msg("authentication failure, clearing credential")

	if err := g.store.ClearCredential(); err != nil {
		g.log.Error().Err(err).Msg("clearing credential after 401 failed")
	}

	g.mu.Lock()
	fn := g.onAuthFailure
	g.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Get fetches path and decodes the JSON response into out.
func (g *Gateway) Get(ctx context.Context, path string, out any) error {
	raw, err := g.GetRaw(ctx, path)
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

// GetRaw fetches path and returns the raw JSON body. Poll subscriptions use
// this so a whole collection can be replaced without an intermediate decode.
func (g *Gateway) GetRaw(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := g.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	return g.do(req)
}

// PostJSON sends body as JSON to path and decodes the response into out.
func (g *Gateway) PostJSON(ctx context.Context, path string, body, out any) error {
	return g.sendJSON(ctx, http.MethodPost, path, body, out)
}

// PutJSON sends body as JSON to path with PUT and decodes the response into out.
func (g *Gateway) PutJSON(ctx context.Context, path string, body, out any) error {
	return g.sendJSON(ctx, http.MethodPut, path, body, out)
}

// PostForm sends form-encoded values to path and decodes the response into
// out. The login endpoint requires this encoding.
func (g *Gateway) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := g.newRequest(ctx, http.MethodPost, path,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return err
	}
	raw, err := g.do(req)
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

// Delete issues a DELETE for path, discarding any response body.
func (g *Gateway) Delete(ctx context.Context, path string) error {
	req, err := g.newRequest(ctx, http.MethodDelete, path, nil, "")
	if err != nil {
		return err
	}
	_, err = g.do(req)
	return err
}

func (g *Gateway) sendJSON(ctx context.Context, method, path string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	req, err := g.newRequest(ctx, method, path, bytes.NewReader(encoded), "application/json")
	if err != nil {
		return err
	}
	raw, err := g.do(req)
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

// newRequest resolves path (which may carry a query string) against the base
// URL. Canonicalization happens later, inside the transport chain.
func (g *Gateway) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse request path %q: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.base.ResolveReference(rel).String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (g *Gateway) do(req *http.Request) (json.RawMessage, error) {
	requestsTotal.WithLabelValues(req.Method).Inc()

	resp, err := g.client.Do(req)
	if err != nil {
		classified := classifyTransportError(err)
		if errors.Is(classified, ErrTimeout) {
			requestErrorsTotal.WithLabelValues("timeout").Inc()
		} else {
			requestErrorsTotal.WithLabelValues("network").Inc()
		}
		return nil, classified
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		requestErrorsTotal.WithLabelValues("network").Inc()
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		requestErrorsTotal.WithLabelValues("http").Inc()
		return nil, newAPIError(resp.StatusCode, body)
	}
	return body, nil
}

func decodeInto(raw json.RawMessage, out any) error {
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
