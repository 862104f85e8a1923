package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type memStore struct {
	mu         sync.Mutex
	credential string
	privacy    bool
}

func (m *memStore) Credential() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.credential, nil
}

func (m *memStore) SetCredential(c string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credential = c
	return nil
}

func (m *memStore) ClearCredential() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credential = ""
	return nil
}

func (m *memStore) PrivacyMode() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.privacy, nil
}

func (m *memStore) SetPrivacyMode(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.privacy = enabled
	return nil
}

func newTestGateway(t *testing.T, baseURL string, store *memStore, timeout time.Duration) *Gateway {
	t.Helper()
	g, err := New(Options{
		BaseURL: baseURL,
		Timeout: timeout,
		Store:   store,
		Logger:  zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}
	return g
}

func TestCanonicalPath_AppendsSeparator(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL, &memStore{}, 0)

	if _, err := g.GetRaw(context.Background(), "/api/cards"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotPath != "/api/cards/" {
		t.Fatalf("expected /api/cards/, got %q", gotPath)
	}

	if _, err := g.GetRaw(context.Background(), "/api/transactions?limit=5&order=desc"); err != nil {
		t.Fatalf("get with query: %v", err)
	}
	if gotPath != "/api/transactions/" {
		t.Fatalf("expected /api/transactions/, got %q", gotPath)
	}
	if gotQuery != "limit=5&order=desc" {
		t.Fatalf("query not preserved, got %q", gotQuery)
	}
}

func TestCanonicalPath_Idempotent(t *testing.T) {
	var gotPath string
	base := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		gotPath = req.URL.Path
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})

	// Applying the rewrite twice must not stack separators.
	rt := Chain(base, CanonicalPath(), CanonicalPath())
	req := httptest.NewRequest(http.MethodGet, "http://backend/api/cards/", nil)
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if gotPath != "/api/cards/" {
		t.Fatalf("expected /api/cards/, got %q", gotPath)
	}
}

func TestBearerAuth_AttachesStoredCredential(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	store := &memStore{}
	g := newTestGateway(t, srv.URL, store, 0)

	if _, err := g.GetRaw(context.Background(), "/api/cards/"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}

	store.SetCredential("tok-123")
	if _, err := g.GetRaw(context.Background(), "/api/cards/"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected Bearer tok-123, got %q", gotAuth)
	}
}

func TestAuthFailure_FiresHookExactlyOnce(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Could not validate credentials"}`))
	}))
	defer srv.Close()

	store := &memStore{credential: "stale-token"}
	g := newTestGateway(t, srv.URL, store, 0)

	var hookCalls atomic.Int32
	g.OnAuthFailure(func() { hookCalls.Add(1) })

	// Several overlapping requests all observe a 401.
	const concurrent = 5
	var wg sync.WaitGroup
	errs := make([]error, concurrent)
	for i := 0; i < concurrent; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = g.GetRaw(context.Background(), "/api/cards/")
		}(i)
	}
	close(release)
	wg.Wait()

	if got := hookCalls.Load(); got != 1 {
		t.Fatalf("expected hook to fire exactly once, fired %d times", got)
	}
	if cred, _ := store.Credential(); cred != "" {
		t.Fatalf("expected credential cleared, got %q", cred)
	}
	for i, err := range errs {
		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.Unauthorized() {
			t.Fatalf("request %d: expected unauthorized APIError, got %v", i, err)
		}
		if apiErr.Detail != "Could not validate credentials" {
			t.Fatalf("request %d: detail not propagated, got %q", i, apiErr.Detail)
		}
	}

	// A new epoch re-arms the latch.
	g.ResetAuthLatch()
	if _, err := g.GetRaw(context.Background(), "/api/cards/"); err == nil {
		t.Fatalf("expected 401 error")
	}
	if got := hookCalls.Load(); got != 2 {
		t.Fatalf("expected hook to fire again after reset, fired %d times", got)
	}
}

func TestTimeout_DistinctFromHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL, &memStore{}, 20*time.Millisecond)

	_, err := g.GetRaw(context.Background(), "/api/cards/")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("timeout must not classify as an HTTP error")
	}
}

func TestAPIError_NonAuthStatusPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Entry not found"}`))
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL, &memStore{}, 0)

	var hookCalls atomic.Int32
	g.OnAuthFailure(func() { hookCalls.Add(1) })

	_, err := g.GetRaw(context.Background(), "/api/lending/9/")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Detail != "Entry not found" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
	if hookCalls.Load() != 0 {
		t.Fatalf("non-401 error must not trip the auth hook")
	}
}

func TestPostForm_EncodesBody(t *testing.T) {
	var gotContentType, gotUsername string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		r.ParseForm()
		gotUsername = r.PostFormValue("username")
		w.Write([]byte(`{"access_token": "tok"}`))
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL, &memStore{}, 0)

	var out struct {
		AccessToken string `json:"access_token"`
	}
	form := url.Values{"username": {"alice"}, "password": {"correct-pw"}}
	if err := g.PostForm(context.Background(), "/auth/token", form, &out); err != nil {
		t.Fatalf("post form: %v", err)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type %q", gotContentType)
	}
	if gotUsername != "alice" {
		t.Fatalf("form body not delivered, username %q", gotUsername)
	}
	if out.AccessToken != "tok" {
		t.Fatalf("response not decoded, got %+v", out)
	}
}
