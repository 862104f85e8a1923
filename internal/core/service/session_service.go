package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cctrack/wallet-client/internal/core/domain"
	"github.com/cctrack/wallet-client/internal/core/ports"
	"github.com/cctrack/wallet-client/internal/token"
)

// SessionService owns the client's authentication state machine:
//
//	loading -> authenticated | unauthenticated   (Initialize)
//	authenticated -> unauthenticated             (logout, decode failure, expiry, 401)
//	unauthenticated -> authenticated             (successful login or signup)
//
// Decode and expiry failures are absorbed here as "no session"; only backend
// rejections surface to the caller, as *domain.AuthError.
type SessionService struct {
	store   ports.CredentialStore
	backend ports.AuthBackend
	log     zerolog.Logger

	mu      sync.Mutex
	session domain.Session
	subs    map[int]func(domain.Session)
	nextSub int

	// onAuthenticated re-arms the gateway's 401 latch when a login opens a
	// new authenticated epoch.
	onAuthenticated func()
}

var _ ports.SessionService = (*SessionService)(nil)

func NewSessionService(store ports.CredentialStore, backend ports.AuthBackend, log zerolog.Logger) *SessionService {
	return &SessionService{
		store:   store,
		backend: backend,
		log:     log,
		session: domain.Session{Status: domain.StatusLoading},
		subs:    make(map[int]func(domain.Session)),
	}
}

// OnAuthenticated registers fn to run every time the session enters the
// authenticated state.
func (s *SessionService) OnAuthenticated(fn func()) {
	s.mu.Lock()
	s.onAuthenticated = fn
	s.mu.Unlock()
}

// Initialize runs the boot-time credential check. An empty store, a
// credential that fails to decode, and an expired credential all yield the
// unauthenticated state; the latter two also clear the store. Repeat calls
// re-evaluate and land in the same state.
func (s *SessionService) Initialize() error {
	credential, err := s.store.Credential()
	if err != nil {
		s.transition(domain.Session{Status: domain.StatusUnauthenticated})
		return fmt.Errorf("read credential store: %w", err)
	}
	if credential == "" {
		s.transition(domain.Session{Status: domain.StatusUnauthenticated})
		return nil
	}

	claims, err := token.Decode(credential)
	if err != nil || claims.ExpiredAt(time.Now()) {
		// Absorbed: an undecodable or expired credential is simply no session.
		s.log.Debug().Msg("stored credential unusable, clearing")
		if clearErr := s.store.ClearCredential(); clearErr != nil {
			s.log.Error().Err(clearErr).Msg("clearing unusable credential failed")
		}
		s.transition(domain.Session{Status: domain.StatusUnauthenticated})
		return nil
	}

	s.transition(domain.Session{
		Status:     domain.StatusAuthenticated,
		Credential: credential,
		Identity:   &domain.Identity{Subject: claims.Subject},
	})
	return nil
}

// Login exchanges the credentials for a bearer token, persists it, and
// re-runs the decode step. A backend rejection surfaces as *domain.AuthError
// with no state change.
func (s *SessionService) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return domain.ErrInvalidCredentials
	}

	credential, err := s.backend.Token(ctx, username, password)
	if err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			return authErr
		}
		return fmt.Errorf("login request: %w", err)
	}

	if err := s.store.SetCredential(credential); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}

	claims, err := token.Decode(credential)
	if err != nil || claims.ExpiredAt(time.Now()) {
		// The backend handed out a token the client cannot use.
		if clearErr := s.store.ClearCredential(); clearErr != nil {
			s.log.Error().Err(clearErr).Msg("clearing unusable credential failed")
		}
		s.transition(domain.Session{Status: domain.StatusUnauthenticated})
		if err == nil {
			err = domain.ErrCredentialExpired
		}
		return fmt.Errorf("issued credential unusable: %w", err)
	}

	s.mu.Lock()
	onAuth := s.onAuthenticated
	s.mu.Unlock()
	if onAuth != nil {
		onAuth()
	}

	s.transition(domain.Session{
		Status:     domain.StatusAuthenticated,
		Credential: credential,
		Identity:   &domain.Identity{Subject: claims.Subject},
	})
	s.log.Info().Str("subject", claims.Subject).Msg("logged in")
	return nil
}

// Signup creates the account and chains an automatic login with the same
// credentials. When account creation succeeds but the follow-up login fails,
// the error wraps domain.ErrSignupLoginFailed: the account exists server-side
// and no retry is attempted.
func (s *SessionService) Signup(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return domain.ErrInvalidCredentials
	}

	if err := s.backend.Signup(ctx, username, password); err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			return authErr
		}
		return fmt.Errorf("signup request: %w", err)
	}

	if err := s.Login(ctx, username, password); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSignupLoginFailed, err)
	}
	return nil
}

// Logout clears the store and forces the unauthenticated state, whatever the
// current state is. Idempotent; also the entry point for gateway-forced
// logouts.
func (s *SessionService) Logout() {
	if err := s.store.ClearCredential(); err != nil {
		s.log.Error().Err(err).Msg("clearing credential on logout failed")
	}
	s.transition(domain.Session{Status: domain.StatusUnauthenticated})
}

// CurrentUser returns the decoded identity when authenticated.
func (s *SessionService) CurrentUser() (domain.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.Status != domain.StatusAuthenticated || s.session.Identity == nil {
		return domain.Identity{}, false
	}
	return *s.session.Identity, true
}

// Status returns the current session status.
func (s *SessionService) Status() domain.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Status
}

// Subscribe registers fn to be called with a copy of the session after every
// state change. The returned function cancels the subscription.
func (s *SessionService) Subscribe(fn func(domain.Session)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *SessionService) transition(next domain.Session) {
	s.mu.Lock()
	s.session = next
	notify := make([]func(domain.Session), 0, len(s.subs))
	for _, fn := range s.subs {
		notify = append(notify, fn)
	}
	s.mu.Unlock()

	for _, fn := range notify {
		fn(next)
	}
}
