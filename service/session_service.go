package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/bazario/console/core"
	"github.com/bazario/console/ports"
)

// State is the session lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAnonymous
	StateAuthenticated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// SessionConfig tunes session behavior.
type SessionConfig struct {
	// LenientDecode restores the legacy behavior of synthesizing a
	// placeholder admin identity when a stored token cannot be decoded
	// during Init. The default is the stricter decode-failure-means-logout
	// policy.
	LenientDecode bool
}

// SessionService is the process-wide authentication state machine. There is
// one instance per running console, handed to consumers by reference.
// Transitions: uninitialized -> loading -> {authenticated | anonymous}.
type SessionService struct {
	store   ports.TokenStore
	decoder ports.IdentityDecoder
	events  ports.EventPublisher // optional
	cfg     SessionConfig

	mu    sync.RWMutex
	state State
	user  core.Identity
}

// NewSessionService creates the session service. events may be nil.
func NewSessionService(store ports.TokenStore, decoder ports.IdentityDecoder, events ports.EventPublisher, cfg SessionConfig) *SessionService {
	return &SessionService{
		store:   store,
		decoder: decoder,
		events:  events,
		cfg:     cfg,
		state:   StateUninitialized,
	}
}

// Init re-derives the session from the token store. Called once at startup;
// always ends out of the loading state.
//   - no stored token: anonymous
//   - expired token: store cleared, anonymous
//   - decodable token: authenticated
//   - undecodable token: store cleared, anonymous (placeholder identity
//     instead when LenientDecode is set)
func (s *SessionService) Init(ctx context.Context) error {
	s.setState(StateLoading, core.Identity{})

	access, err := s.store.Access(ctx)
	if err != nil {
		s.setState(StateAnonymous, core.Identity{})
		if err == core.ErrNoToken {
			return nil
		}
		return fmt.Errorf("failed to read token store: %w", err)
	}

	user, err := s.decoder.Decode(access)
	if err != nil {
		if s.cfg.LenientDecode {
			s.setState(StateAuthenticated, core.Identity{
				ID:       "temp-user",
				Role:     core.RoleAdmin,
				IsActive: true,
			})
			return nil
		}
		if err := s.store.Clear(ctx); err != nil {
			fmt.Printf("Warning: failed to clear undecodable tokens: %v\n", err)
		}
		s.setState(StateAnonymous, core.Identity{})
		return nil
	}

	if s.decoder.Expired(access) {
		if err := s.store.Clear(ctx); err != nil {
			fmt.Printf("Warning: failed to clear expired tokens: %v\n", err)
		}
		s.setState(StateAnonymous, core.Identity{})
		return nil
	}

	s.setState(StateAuthenticated, *user)
	return nil
}

// Login stores both tokens and transitions to authenticated. The store write
// completes before the state change so no authenticated request can observe
// the old token. Callable only with the result of a successful OTP
// verification.
func (s *SessionService) Login(ctx context.Context, pair core.TokenPair, user core.Identity) error {
	if err := s.store.Set(ctx, pair.AccessToken, pair.RefreshToken); err != nil {
		return fmt.Errorf("failed to store tokens: %w", err)
	}

	s.setState(StateAuthenticated, user)

	if s.events != nil {
		if err := s.events.PublishLogin(ctx, user.ID); err != nil {
			// The session is already established; event delivery is
			// best-effort.
			fmt.Printf("Warning: failed to publish login event: %v\n", err)
		}
	}
	return nil
}

// Logout clears the token store and transitions to anonymous. Idempotent.
func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.RLock()
	wasAuthenticated := s.state == StateAuthenticated
	userID := s.user.ID
	s.mu.RUnlock()

	err := s.store.Clear(ctx)
	s.setState(StateAnonymous, core.Identity{})
	if err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}

	if wasAuthenticated && s.events != nil {
		if err := s.events.PublishLogout(ctx, userID); err != nil {
			fmt.Printf("Warning: failed to publish logout event: %v\n", err)
		}
	}
	return nil
}

// CheckExpiration re-reads the access token and re-checks its exp claim.
// An expired or unreadable token performs the logout transition and returns
// false. A token with no exp claim counts as valid.
func (s *SessionService) CheckExpiration(ctx context.Context) bool {
	access, err := s.store.Access(ctx)
	if err != nil {
		return false
	}

	if s.decoder.Expired(access) {
		if err := s.Logout(ctx); err != nil {
			fmt.Printf("Warning: logout after expiry failed: %v\n", err)
		}
		return false
	}
	return true
}

// Current returns the authenticated identity, if any.
func (s *SessionService) Current() (core.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.state == StateAuthenticated
}

// State returns the current lifecycle state.
func (s *SessionService) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Loading reports whether the session has not finished initializing.
func (s *SessionService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateUninitialized || s.state == StateLoading
}

func (s *SessionService) setState(state State, user core.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.user = user
}
