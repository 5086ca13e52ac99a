// Package session keeps track of the signed-in admin identity and tells
// subscribers when it changes.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"happy-jasmine/internal/domain"
	"happy-jasmine/internal/result"

	"go.uber.org/zap"
)

// ErrAuth is the cause of every sign-in failure where the backend rejected the credentials
var ErrAuth = errors.New("authentication failed")

// Authenticator is the auth backend. service.AuthService satisfies it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*domain.Identity, error)
	Logout(ctx context.Context, refreshToken string) error
}

// Listener receives the current identity, nil when signed out
type Listener func(*domain.Identity)

// Manager holds at most one signed-in identity
type Manager struct {
	auth   Authenticator
	logger *zap.Logger
	// rejected reports whether a Login error means bad credentials
	rejected func(error) bool

	// dispatch serializes state changes with their notifications
	dispatch sync.Mutex

	mu        sync.Mutex
	current   *domain.Identity
	listeners map[int]Listener
	nextID    int
}

// Option configures a Manager
type Option func(*Manager)

// WithRejection sets the predicate that classifies Login errors as rejected credentials.
// By default every Login error counts as a rejection.
func WithRejection(rejected func(error) bool) Option {
	return func(m *Manager) {
		m.rejected = rejected
	}
}

// NewManager creates a signed-out manager
func NewManager(auth Authenticator, logger *zap.Logger, opts ...Option) *Manager {
	m := &Manager{
		auth:      auth,
		logger:    logger,
		rejected:  func(error) bool { return true },
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SignIn authenticates against the backend and makes the identity current
func (m *Manager) SignIn(ctx context.Context, email, password string) result.Result[*domain.Identity] {
	identity, err := m.auth.Login(ctx, email, password)
	if err != nil {
		m.logger.Warn("Sign in failed", zap.String("email", email), zap.Error(err))
		if m.rejected(err) {
			return result.Fail[*domain.Identity](fmt.Errorf("%w: %w", ErrAuth, err))
		}
		return result.Fail[*domain.Identity](err)
	}

	m.transition(identity)
	m.logger.Info("Signed in", zap.String("user_id", identity.UserID.String()))
	return result.Ok(identity)
}

// SignOut revokes the current session. Signing out while signed out succeeds.
// The local identity is cleared even when the backend revocation fails.
// A sign-in that completes during the revocation is kept.
func (m *Manager) SignOut(ctx context.Context) result.Result[result.Empty] {
	current := m.Current()
	if current == nil {
		return result.Ok(result.Empty{})
	}

	err := m.auth.Logout(ctx, current.RefreshToken)
	if !m.swap(current, nil) {
		m.logger.Debug("Sign out superseded by a newer sign in", zap.String("user_id", current.UserID.String()))
	}

	if err != nil {
		m.logger.Warn("Sign out revocation failed", zap.Error(err))
		return result.Fail[result.Empty](err)
	}

	m.logger.Info("Signed out", zap.String("user_id", current.UserID.String()))
	return result.Ok(result.Empty{})
}

// Current returns the signed-in identity or nil
func (m *Manager) Current() *domain.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Subscribe calls listener with the current identity now and after every
// sign-in and sign-out. Listeners run one at a time and must not call back
// into the Manager. The returned function removes the listener.
func (m *Manager) Subscribe(listener Listener) (unsubscribe func()) {
	m.dispatch.Lock()
	defer m.dispatch.Unlock()

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = listener
	current := m.current
	m.mu.Unlock()

	listener(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, id)
			m.mu.Unlock()
		})
	}
}

// transition swaps the identity and notifies listeners in subscription order
func (m *Manager) transition(identity *domain.Identity) {
	m.dispatch.Lock()
	defer m.dispatch.Unlock()
	m.notify(identity)
}

// swap replaces the identity only while old is still current
func (m *Manager) swap(old, identity *domain.Identity) bool {
	m.dispatch.Lock()
	defer m.dispatch.Unlock()

	m.mu.Lock()
	still := m.current == old
	m.mu.Unlock()
	if !still {
		return false
	}
	m.notify(identity)
	return true
}

// notify must be called with dispatch held
func (m *Manager) notify(identity *domain.Identity) {
	m.mu.Lock()
	m.current = identity
	ids := make([]int, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, m.listeners[id])
	}
	m.mu.Unlock()

	for _, listener := range listeners {
		listener(identity)
	}
}
