package session

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"happy-jasmine/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errRejected = errors.New("invalid email or password")

type mockAuthenticator struct {
	mu        sync.Mutex
	password  string
	logoutErr error
	revoked   []string
}

func (m *mockAuthenticator) Login(ctx context.Context, email, password string) (*domain.Identity, error) {
	if password != m.password {
		return nil, errRejected
	}
	return &domain.Identity{
		UserID:       uuid.New(),
		Email:        email,
		Role:         domain.RoleAdmin,
		AccessToken:  "access-" + email,
		RefreshToken: uuid.NewString(),
	}, nil
}

func (m *mockAuthenticator) Logout(ctx context.Context, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked = append(m.revoked, refreshToken)
	return m.logoutErr
}

func newTestManager() (*Manager, *mockAuthenticator) {
	auth := &mockAuthenticator{password: "jasmine-tea"}
	return NewManager(auth, zap.NewNop(), WithRejection(func(err error) bool {
		return errors.Is(err, errRejected)
	})), auth
}

func TestManager_SignInAndOut(t *testing.T) {
	m, auth := newTestManager()
	ctx := context.Background()

	r := m.SignIn(ctx, "admin@happyjasmine.test", "jasmine-tea")
	require.True(t, r.Success())
	identity, _ := r.Data()
	assert.Equal(t, "admin@happyjasmine.test", identity.Email)
	assert.Same(t, identity, m.Current())

	out := m.SignOut(ctx)
	assert.True(t, out.Success())
	assert.Nil(t, m.Current())
	assert.Equal(t, []string{identity.RefreshToken}, auth.revoked)

	// already signed out
	again := m.SignOut(ctx)
	assert.True(t, again.Success())
	assert.Len(t, auth.revoked, 1)
}

func TestManager_SignInRejected(t *testing.T) {
	m, _ := newTestManager()

	r := m.SignIn(context.Background(), "admin@happyjasmine.test", "wrong")
	assert.False(t, r.Success())
	assert.ErrorIs(t, r.Cause(), ErrAuth)
	assert.ErrorIs(t, r.Cause(), errRejected)
	assert.Contains(t, r.Message(), "invalid email or password")
	assert.Nil(t, m.Current())
}

func TestManager_SignInTransportErrorIsNotAuthError(t *testing.T) {
	down := errors.New("connection refused")
	m := NewManager(failingAuth{err: down}, zap.NewNop(), WithRejection(func(err error) bool {
		return errors.Is(err, errRejected)
	}))

	r := m.SignIn(context.Background(), "a@b.com", "x")
	assert.False(t, r.Success())
	assert.NotErrorIs(t, r.Cause(), ErrAuth)
	assert.ErrorIs(t, r.Cause(), down)
}

type failingAuth struct{ err error }

func (f failingAuth) Login(context.Context, string, string) (*domain.Identity, error) { return nil, f.err }
func (f failingAuth) Logout(context.Context, string) error                           { return f.err }

func TestManager_SignOutClearsIdentityWhenRevocationFails(t *testing.T) {
	m, auth := newTestManager()
	ctx := context.Background()

	require.True(t, m.SignIn(ctx, "a@b.com", "jasmine-tea").Success())
	auth.logoutErr = errors.New("backend unavailable")

	r := m.SignOut(ctx)
	assert.False(t, r.Success())
	assert.Equal(t, "backend unavailable", r.Message())
	assert.Nil(t, m.Current())
}

// slowLogout blocks Logout until release is closed
type slowLogout struct {
	*mockAuthenticator
	entered chan struct{}
	release chan struct{}
}

func (s *slowLogout) Logout(ctx context.Context, refreshToken string) error {
	close(s.entered)
	<-s.release
	return s.mockAuthenticator.Logout(ctx, refreshToken)
}

func TestManager_SignInDuringSignOutIsKept(t *testing.T) {
	auth := &slowLogout{
		mockAuthenticator: &mockAuthenticator{password: "jasmine-tea"},
		entered:           make(chan struct{}),
		release:           make(chan struct{}),
	}
	m := NewManager(auth, zap.NewNop())
	ctx := context.Background()

	first := m.SignIn(ctx, "old@b.com", "jasmine-tea")
	require.True(t, first.Success())
	old, _ := first.Data()

	var mu sync.Mutex
	var last *domain.Identity
	m.Subscribe(func(id *domain.Identity) {
		mu.Lock()
		last = id
		mu.Unlock()
	})

	done := make(chan bool)
	go func() { done <- m.SignOut(ctx).Success() }()
	<-auth.entered

	second := m.SignIn(ctx, "new@b.com", "jasmine-tea")
	require.True(t, second.Success())
	fresh, _ := second.Data()

	close(auth.release)
	assert.True(t, <-done)

	assert.Same(t, fresh, m.Current())
	mu.Lock()
	assert.Same(t, fresh, last)
	mu.Unlock()
	assert.Equal(t, []string{old.RefreshToken}, auth.revoked)
}

func TestManager_SubscribeFiresImmediatelyAndOnChange(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	var seen []*domain.Identity
	unsubscribe := m.Subscribe(func(id *domain.Identity) { seen = append(seen, id) })

	require.Len(t, seen, 1)
	assert.Nil(t, seen[0])

	require.True(t, m.SignIn(ctx, "a@b.com", "jasmine-tea").Success())
	require.True(t, m.SignOut(ctx).Success())

	require.Len(t, seen, 3)
	require.NotNil(t, seen[1])
	assert.Equal(t, "a@b.com", seen[1].Email)
	assert.Nil(t, seen[2])

	unsubscribe()
	unsubscribe()
	require.True(t, m.SignIn(ctx, "a@b.com", "jasmine-tea").Success())
	assert.Len(t, seen, 3)

	late := 0
	m.Subscribe(func(id *domain.Identity) {
		late++
		assert.NotNil(t, id)
	})
	assert.Equal(t, 1, late)
}

func TestProperty_ListenersNeverOverlap(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("concurrent sign-ins and sign-outs are delivered one at a time", prop.ForAll(
		func(n int) bool {
			m, _ := newTestManager()
			ctx := context.Background()

			var active, calls atomic.Int32
			var overlapped atomic.Bool
			m.Subscribe(func(*domain.Identity) {
				if active.Add(1) > 1 {
					overlapped.Store(true)
				}
				runtime.Gosched()
				calls.Add(1)
				active.Add(-1)
			})

			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					m.SignIn(ctx, "a@b.com", "jasmine-tea")
				}()
			}
			wg.Wait()

			return !overlapped.Load() && calls.Load() == int32(n+1)
		},
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
