package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/avantolog/avanto/pkg/client"
	"github.com/avantolog/avanto/pkg/domain"
)

// State is the authentication state derived from the store and the auth
// operations. It starts Unknown and settles to Authenticated or Anonymous.
type State int

const (
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// API is the slice of the HTTP client the manager orchestrates.
type API interface {
	Login(ctx context.Context, creds client.Credentials) (*client.AuthResponse, error)
	Register(ctx context.Context, req client.RegisterRequest) (*client.AuthResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*domain.User, error)
}

// Manager owns the in-memory session state and orchestrates auth calls with
// token-store updates. It is handed explicitly to every consumer; there is
// no package-level singleton.
type Manager struct {
	api   API
	store *Store

	mu      sync.Mutex
	state   State
	user    *domain.User
	lastErr string

	expired chan struct{}
}

// NewManager creates a manager in the Unknown state. Call Restore to settle
// the initial state from the store.
func NewManager(api API, store *Store) *Manager {
	return &Manager{
		api:     api,
		store:   store,
		state:   StateUnknown,
		expired: make(chan struct{}, 1),
	}
}

// Restore derives the initial state from the token store alone. It trusts
// local storage and performs no network round trip; both token and profile
// present means Authenticated.
func (m *Manager) Restore() State {
	token, user := m.store.Load()

	m.mu.Lock()
	defer m.mu.Unlock()
	if token != "" && user != nil {
		m.state = StateAuthenticated
		m.user = user
	} else {
		m.state = StateAnonymous
		m.user = nil
	}
	return m.state
}

// Login exchanges credentials for a session. On success the token and
// profile are persisted and the state becomes Authenticated; on failure the
// state stays Anonymous with a display message recorded. The returned error
// keeps its kind (client.ErrInvalidCredentials vs client.ErrNetwork) so the
// caller can show different guidance.
func (m *Manager) Login(ctx context.Context, email, password string) (*domain.User, error) {
	res, err := m.api.Login(ctx, client.Credentials{Email: email, Password: password})
	if err != nil {
		m.fail(client.Message(err))
		return nil, err
	}
	return m.establish(res)
}

// Register creates an account and starts a session; symmetric to Login.
func (m *Manager) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	res, err := m.api.Register(ctx, client.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		m.fail(client.Message(err))
		return nil, err
	}
	return m.establish(res)
}

// Logout notifies the server best-effort and always clears the local
// session, even when the server call fails: a network logout must never
// leave stale credentials behind. The server error, if any, is returned for
// logging only.
func (m *Manager) Logout(ctx context.Context) error {
	serverErr := m.api.Logout(ctx)

	m.store.Clear() //nolint:errcheck // local state is reset regardless
	m.mu.Lock()
	m.state = StateAnonymous
	m.user = nil
	m.lastErr = ""
	m.mu.Unlock()

	return serverErr
}

// Revalidate refreshes the cached profile via GET /me. A 401 has already
// cleared the store and flipped the state through HandleAuthError by the
// time the error returns; other failures leave the session untouched so a
// flaky network does not log the user out.
func (m *Manager) Revalidate(ctx context.Context) error {
	user, err := m.api.Me(ctx)
	if err != nil {
		return err
	}

	token, _ := m.store.Load()
	if token != "" {
		if err := m.store.Save(token, user); err != nil {
			return fmt.Errorf("refresh profile: %w", err)
		}
	}
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	return nil
}

// HandleAuthError is registered as the API client's auth-error callback.
// The client has already cleared the token store; this flips the in-memory
// state and signals Expired at most once per transition.
func (m *Manager) HandleAuthError() {
	m.store.Clear() //nolint:errcheck // idempotent

	m.mu.Lock()
	changed := m.state != StateAnonymous
	m.state = StateAnonymous
	m.user = nil
	m.mu.Unlock()

	if changed {
		select {
		case m.expired <- struct{}{}:
		default:
		}
	}
}

// Expired delivers one signal per Authenticated->Anonymous transition caused
// by an authorization failure. The TUI watches it to return to the login
// view.
func (m *Manager) Expired() <-chan struct{} {
	return m.expired
}

// State returns the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// User returns the current user profile, or nil when not authenticated.
func (m *Manager) User() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// LastError returns the display message recorded by the most recent failed
// auth operation.
func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

func (m *Manager) fail(msg string) {
	m.mu.Lock()
	m.state = StateAnonymous
	m.lastErr = msg
	m.mu.Unlock()
}

func (m *Manager) establish(res *client.AuthResponse) (*domain.User, error) {
	user := res.User
	if err := m.store.Save(res.Token, &user); err != nil {
		m.fail("could not persist session")
		return nil, err
	}
	m.mu.Lock()
	m.state = StateAuthenticated
	m.user = &user
	m.lastErr = ""
	m.mu.Unlock()
	return &user, nil
}
