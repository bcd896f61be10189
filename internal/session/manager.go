package session

import (
	"context"
	"fmt"

	"devicepay-cli/internal/client"
	"devicepay-cli/internal/nav"

	"github.com/sirupsen/logrus"
)

// APIClient is the slice of the HTTP client the session manager needs
type APIClient interface {
	Login(ctx context.Context, username, password string) (*client.LoginResponse, error)
}

// ManagerStore extends the guard's view of the store with writing
type ManagerStore interface {
	SessionStore
	Save(token string, profile Profile) error
}

// Manager drives the session lifecycle: login persists the issued pair and
// routes to the role's home screen; logout reverses every bootstrap effect.
type Manager struct {
	client APIClient
	store  ManagerStore
	state  *State
	router *nav.Router
	logger *logrus.Logger
}

// NewManager creates a session manager
func NewManager(apiClient APIClient, store ManagerStore, state *State, router *nav.Router, logger *logrus.Logger) (*Manager, error) {
	if apiClient == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if state == nil {
		return nil, fmt.Errorf("auth state is required")
	}
	if router == nil {
		return nil, fmt.Errorf("router is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Manager{client: apiClient, store: store, state: state, router: router, logger: logger}, nil
}

// Login authenticates with the API, persists the session pair, and routes
// to the role's home screen. On any failure the session state is left
// exactly as it was: no token, no profile, no role.
func (m *Manager) Login(ctx context.Context, username, password string) (*Profile, error) {
	resp, err := m.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	role, err := ParseRole(resp.User.Role)
	if err != nil {
		return nil, fmt.Errorf("login response: %w", err)
	}

	profile := Profile{
		ID:       resp.User.ID,
		Username: resp.User.Username,
		Role:     role,
	}

	if err := m.store.Save(resp.Token, profile); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	m.state.Login(profile.Role)
	m.router.Replace(HomeRoute(profile.Role))

	m.logger.WithFields(logrus.Fields{
		"username": profile.Username,
		"role":     profile.Role,
	}).Info("Logged in")

	return &profile, nil
}

// Logout clears the stored session, resets the auth state, and routes to
// the login screen. Logging out with no session is a no-op; the end state
// is identical either way.
func (m *Manager) Logout() error {
	clearErr := m.store.Clear()

	// State and route are reset even when storage clearing fails, so the
	// route guard invariant holds for the rest of the process lifetime
	m.state.Logout()
	m.router.Replace(nav.RouteLogin)

	if clearErr != nil {
		return fmt.Errorf("failed to clear stored session: %w", clearErr)
	}

	m.logger.Info("Logged out")
	return nil
}
