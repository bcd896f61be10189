package session

import (
	"context"
	"fmt"
	"time"

	"devicepay-cli/internal/nav"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// SessionStore is the durable session pair the guard rehydrates from
type SessionStore interface {
	// Load returns the stored credential and profile, or absence ("" and
	// nil). Only storage-layer failure is an error.
	Load() (string, *Profile, error)
	// Clear removes both halves; idempotent.
	Clear() error
}

// HomeRoute maps a role to its home screen. The mapping is total: anything
// outside the known role set lands on the login screen.
func HomeRoute(role Role) nav.Route {
	switch role {
	case RoleCustomer:
		return nav.RouteCustomerHome
	case RoleAgent:
		return nav.RouteAgentHome
	case RoleSuperAgent:
		return nav.RouteSuperAgentHome
	default:
		return nav.RouteLogin
	}
}

// Guard keeps the navigation location consistent with the stored session.
// It is both the launch-time bootstrapper and the continuously reconciling
// route guard: every run loads the stored pair, pushes the role into the
// auth state, and corrects the current route.
type Guard struct {
	store  SessionStore
	state  *State
	router *nav.Router
	logger *logrus.Logger
}

// NewGuard creates a guard over the given store, state, and router
func NewGuard(store SessionStore, state *State, router *nav.Router, logger *logrus.Logger) (*Guard, error) {
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
	return &Guard{store: store, state: state, router: router, logger: logger}, nil
}

// Reconcile runs one checking pass: rehydrate from storage, update the auth
// state, and correct the route. Storage failure is treated as an absent
// session so the guard's outcome stays total.
func (g *Guard) Reconcile() {
	token, profile, err := g.store.Load()
	if err != nil {
		g.logger.WithError(err).Warn("Failed to load stored session, treating as unauthenticated")
		token, profile = "", nil
	}

	if token != "" && profile != nil && credentialExpired(token) {
		g.logger.WithField("username", profile.Username).Info("Stored credential has expired, clearing session")
		if err := g.store.Clear(); err != nil {
			g.logger.WithError(err).Warn("Failed to clear expired session")
		}
		token, profile = "", nil
	}

	if token != "" && profile != nil && !profile.Role.Valid() {
		g.logger.WithField("role", profile.Role).Warn("Stored profile carries an unrecognized role, treating as unauthenticated")
		token, profile = "", nil
	}

	if token != "" && profile != nil {
		g.state.Login(profile.Role)
		if nav.InAuthGroup(g.router.Current()) {
			g.router.Replace(HomeRoute(profile.Role))
		}
		return
	}

	g.state.Logout()
	if !nav.InAuthGroup(g.router.Current()) {
		g.router.Replace(nav.RouteLogin)
	}
}

// Run reconciles once immediately, then again on every navigation or auth
// state change, until the context is cancelled. Replace and Login are
// no-ops when nothing changes, so the loop settles instead of spinning.
func (g *Guard) Run(ctx context.Context) {
	routeChanged := g.router.Watch()
	stateChanged := g.state.Watch()

	g.Reconcile()

	for {
		select {
		case <-ctx.Done():
			return
		case <-routeChanged:
			g.Reconcile()
		case <-stateChanged:
			g.Reconcile()
		}
	}
}

// credentialExpired reports whether the token is a JWT whose expiry has
// passed. Tokens that do not parse as JWTs are opaque to the client and
// pass through untouched; the server remains the authority on validity.
func credentialExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
