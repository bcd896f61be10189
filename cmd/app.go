package main

import (
	"errors"
	"fmt"
	"strings"

	"devicepay-cli/internal/client"
	"devicepay-cli/internal/config"
	"devicepay-cli/internal/logging"
	"devicepay-cli/internal/nav"
	"devicepay-cli/internal/session"
	"devicepay-cli/internal/store"

	"github.com/sirupsen/logrus"
)

// App wires the session core for one command invocation: configuration,
// storage, the auth state, the router positioned at the login screen, the
// guard, and the API client.
type App struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Tokens  store.TokenStore
	Cache   *store.Cache
	Store   *store.Store
	State   *session.State
	Router  *nav.Router
	Guard   *session.Guard
	Manager *session.Manager
	API     *client.HTTPClient
}

// newApp builds the application wiring
func newApp() (*App, error) {
	logger := logging.Initialize(logLevel)

	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.LogFile != "" {
		if err := logging.SetupFileLogging(logger, cfg.LogFile); err != nil {
			logger.WithError(err).Warn("Failed to set up file logging")
		}
	}

	tokens, err := store.NewPlatformTokenStore(cfg.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create token store: %w", err)
	}

	cache, err := store.NewCache(cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	sessionStore, err := store.New(tokens, cache)
	if err != nil {
		cache.Close()
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(cfg, tokens, logger)
	if err != nil {
		cache.Close()
		return nil, err
	}

	state := session.NewState()
	router := nav.NewRouter(nav.RouteLogin)

	guard, err := session.NewGuard(sessionStore, state, router, logger)
	if err != nil {
		cache.Close()
		return nil, err
	}

	manager, err := session.NewManager(apiClient, sessionStore, state, router, logger)
	if err != nil {
		cache.Close()
		return nil, err
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Tokens:  tokens,
		Cache:   cache,
		Store:   sessionStore,
		State:   state,
		Router:  router,
		Guard:   guard,
		Manager: manager,
		API:     apiClient,
	}, nil
}

// Close releases the app's resources
func (a *App) Close() {
	a.API.Close()
	a.Cache.Close()
}

var errNotLoggedIn = errors.New("not logged in; run 'devicepay login' first")

// requireRole bootstraps the session and verifies the logged-in role is one
// of the given roles
func requireRole(app *App, roles ...session.Role) error {
	app.Guard.Reconcile()
	if !app.State.Authenticated() {
		return errNotLoggedIn
	}
	for _, r := range roles {
		if app.Role() == r {
			return nil
		}
	}
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return fmt.Errorf("this command requires a %s account", strings.Join(names, " or "))
}

// OpenScreen bootstraps the session and navigates to the screen route. The
// guard reconciles after the navigation; if it bounced us back to the login
// screen the session cannot hold the screen.
func (a *App) OpenScreen(route nav.Route) error {
	a.Guard.Reconcile()
	a.Router.Replace(route)
	a.Guard.Reconcile()

	if a.Router.Current() != route {
		return errNotLoggedIn
	}
	return nil
}

// Role returns the bootstrapped role
func (a *App) Role() session.Role {
	return a.State.Role()
}
