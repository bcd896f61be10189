package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"devicepay-cli/internal/apitest"
	"devicepay-cli/internal/config"
	"devicepay-cli/internal/logging"

	"github.com/sirupsen/logrus"
)

// staticCreds is a fixed credential source for tests
type staticCreds struct {
	token string
	err   error
}

func (s *staticCreds) LoadToken() (string, error) {
	return s.token, s.err
}

func testConfig(serverURL string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.ServerURL = serverURL
	cfg.RequestTimeout = 5
	return cfg
}

func newTestClient(t *testing.T, server *apitest.Server, creds CredentialSource) *HTTPClient {
	t.Helper()

	c, err := NewHTTPClient(testConfig(server.URL), creds, logging.Initialize("error"))
	if err != nil {
		t.Fatalf("NewHTTPClient() returned error: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestNewHTTPClient(t *testing.T) {
	logger := logging.Initialize("error")
	creds := &staticCreds{token: "tok"}
	cfg := testConfig("https://api.example.com")

	tests := []struct {
		name    string
		cfg     *config.Config
		creds   CredentialSource
		logger  *logrus.Logger
		wantErr bool
	}{
		{"valid configuration", cfg, creds, logger, false},
		{"nil config", nil, creds, logger, true},
		{"nil credential source", cfg, nil, logger, true},
		{"nil logger", cfg, creds, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewHTTPClient(tt.cfg, tt.creds, tt.logger)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewHTTPClient() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && c == nil {
				t.Error("NewHTTPClient() returned nil client")
			}
		})
	}
}

func TestDoAttachesStoredToken(t *testing.T) {
	server := apitest.New(t)
	server.AddAccount("amy", "secret", "tok123", "1", "agent")

	c := newTestClient(t, server, &staticCreds{token: "tok123"})

	if _, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/agents/dashboard"}); err != nil {
		t.Fatalf("Do() returned error: %v", err)
	}

	req, ok := server.LastRequest()
	if !ok {
		t.Fatal("Server recorded no request")
	}
	if req.Token != "tok123" {
		t.Errorf("Request token = %q, want %q", req.Token, "tok123")
	}
}

func TestDoWithoutTokenSendsUnauthenticated(t *testing.T) {
	server := apitest.New(t)
	server.AddAccount("amy", "secret", "tok123", "1", "agent")

	c := newTestClient(t, server, &staticCreds{token: ""})

	_, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/agents/dashboard"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Do() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("APIError status = %d, want %d", apiErr.StatusCode, http.StatusUnauthorized)
	}
	if apiErr.Message == "" {
		t.Error("APIError should carry the server's msg field")
	}

	req, ok := server.LastRequest()
	if !ok {
		t.Fatal("Server recorded no request")
	}
	if req.Token != "" {
		t.Errorf("Request token = %q, want no token", req.Token)
	}
}

func TestDoTreatsCredentialReadFailureAsUnauthenticated(t *testing.T) {
	server := apitest.New(t)
	server.AddAccount("amy", "secret", "tok123", "1", "agent")

	c := newTestClient(t, server, &staticCreds{err: errors.New("storage failure")})

	// The request still goes out, just without the header
	_, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/agents/dashboard"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Do() error = %v, want *APIError from unauthenticated request", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("APIError status = %d, want %d", apiErr.StatusCode, http.StatusUnauthorized)
	}
}

func TestDoNilRequest(t *testing.T) {
	server := apitest.New(t)
	c := newTestClient(t, server, &staticCreds{})

	if _, err := c.Do(context.Background(), nil); err == nil {
		t.Error("Do() with nil request should return error")
	}
}

func TestAPIErrorMessage(t *testing.T) {
	withMsg := &APIError{StatusCode: 400, Message: "Invalid credentials"}
	if withMsg.Error() != "API error 400: Invalid credentials" {
		t.Errorf("Error() = %q", withMsg.Error())
	}

	withoutMsg := &APIError{StatusCode: 500}
	if withoutMsg.Error() != "API error 500" {
		t.Errorf("Error() = %q", withoutMsg.Error())
	}
}
