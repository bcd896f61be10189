// Package apitest provides an in-process fake of the DevicePay API for
// tests: the login endpoint plus the listing and mutation endpoints the
// client consumes, with fixture data that tests can adjust before issuing
// requests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// AuthHeader mirrors the header name the client attaches its token with
const AuthHeader = "x-auth-token"

// Account is a login fixture
type Account struct {
	Password string
	Token    string
	User     map[string]string // id, username, role
}

// RecordedRequest captures one request for assertions
type RecordedRequest struct {
	Method string
	Path   string
	Token  string
}

// Server is the fake API
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	accounts map[string]Account
	requests []RecordedRequest

	// Fixture data served by the GET endpoints. Override before issuing
	// requests; zero values serve empty JSON collections.
	AgentDashboard      map[string]interface{}
	SuperAgentDashboard map[string]interface{}
	Customers           []map[string]interface{}
	Agents              []map[string]interface{}
	Devices             []map[string]interface{}
	Loans               []map[string]interface{}
	Payments            []map[string]interface{}
	Commissions         map[string]interface{}
	Messages            []map[string]interface{}

	// StreamMessages are pushed to each websocket subscriber on connect
	StreamMessages []map[string]interface{}
}

// New starts a fake API server. The server is shut down automatically when
// the test finishes.
func New(t interface {
	Cleanup(func())
}) *Server {
	s := &Server{
		accounts:            make(map[string]Account),
		AgentDashboard:      map[string]interface{}{},
		SuperAgentDashboard: map[string]interface{}{},
		Commissions:         map[string]interface{}{},
	}

	r := mux.NewRouter()
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	authed := r.PathPrefix("/").Subrouter()
	authed.Use(s.recordAndAuthenticate)

	authed.HandleFunc("/agents/dashboard", s.serveFixture(&s.AgentDashboard)).Methods(http.MethodGet)
	authed.HandleFunc("/agents/customers", s.serveListFixture(&s.Customers)).Methods(http.MethodGet)
	authed.HandleFunc("/agents/devices", s.serveListFixture(&s.Devices)).Methods(http.MethodGet)
	authed.HandleFunc("/agents/available-devices", s.serveListFixture(&s.Devices)).Methods(http.MethodGet)
	authed.HandleFunc("/agents/{id}", s.handleAgentByID).Methods(http.MethodGet)

	authed.HandleFunc("/super-agents/dashboard", s.serveFixture(&s.SuperAgentDashboard)).Methods(http.MethodGet)
	authed.HandleFunc("/super-agents/my-agents", s.serveListFixture(&s.Agents)).Methods(http.MethodGet)
	authed.HandleFunc("/super-agents/devices", s.serveListFixture(&s.Devices)).Methods(http.MethodGet)
	authed.HandleFunc("/super-agents/payments", s.serveListFixture(&s.Payments)).Methods(http.MethodGet)
	authed.HandleFunc("/super-agents/me", s.serveFixture(&s.Commissions)).Methods(http.MethodGet)
	authed.HandleFunc("/super-agents/messages/stream", s.handleMessageStream).Methods(http.MethodGet)
	authed.HandleFunc("/super-agents/messages", s.serveListFixture(&s.Messages)).Methods(http.MethodGet)
	authed.HandleFunc("/super-agents/messages", s.acceptJSON).Methods(http.MethodPost)
	authed.HandleFunc("/super-agents/messages/{id}/read", s.acceptJSON).Methods(http.MethodPut)
	authed.HandleFunc("/super-agents/assign-device", s.acceptJSON).Methods(http.MethodPost)
	authed.HandleFunc("/super-agents/withdraw-commission", s.acceptJSON).Methods(http.MethodPost)

	authed.HandleFunc("/customers/{id}", s.handleCustomerByID).Methods(http.MethodGet)
	authed.HandleFunc("/users/create-customer", s.acceptJSON).Methods(http.MethodPost)
	authed.HandleFunc("/admin/create-agent", s.acceptJSON).Methods(http.MethodPost)
	authed.HandleFunc("/loans/customer/{id}", s.serveListFixture(&s.Loans)).Methods(http.MethodGet)
	authed.HandleFunc("/loans", s.acceptJSON).Methods(http.MethodPost)
	authed.HandleFunc("/payments/manual", s.acceptJSON).Methods(http.MethodPost)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Server.Close)

	return s
}

// AddAccount registers a login fixture
func (s *Server) AddAccount(username, password, token, id, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[username] = Account{
		Password: password,
		Token:    token,
		User:     map[string]string{"id": id, "username": username, "role": role},
	}
}

// Requests returns a copy of all recorded authenticated requests
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent authenticated request, if any
func (s *Server) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) validToken(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.accounts {
		if acct.Token == token {
			return true
		}
	}
	return false
}

// recordAndAuthenticate records the request and enforces the token header
func (s *Server) recordAndAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(AuthHeader)

		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Token:  token,
		})
		s.mu.Unlock()

		if token == "" || !s.validToken(token) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "No token, authorization denied"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "Invalid request"})
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[body.Username]
	s.mu.Unlock()

	if !ok || acct.Password != body.Password {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "Invalid credentials"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": acct.Token,
		"user":  acct.User,
	})
}

func (s *Server) handleCustomerByID(w http.ResponseWriter, r *http.Request) {
	s.findByID(w, mux.Vars(r)["id"], s.Customers)
}

func (s *Server) handleAgentByID(w http.ResponseWriter, r *http.Request) {
	s.findByID(w, mux.Vars(r)["id"], s.Agents)
}

func (s *Server) findByID(w http.ResponseWriter, id string, items []map[string]interface{}) {
	for _, item := range items {
		if item["id"] == id {
			writeJSON(w, http.StatusOK, item)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"msg": "Not found"})
}

// serveFixture serves an object fixture, reading it at request time so
// tests can mutate the field after server construction
func (s *Server) serveFixture(fixture *map[string]interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, *fixture)
	}
}

// serveListFixture serves a collection fixture; nil serves an empty array
func (s *Server) serveListFixture(fixture *[]map[string]interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := *fixture
		if items == nil {
			items = []map[string]interface{}{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func (s *Server) acceptJSON(w http.ResponseWriter, r *http.Request) {
	var body interface{}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "Invalid JSON"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "ok"})
}

var upgrader = websocket.Upgrader{}

// handleMessageStream upgrades to a websocket and pushes the configured
// stream fixtures, then holds the connection open until the client closes
func (s *Server) handleMessageStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.mu.Lock()
	msgs := make([]map[string]interface{}, len(s.StreamMessages))
	copy(msgs, s.StreamMessages)
	s.mu.Unlock()

	for _, msg := range msgs {
		if err := conn.WriteJSON(msg); err != nil {
			return
		}
	}

	// Block until the peer closes
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
