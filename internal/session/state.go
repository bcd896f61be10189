package session

import "sync"

// State is the in-memory authentication state for the running process. The
// role held here is a cache of the stored profile's role, not the source of
// truth; it is rehydrated from the session store at every bootstrap.
//
// State is constructed explicitly by the application root and passed to the
// components that need it. There is no package-level instance: components
// handed a nil *State will panic on first use, which is the intended
// fail-fast signal for wiring mistakes, since a silently defaulted "logged
// out" state is indistinguishable from a real one.
type State struct {
	mu    sync.RWMutex
	role  Role
	watch []chan struct{}
}

// NewState creates a logged-out state
func NewState() *State {
	return &State{}
}

// Login records that a session with the given role began in this process.
// It has no effect on durable storage.
func (s *State) Login(role Role) {
	s.mu.Lock()
	changed := s.role != role
	s.role = role
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

// Logout resets the in-memory role. Durable storage is cleared separately
// by the session manager.
func (s *State) Logout() {
	s.mu.Lock()
	changed := s.role != ""
	s.role = ""
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

// Role returns the current role, or the empty Role when logged out
func (s *State) Role() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// Authenticated reports whether a role is set
func (s *State) Authenticated() bool {
	return s.Role() != ""
}

// Watch returns a channel signalled after every state change. Signals are
// coalesced; consumers re-read Role.
func (s *State) Watch() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.watch = append(s.watch, ch)
	s.mu.Unlock()
	return ch
}

func (s *State) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.watch {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
