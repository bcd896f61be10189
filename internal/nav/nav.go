package nav

import (
	"strings"
	"sync"
)

// Route identifies a screen by its absolute path
type Route string

// Route constants mirror the app's screen tree. Everything under /auth is
// reachable without a session; everything else requires one.
const (
	RouteLogin Route = "/auth/login"

	RouteCustomerHome    Route = "/customer/home"
	RouteCustomerDevices Route = "/customer/devices"

	RouteAgentHome        Route = "/agent/home"
	RouteAgentCustomers   Route = "/agent/customers"
	RouteAgentDevices     Route = "/agent/devices"
	RouteAgentPayments    Route = "/agent/payments"
	RouteAgentCommissions Route = "/agent/commissions"

	RouteSuperAgentHome        Route = "/super-agent/home"
	RouteSuperAgentAgents      Route = "/super-agent/agents"
	RouteSuperAgentCustomers   Route = "/super-agent/customers"
	RouteSuperAgentDevices     Route = "/super-agent/devices"
	RouteSuperAgentPayments    Route = "/super-agent/payments"
	RouteSuperAgentCommissions Route = "/super-agent/commissions"
	RouteSuperAgentMessages    Route = "/super-agent/messages"
	RouteSuperAgentProfile     Route = "/super-agent/profile"
)

// InAuthGroup reports whether the route belongs to the unauthenticated
// entry group
func InAuthGroup(r Route) bool {
	return strings.HasPrefix(string(r), "/auth/")
}

// Router tracks the current navigation location and notifies watchers on
// every change. All mutation goes through the mutex; watchers receive a
// non-blocking signal rather than the route itself so a slow consumer can
// never stall navigation.
type Router struct {
	mu      sync.RWMutex
	current Route
	history []Route
	watch   []chan struct{}
}

// NewRouter creates a router positioned at the given initial route
func NewRouter(initial Route) *Router {
	return &Router{current: initial}
}

// Current returns the current route
func (r *Router) Current() Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Replace navigates to the route without leaving a history entry, so the
// abandoned location cannot be returned to with Back
func (r *Router) Replace(route Route) {
	r.mu.Lock()
	changed := r.current != route
	r.current = route
	r.mu.Unlock()

	if changed {
		r.notify()
	}
}

// Push navigates to the route, recording the current location in history
func (r *Router) Push(route Route) {
	r.mu.Lock()
	changed := r.current != route
	if changed {
		r.history = append(r.history, r.current)
		r.current = route
	}
	r.mu.Unlock()

	if changed {
		r.notify()
	}
}

// Back returns to the most recent history entry. Calling Back with no
// history is a no-op and reports false.
func (r *Router) Back() bool {
	r.mu.Lock()
	if len(r.history) == 0 {
		r.mu.Unlock()
		return false
	}
	r.current = r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]
	r.mu.Unlock()

	r.notify()
	return true
}

// Watch returns a channel that receives a signal after every navigation
// change. The channel has a buffer of one; coalesced signals are fine since
// watchers re-read Current.
func (r *Router) Watch() <-chan struct{} {
	ch := make(chan struct{}, 1)
	r.mu.Lock()
	r.watch = append(r.watch, ch)
	r.mu.Unlock()
	return ch
}

func (r *Router) notify() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ch := range r.watch {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
