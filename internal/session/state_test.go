package session

import (
	"testing"
	"time"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"customer", RoleCustomer, false},
		{"agent", RoleAgent, false},
		{"super-agent", RoleSuperAgent, false},
		{"manager", "", true},
		{"", "", true},
		{"Agent", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseRole(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStateLoginLogout(t *testing.T) {
	state := NewState()

	if state.Authenticated() {
		t.Error("New state should not be authenticated")
	}

	state.Login(RoleAgent)
	if state.Role() != RoleAgent {
		t.Errorf("Role() = %q, want %q", state.Role(), RoleAgent)
	}
	if !state.Authenticated() {
		t.Error("State should be authenticated after Login")
	}

	state.Logout()
	if state.Role() != "" {
		t.Errorf("Role() after Logout = %q, want empty", state.Role())
	}
	if state.Authenticated() {
		t.Error("State should not be authenticated after Logout")
	}
}

func TestStateWatch(t *testing.T) {
	state := NewState()
	ch := state.Watch()

	state.Login(RoleCustomer)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("Watch channel should signal after Login")
	}

	// Logging in with the same role is a no-op
	state.Login(RoleCustomer)
	select {
	case <-ch:
		t.Error("Watch channel should not signal when the role is unchanged")
	case <-time.After(50 * time.Millisecond):
	}

	state.Logout()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("Watch channel should signal after Logout")
	}

	// Logging out when already logged out is a no-op
	state.Logout()
	select {
	case <-ch:
		t.Error("Watch channel should not signal for a redundant Logout")
	case <-time.After(50 * time.Millisecond):
	}
}
