package session

import "fmt"

// Role identifies which screen set a session is routed to
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleAgent      Role = "agent"
	RoleSuperAgent Role = "super-agent"
)

// Valid reports whether the role is one of the closed set the platform issues
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAgent, RoleSuperAgent:
		return true
	}
	return false
}

// ParseRole converts a raw role string from the API or cache into a Role
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unrecognized role %q", s)
	}
	return r, nil
}

// Profile is the cached user identity written alongside the credential at
// login and read back at bootstrap. It is never refreshed except by a new
// login.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
