package types

import "fmt"

// UserRole represents the role a caller holds. Executors act on tasks,
// overseers monitor instances.
type UserRole string

const (
	RoleExecutor UserRole = "executor"
	RoleOverseer UserRole = "overseer"
)

// IsValid checks if the user role is valid
func (r UserRole) IsValid() bool {
	switch r {
	case RoleExecutor, RoleOverseer:
		return true
	default:
		return false
	}
}

// String returns the string representation of the user role
func (r UserRole) String() string {
	return string(r)
}

// ParseUserRole parses a string into a UserRole
func ParseUserRole(s string) (UserRole, error) {
	r := UserRole(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid user role: %s", s)
	}
	return r, nil
}
