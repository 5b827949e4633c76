package models

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole accepts the roles an admin may assign.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleUser:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Profile is the application-owned record keyed by the user id. Any role
// other than "admin" is an ordinary user.
type Profile struct {
	ID    string
	Email string
	Role  Role
}

func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
