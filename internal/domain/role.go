package domain

import (
	"errors"
	"slices"
	"strings"
)

// Role is the closed set of account roles known to the storefront.
type Role string

const (
	RoleClient     Role = "client"
	RoleController Role = "controller"
	RoleAdmin      Role = "admin"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole maps a backend role string onto the enum. Unknown values fall back to
// RoleClient together with ErrUnknownRole so callers never grant more than client access.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleController:
		return RoleController, nil
	case RoleClient:
		return RoleClient, nil
	}
	return RoleClient, ErrUnknownRole
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, _ := ParseRole(string(b))
	*r = parsed
	return nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleController, RoleAdmin:
		return true
	}
	return false
}

// Staff reports whether the role may drive quote pricing and order transitions.
func (r Role) Staff() bool {
	switch r {
	case RoleAdmin, RoleController:
		return true
	case RoleClient:
		return false
	}
	return false
}

// DashboardPath is the landing page for the role.
func (r Role) DashboardPath() string {
	switch r {
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleController:
		return "/controller/dashboard"
	case RoleClient:
		return "/client/dashboard"
	}
	return "/client/dashboard"
}

// In reports whether r is one of roles.
func (r Role) In(roles ...Role) bool {
	return slices.Contains(roles, r)
}
