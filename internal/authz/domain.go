// Package authz implements role-based authorization for the CareBridge
// platform: a closed role registry, permission resolution over the role
// hierarchy, and the allow/deny gate consulted by protected endpoints.
package authz

import (
	"errors"
	"sort"
)

// Role identifies a category of platform principal. The set of roles is
// closed and case-sensitive; adding one is a configuration change, not an
// API call.
type Role string

// Platform roles, lowest to highest privilege.
const (
	RoleClient        Role = "client"
	RoleProvider      Role = "provider"
	RoleCaseManager   Role = "case_manager"
	RoleAdministrator Role = "administrator"
)

var (
	// ErrInvalidRole indicates a role outside the closed role set. It is
	// never coerced to a default role.
	ErrInvalidRole = errors.New("authz: invalid role")
	// ErrConfiguration indicates a malformed policy: a hierarchy cycle, a
	// role missing its grants entry, or inheritance from an undeclared
	// role. Fatal in a correct deployment.
	ErrConfiguration = errors.New("authz: invalid policy configuration")
)

// Policy is the static authorization configuration loaded once at process
// start: the role hierarchy, per-role explicit grants, and the baseline
// permissions every authenticated principal holds.
type Policy struct {
	// Hierarchy maps each role to the roles it directly inherits from.
	Hierarchy map[Role][]Role
	// Grants maps each role to its explicitly granted permissions,
	// excluding inherited ones. Every role in Hierarchy must have an
	// entry, possibly empty.
	Grants map[Role][]string
	// Defaults are granted to every role.
	Defaults []string
}

// PermissionSet is a set of permission names.
type PermissionSet map[string]struct{}

// Has reports whether the permission is in the set.
func (s PermissionSet) Has(permission string) bool {
	_, ok := s[permission]
	return ok
}

// List returns the permissions in sorted order.
func (s PermissionSet) List() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (s PermissionSet) clone() PermissionSet {
	out := make(PermissionSet, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}

// RoleSet is a set of roles.
type RoleSet map[Role]struct{}

// Has reports whether the role is in the set.
func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

func (s RoleSet) clone() RoleSet {
	out := make(RoleSet, len(s))
	for r := range s {
		out[r] = struct{}{}
	}
	return out
}
