package authz

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Resolver computes effective permission sets over the role hierarchy.
// The policy is copied at construction and never mutated afterward, so
// concurrent resolution needs no locking; memoized results are populated
// through singleflight so a cache race costs redundant work, never a
// wrong answer.
type Resolver struct {
	registry  *Registry
	hierarchy map[Role][]Role
	grants    map[Role]PermissionSet
	defaults  PermissionSet

	group singleflight.Group
	perms sync.Map // Role -> PermissionSet
	roles sync.Map // Role -> RoleSet
}

// NewResolver validates the policy against the registry and builds a
// Resolver. It fails with ErrConfiguration when the hierarchy references
// an undeclared role, a declared role is missing its grants entry, or the
// hierarchy contains a cycle.
func NewResolver(registry *Registry, policy Policy) (*Resolver, error) {
	r := &Resolver{
		registry:  registry,
		hierarchy: make(map[Role][]Role, len(policy.Hierarchy)),
		grants:    make(map[Role]PermissionSet, len(policy.Grants)),
		defaults:  make(PermissionSet, len(policy.Defaults)),
	}

	for role, parents := range policy.Hierarchy {
		if !registry.IsValid(role) {
			return nil, fmt.Errorf("%w: hierarchy declares unknown role %q", ErrConfiguration, role)
		}
		copied := make([]Role, len(parents))
		copy(copied, parents)
		r.hierarchy[role] = copied
	}
	for role, perms := range policy.Grants {
		if !registry.IsValid(role) {
			return nil, fmt.Errorf("%w: grants declare unknown role %q", ErrConfiguration, role)
		}
		set := make(PermissionSet, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		r.grants[role] = set
	}
	for _, p := range policy.Defaults {
		r.defaults[p] = struct{}{}
	}

	for _, role := range registry.Roles() {
		if _, ok := r.grants[role]; !ok {
			return nil, fmt.Errorf("%w: role %q has no grants entry", ErrConfiguration, role)
		}
		for _, parent := range r.hierarchy[role] {
			if !registry.IsValid(parent) {
				return nil, fmt.Errorf("%w: role %q inherits from undeclared role %q", ErrConfiguration, role, parent)
			}
		}
		if err := r.walk(role, make(RoleSet), make(RoleSet)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// EffectivePermissions returns the full permission set available to the
// role: the baseline defaults, the role's explicit grants, and the grants
// of every role it transitively inherits from. The returned set is a copy.
func (r *Resolver) EffectivePermissions(role Role) (PermissionSet, error) {
	if !r.registry.IsValid(role) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if cached, ok := r.perms.Load(role); ok {
		return cached.(PermissionSet).clone(), nil
	}
	v, err, _ := r.group.Do("perms:"+string(role), func() (any, error) {
		reached, err := r.closure(role)
		if err != nil {
			return nil, err
		}
		set := r.defaults.clone()
		for member := range reached {
			grants, ok := r.grants[member]
			if !ok {
				return nil, fmt.Errorf("%w: role %q has no grants entry", ErrConfiguration, member)
			}
			for p := range grants {
				set[p] = struct{}{}
			}
		}
		r.perms.Store(role, set)
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(PermissionSet).clone(), nil
}

// EffectiveRoles returns the transitive closure of roles the given role
// inherits from, including the role itself. The returned set is a copy.
func (r *Resolver) EffectiveRoles(role Role) (RoleSet, error) {
	if !r.registry.IsValid(role) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	reached, err := r.closure(role)
	if err != nil {
		return nil, err
	}
	return reached.clone(), nil
}

func (r *Resolver) closure(role Role) (RoleSet, error) {
	if cached, ok := r.roles.Load(role); ok {
		return cached.(RoleSet), nil
	}
	v, err, _ := r.group.Do("roles:"+string(role), func() (any, error) {
		visited := make(RoleSet)
		if err := r.walk(role, visited, make(RoleSet)); err != nil {
			return nil, err
		}
		r.roles.Store(role, visited)
		return visited, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(RoleSet), nil
}

// walk depth-first collects every role reachable from role into visited.
// onPath tracks the active inheritance chain; revisiting a role on it
// means the hierarchy is cyclic, which fails fast rather than looping.
func (r *Resolver) walk(role Role, visited, onPath RoleSet) error {
	if onPath.Has(role) {
		return fmt.Errorf("%w: hierarchy cycle through role %q", ErrConfiguration, role)
	}
	if visited.Has(role) {
		return nil
	}
	visited[role] = struct{}{}
	onPath[role] = struct{}{}
	for _, parent := range r.hierarchy[role] {
		if err := r.walk(parent, visited, onPath); err != nil {
			return err
		}
	}
	delete(onPath, role)
	return nil
}
