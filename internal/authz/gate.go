package authz

import "fmt"

// Gate answers allow/deny questions for a principal's role. Decisions are
// pure functions over the immutable policy; denial is a false result, not
// an error.
type Gate struct {
	registry *Registry
	resolver *Resolver
}

// NewGate constructs a Gate over the registry and resolver.
func NewGate(registry *Registry, resolver *Resolver) *Gate {
	return &Gate{registry: registry, resolver: resolver}
}

// Allows reports whether the role's effective permission set contains the
// required permission. An unknown permission is simply never granted; an
// unknown role fails with ErrInvalidRole.
func (g *Gate) Allows(role Role, permission string) (bool, error) {
	perms, err := g.resolver.EffectivePermissions(role)
	if err != nil {
		return false, err
	}
	return perms.Has(permission), nil
}

// AllowsAnyRole reports whether the role is one of the allowed roles, or
// transitively inherits from one of them. A higher-privileged role is
// authorized wherever a lower-privileged role it inherits is listed.
func (g *Gate) AllowsAnyRole(role Role, allowed ...Role) (bool, error) {
	if !g.registry.IsValid(role) {
		return false, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	reached, err := g.resolver.EffectiveRoles(role)
	if err != nil {
		return false, err
	}
	for _, candidate := range allowed {
		if reached.Has(candidate) {
			return true, nil
		}
	}
	return false, nil
}
