package authz

import "sort"

// Registry holds the closed set of valid roles.
type Registry struct {
	roles   map[Role]struct{}
	ordered []Role
}

// NewRegistry builds a Registry over the given roles. Duplicates collapse.
func NewRegistry(roles ...Role) *Registry {
	set := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	ordered := make([]Role, 0, len(set))
	for r := range set {
		ordered = append(ordered, r)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })
	return &Registry{roles: set, ordered: ordered}
}

// IsValid reports whether the value exactly matches a declared role.
func (r *Registry) IsValid(role Role) bool {
	_, ok := r.roles[role]
	return ok
}

// Roles returns the declared roles in stable order.
func (r *Registry) Roles() []Role {
	out := make([]Role, len(r.ordered))
	copy(out, r.ordered)
	return out
}
