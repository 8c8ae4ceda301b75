// Package policy loads authorization policy documents: the role
// hierarchy, per-role permission grants, and baseline defaults. Documents
// are YAML, structurally validated before conversion; semantic validation
// (cycles, missing grants) happens when the authz resolver is built.
package policy

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/carebridge/carebridge/internal/authz"
)

//go:embed default_policy.yaml
var defaultDocument []byte

type document struct {
	Defaults []string            `yaml:"defaults" validate:"dive,required"`
	Roles    map[string]roleSpec `yaml:"roles" validate:"required,min=1,dive"`
}

type roleSpec struct {
	Inherits    []string `yaml:"inherits" validate:"dive,required"`
	Permissions []string `yaml:"permissions" validate:"dive,required"`
}

// Load reads and parses a policy document from path.
func Load(path string) (authz.Policy, []authz.Role, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return authz.Policy{}, nil, fmt.Errorf("policy: read %s: %w", path, err)
	}
	return Parse(data)
}

// Default parses the policy document embedded in the binary.
func Default() (authz.Policy, []authz.Role, error) {
	return Parse(defaultDocument)
}

// Parse decodes a YAML policy document into an authz.Policy plus the
// declared role set in stable order.
func Parse(data []byte) (authz.Policy, []authz.Role, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return authz.Policy{}, nil, fmt.Errorf("policy: decode: %w", err)
	}
	if err := validator.New().Struct(doc); err != nil {
		return authz.Policy{}, nil, fmt.Errorf("policy: validate: %w", err)
	}

	pol := authz.Policy{
		Hierarchy: make(map[authz.Role][]authz.Role, len(doc.Roles)),
		Grants:    make(map[authz.Role][]string, len(doc.Roles)),
		Defaults:  append([]string(nil), doc.Defaults...),
	}
	roles := make([]authz.Role, 0, len(doc.Roles))
	for name, spec := range doc.Roles {
		role := authz.Role(name)
		roles = append(roles, role)
		parents := make([]authz.Role, 0, len(spec.Inherits))
		for _, parent := range spec.Inherits {
			parents = append(parents, authz.Role(parent))
		}
		pol.Hierarchy[role] = parents
		pol.Grants[role] = append([]string(nil), spec.Permissions...)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return pol, roles, nil
}
