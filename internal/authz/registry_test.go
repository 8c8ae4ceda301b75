package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carebridge/carebridge/internal/authz"
)

func TestRegistryIsValid(t *testing.T) {
	registry := authz.NewRegistry(testRoles()...)

	assert.True(t, registry.IsValid(authz.RoleClient))
	assert.True(t, registry.IsValid(authz.RoleAdministrator))
	assert.False(t, registry.IsValid(authz.Role("Client")), "roles are case-sensitive")
	assert.False(t, registry.IsValid(authz.Role("")))
	assert.False(t, registry.IsValid(authz.Role("superuser")))
}

func TestRegistryRolesStableOrder(t *testing.T) {
	registry := authz.NewRegistry(authz.RoleProvider, authz.RoleClient, authz.RoleClient)

	roles := registry.Roles()
	assert.Equal(t, []authz.Role{authz.RoleClient, authz.RoleProvider}, roles)

	// Returned slice is a copy.
	roles[0] = authz.Role("mutated")
	assert.Equal(t, []authz.Role{authz.RoleClient, authz.RoleProvider}, registry.Roles())
}
