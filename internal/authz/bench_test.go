package authz_test

import (
	"testing"

	"github.com/carebridge/carebridge/internal/authz"
)

func BenchmarkEffectivePermissions(b *testing.B) {
	registry := authz.NewRegistry(testRoles()...)
	resolver, err := authz.NewResolver(registry, testPolicy())
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := resolver.EffectivePermissions(authz.RoleAdministrator); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGateAllowsParallel(b *testing.B) {
	registry := authz.NewRegistry(testRoles()...)
	resolver, err := authz.NewResolver(registry, testPolicy())
	if err != nil {
		b.Fatal(err)
	}
	gate := authz.NewGate(registry, resolver)

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			allowed, err := gate.Allows(authz.RoleCaseManager, "manage:service-plans")
			if err != nil || !allowed {
				b.Fail()
			}
		}
	})
}
