package authz

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/carebridge/carebridge/internal/observability"
	"github.com/carebridge/carebridge/internal/platform/httpx"
	"github.com/carebridge/carebridge/internal/shared"
)

// Middleware wires authorization checks for HTTP handlers. A false gate
// result becomes 403; a missing or invalid principal becomes 401; a policy
// configuration failure becomes 500.
type Middleware struct {
	Gate    *Gate
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// RequirePermission ensures the current principal's role grants the
// permission, directly or through inheritance.
func (m Middleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := m.currentRole(r)
			if !ok {
				m.Metrics.RecordDecision("permission", "error")
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no authenticated principal")
				return
			}
			allowed, err := m.Gate.Allows(role, permission)
			if err != nil {
				m.deny(w, r, "permission", err)
				return
			}
			if !allowed {
				m.Metrics.RecordDecision("permission", "deny")
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "missing permission "+permission)
				return
			}
			m.Metrics.RecordDecision("permission", "allow")
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyRole ensures the current principal's role is one of the
// allowed roles or inherits from one of them.
func (m Middleware) RequireAnyRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(roles) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			role, ok := m.currentRole(r)
			if !ok {
				m.Metrics.RecordDecision("role", "error")
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no authenticated principal")
				return
			}
			allowed, err := m.Gate.AllowsAnyRole(role, roles...)
			if err != nil {
				m.deny(w, r, "role", err)
				return
			}
			if !allowed {
				m.Metrics.RecordDecision("role", "deny")
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "role not permitted")
				return
			}
			m.Metrics.RecordDecision("role", "allow")
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) deny(w http.ResponseWriter, r *http.Request, kind string, err error) {
	m.Metrics.RecordDecision(kind, "error")
	if errors.Is(err, ErrInvalidRole) {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "unrecognized role")
		return
	}
	if m.Logger != nil {
		m.Logger.Error("authz check", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}

func (m Middleware) currentRole(r *http.Request) (Role, bool) {
	p := shared.PrincipalFromContext(r.Context())
	if p == nil || p.Role == "" {
		return "", false
	}
	return Role(p.Role), true
}
