package authz_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/carebridge/internal/authz"
)

func newIntrospectionRouter(t *testing.T) http.Handler {
	t.Helper()
	registry := authz.NewRegistry(testRoles()...)
	resolver, err := authz.NewResolver(registry, testPolicy())
	require.NoError(t, err)
	gate := authz.NewGate(registry, resolver)
	mw := newTestMiddleware(t)
	handler := authz.NewIntrospectionHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), registry, resolver, gate, mw)

	r := chi.NewRouter()
	r.Route("/v1/authz", handler.MountRoutes)
	return r
}

func introspectionRequest(role authz.Role, method, path, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	return req.WithContext(requestAs(role).Context())
}

func TestIntrospectionRequiresPermission(t *testing.T) {
	router := newIntrospectionRouter(t)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, introspectionRequest(authz.RoleClient, http.MethodGet, "/v1/authz/roles", ""))
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = httptest.NewRecorder()
	router.ServeHTTP(res, introspectionRequest("", http.MethodGet, "/v1/authz/roles", ""))
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestListRoles(t *testing.T) {
	router := newIntrospectionRouter(t)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, adminIntrospectionRequest(t, http.MethodGet, "/v1/authz/roles", ""))
	require.Equal(t, http.StatusOK, res.Code)

	var payload struct {
		Roles []struct {
			Role     string   `json:"role"`
			Inherits []string `json:"inherits"`
		} `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &payload))
	require.Len(t, payload.Roles, 4)

	byName := make(map[string][]string, len(payload.Roles))
	for _, role := range payload.Roles {
		byName[role.Role] = role.Inherits
	}
	assert.ElementsMatch(t, []string{"case_manager", "client", "provider"}, byName["administrator"])
	assert.Empty(t, byName["client"])
}

func TestRolePermissionsEndpoint(t *testing.T) {
	router := newIntrospectionRouter(t)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, adminIntrospectionRequest(t, http.MethodGet, "/v1/authz/roles/provider/permissions", ""))
	require.Equal(t, http.StatusOK, res.Code)

	var payload struct {
		Role        string   `json:"role"`
		Permissions []string `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &payload))
	assert.Equal(t, "provider", payload.Role)
	assert.Contains(t, payload.Permissions, "manage:availability")
	assert.Contains(t, payload.Permissions, "request:services")

	res = httptest.NewRecorder()
	router.ServeHTTP(res, adminIntrospectionRequest(t, http.MethodGet, "/v1/authz/roles/ghost/permissions", ""))
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestCheckEndpoint(t *testing.T) {
	router := newIntrospectionRouter(t)

	cases := []struct {
		name    string
		body    string
		code    int
		allowed bool
	}{
		{"allowed", `{"role":"provider","permission":"manage:availability"}`, http.StatusOK, true},
		{"denied", `{"role":"client","permission":"manage:availability"}`, http.StatusOK, false},
		{"unknown permission", `{"role":"administrator","permission":"shred:records"}`, http.StatusOK, false},
		{"unknown role", `{"role":"superuser","permission":"view:own-profile"}`, http.StatusBadRequest, false},
		{"missing fields", `{"role":"client"}`, http.StatusBadRequest, false},
		{"malformed body", `{`, http.StatusBadRequest, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := httptest.NewRecorder()
			router.ServeHTTP(res, adminIntrospectionRequest(t, http.MethodPost, "/v1/authz/check", tc.body))
			require.Equal(t, tc.code, res.Code)
			if tc.code == http.StatusOK {
				var payload struct {
					Allowed bool `json:"allowed"`
				}
				require.NoError(t, json.Unmarshal(res.Body.Bytes(), &payload))
				assert.Equal(t, tc.allowed, payload.Allowed)
			}
		})
	}
}

func adminIntrospectionRequest(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	return introspectionRequest(authz.RoleAdministrator, method, path, body)
}
