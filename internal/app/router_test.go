package app_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/carebridge/internal/app"
	"github.com/carebridge/carebridge/internal/authz"
	"github.com/carebridge/carebridge/internal/observability"
	"github.com/carebridge/carebridge/internal/policy"
	"github.com/carebridge/carebridge/internal/shared"
	_ "github.com/carebridge/carebridge/testing"
)

type testServer struct {
	router http.Handler
	store  *shared.PrincipalStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := shared.NewPrincipalStore(client, time.Hour)

	pol, roles, err := policy.Default()
	require.NoError(t, err)
	registry := authz.NewRegistry(roles...)
	resolver, err := authz.NewResolver(registry, pol)
	require.NoError(t, err)
	gate := authz.NewGate(registry, resolver)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetrics()
	mw := authz.Middleware{Gate: gate, Logger: logger, Metrics: metrics}
	introspection := authz.NewIntrospectionHandler(logger, registry, resolver, gate, mw)

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        &app.Config{AppRequestTimeout: 5 * time.Second, RateLimit: 1000, RateLimitWindow: time.Minute},
		Principals:    store,
		Registry:      registry,
		Introspection: introspection,
		Metrics:       metrics,
	})
	return &testServer{router: router, store: store}
}

func (s *testServer) issueToken(t *testing.T, role string) string {
	t.Helper()
	token := uuid.NewString()
	err := s.store.Save(context.Background(), token, shared.Principal{ID: uuid.New(), Role: role})
	require.NoError(t, err)
	return token
}

func (s *testServer) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res := httptest.NewRecorder()
	s.router.ServeHTTP(res, req)
	return res
}

func TestHealthzIsPublic(t *testing.T) {
	srv := newTestServer(t)
	res := srv.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"status":"ok"}`, res.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	res := srv.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestIntrospectionRequiresToken(t *testing.T) {
	srv := newTestServer(t)
	res := srv.do(http.MethodGet, "/v1/authz/roles", "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestIntrospectionRejectsUnknownToken(t *testing.T) {
	srv := newTestServer(t)
	res := srv.do(http.MethodGet, "/v1/authz/roles", "no-such-token")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestIntrospectionAllowsAdministrator(t *testing.T) {
	srv := newTestServer(t)
	token := srv.issueToken(t, "administrator")

	res := srv.do(http.MethodGet, "/v1/authz/roles", token)
	assert.Equal(t, http.StatusOK, res.Code)

	res = srv.do(http.MethodGet, "/v1/authz/roles/client/permissions", token)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestIntrospectionForbidsClient(t *testing.T) {
	srv := newTestServer(t)
	token := srv.issueToken(t, "client")

	res := srv.do(http.MethodGet, "/v1/authz/roles", token)
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestStoredPrincipalWithUnregisteredRole(t *testing.T) {
	srv := newTestServer(t)
	token := srv.issueToken(t, "superuser")

	res := srv.do(http.MethodGet, "/v1/authz/roles", token)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}
