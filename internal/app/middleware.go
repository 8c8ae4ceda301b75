package app

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/carebridge/carebridge/internal/authz"
	"github.com/carebridge/carebridge/internal/observability"
	"github.com/carebridge/carebridge/internal/platform/httpx"
	"github.com/carebridge/carebridge/internal/shared"
)

// MiddlewareConfig aggregates dependencies shared by the middleware stack.
type MiddlewareConfig struct {
	Logger     *slog.Logger
	Config     *Config
	Principals *shared.PrincipalStore
	Registry   *authz.Registry
	Metrics    *observability.Metrics
}

// MiddlewareStack installs the CareBridge middleware chain.
func MiddlewareStack(cfg MiddlewareConfig) []func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		FeaturePolicy:         "none",
		ContentSecurityPolicy: "default-src 'self'",
		SSLRedirect:           cfg.Config != nil && cfg.Config.IsProduction(),
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	})

	// Resolves the bearer token to a principal when one is presented.
	// Routes decide through authz middleware whether a principal is
	// required; an unknown token or an out-of-registry role is rejected
	// here, at the trust boundary.
	authnMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			principal, err := cfg.Principals.Lookup(r.Context(), token)
			if err != nil {
				if !errors.Is(err, shared.ErrTokenNotFound) {
					cfg.Logger.Error("principal lookup", slog.Any("error", err))
					httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
					return
				}
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "unknown token")
				return
			}
			if !cfg.Registry.IsValid(authz.Role(principal.Role)) {
				cfg.Logger.Warn("principal with unregistered role",
					slog.String("principal", principal.ID.String()),
					slog.String("role", principal.Role))
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "unrecognized role")
				return
			}
			ctx := shared.ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	timeout := 30 * time.Second
	if cfg.Config != nil && cfg.Config.AppRequestTimeout > 0 {
		timeout = cfg.Config.AppRequestTimeout
	}
	limit, window := 120, time.Minute
	if cfg.Config != nil && cfg.Config.RateLimit > 0 {
		limit = cfg.Config.RateLimit
	}
	if cfg.Config != nil && cfg.Config.RateLimitWindow > 0 {
		window = cfg.Config.RateLimitWindow
	}

	middlewares := []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Timeout(timeout),
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := secureMiddleware.Process(w, r); err != nil {
					cfg.Logger.Warn("secure headers blocked request", slog.Any("error", err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				next.ServeHTTP(w, r)
			})
		},
		middleware.Compress(5),
		httprate.Limit(limit, window, httprate.WithKeyFuncs(httprate.KeyByIP)),
		authnMiddleware,
	}
	if cfg.Metrics != nil {
		middlewares = append(middlewares, func(next http.Handler) http.Handler {
			return cfg.Metrics.Middleware(next)
		})
	}
	return middlewares
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
