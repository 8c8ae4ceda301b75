package authz

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carebridge/carebridge/internal/platform/httpx"
	"github.com/carebridge/carebridge/internal/shared"
)

// IntrospectionHandler exposes read-only authorization introspection:
// declared roles, effective permission sets, and a decision endpoint.
type IntrospectionHandler struct {
	logger     *slog.Logger
	registry   *Registry
	resolver   *Resolver
	gate       *Gate
	middleware Middleware
	validate   *validator.Validate
}

// NewIntrospectionHandler builds an IntrospectionHandler instance.
func NewIntrospectionHandler(logger *slog.Logger, registry *Registry, resolver *Resolver, gate *Gate, middleware Middleware) *IntrospectionHandler {
	return &IntrospectionHandler{
		logger:     logger,
		registry:   registry,
		resolver:   resolver,
		gate:       gate,
		middleware: middleware,
		validate:   validator.New(),
	}
}

// MountRoutes registers introspection routes.
func (h *IntrospectionHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.middleware.RequirePermission(shared.PermViewPermissions))
		r.Get("/roles", h.listRoles)
		r.Get("/roles/{role}/permissions", h.rolePermissions)
		r.Post("/check", h.check)
	})
}

type roleResponse struct {
	Role     Role   `json:"role"`
	Inherits []Role `json:"inherits"`
}

func (h *IntrospectionHandler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles := h.registry.Roles()
	out := make([]roleResponse, 0, len(roles))
	for _, role := range roles {
		reached, err := h.resolver.EffectiveRoles(role)
		if err != nil {
			h.logger.Error("list roles", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		inherits := make([]Role, 0, len(reached))
		for _, candidate := range roles {
			if candidate != role && reached.Has(candidate) {
				inherits = append(inherits, candidate)
			}
		}
		out = append(out, roleResponse{Role: role, Inherits: inherits})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"roles": out})
}

func (h *IntrospectionHandler) rolePermissions(w http.ResponseWriter, r *http.Request) {
	role := Role(chi.URLParam(r, "role"))
	perms, err := h.resolver.EffectivePermissions(role)
	if err != nil {
		if errors.Is(err, ErrInvalidRole) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown role")
			return
		}
		h.logger.Error("role permissions", slog.String("role", string(role)), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"role":        role,
		"permissions": perms.List(),
	})
}

type checkRequest struct {
	Role       string `json:"role" validate:"required"`
	Permission string `json:"permission" validate:"required"`
}

type checkResponse struct {
	Allowed bool `json:"allowed"`
}

func (h *IntrospectionHandler) check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	allowed, err := h.gate.Allows(Role(req.Role), req.Permission)
	if err != nil {
		if errors.Is(err, ErrInvalidRole) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown role")
			return
		}
		h.logger.Error("authz check", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, checkResponse{Allowed: allowed})
}
