package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/schedulo/schedulo/application/port/outbound"
	"github.com/schedulo/schedulo/domain/entity"
	apperr "github.com/schedulo/schedulo/domain/error"
	"github.com/schedulo/schedulo/infrastructure/http/response"
)

// RoutePolicy selects the bearer-verification strategy for a route. The zero
// value is PolicyAccess so an unregistered route is protected, not open.
type RoutePolicy int

const (
	// PolicyAccess verifies the bearer token against the access secret.
	PolicyAccess RoutePolicy = iota
	// PolicyPublic skips verification entirely.
	PolicyPublic
	// PolicyRefresh verifies against the refresh secret and captures the raw
	// token string for the session service's hash comparison.
	PolicyRefresh
)

// Identity is the verified request-scoped payload attached by the gate.
// RefreshToken is populated only on the refresh route.
type Identity struct {
	AccountID    string
	Username     string
	Email        string
	Role         entity.Role
	RefreshToken string
}

type contextKey string

const identityKey contextKey = "identity"

// AuthGate intercepts every request routed through the mux, resolves the
// route's policy and either rejects or attaches the verified identity.
type AuthGate struct {
	tokenService outbound.TokenService
	policies     map[string]RoutePolicy
}

func NewAuthGate(tokenService outbound.TokenService) *AuthGate {
	return &AuthGate{
		tokenService: tokenService,
		policies:     make(map[string]RoutePolicy),
	}
}

// SetPolicy declares the policy for a named route. Routes without a declared
// policy stay on PolicyAccess.
func (g *AuthGate) SetPolicy(routeName string, policy RoutePolicy) {
	g.policies[routeName] = policy
}

func (g *AuthGate) policyFor(r *http.Request) RoutePolicy {
	route := mux.CurrentRoute(r)
	if route == nil {
		return PolicyAccess
	}
	name := route.GetName()
	if name == "" {
		return PolicyAccess
	}
	return g.policies[name]
}

// Middleware runs before any handler. Terminal outcomes: the handler runs
// with the identity in context, or a 401/403 response and the handler never
// runs.
func (g *AuthGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch g.policyFor(r) {
		case PolicyPublic:
			next.ServeHTTP(w, r)
		case PolicyRefresh:
			g.verifyRefresh(w, r, next)
		default:
			g.verifyAccess(w, r, next)
		}
	})
}

func (g *AuthGate) verifyAccess(w http.ResponseWriter, r *http.Request, next http.Handler) {
	token, ok := extractBearer(r)
	if !ok || token == "" {
		response.AppError(w, apperr.ErrUnauthenticated("missing bearer token"))
		return
	}

	claims, err := g.tokenService.ValidateAccessToken(token)
	if err != nil {
		response.AppError(w, apperr.ErrInvalidToken())
		return
	}

	identity := &Identity{
		AccountID: claims.AccountID,
		Username:  claims.Username,
		Email:     claims.Email,
		Role:      claims.Role,
	}
	next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
}

func (g *AuthGate) verifyRefresh(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if r.Header.Get("Authorization") == "" {
		response.AppError(w, apperr.ErrUnauthenticated("missing refresh token"))
		return
	}

	token, ok := extractBearer(r)
	if !ok || token == "" {
		response.AppError(w, apperr.ErrMalformedToken())
		return
	}

	claims, err := g.tokenService.ValidateRefreshToken(token)
	if err != nil {
		response.AppError(w, apperr.ErrAccessDenied())
		return
	}

	identity := &Identity{
		AccountID:    claims.AccountID,
		Username:     claims.Username,
		Email:        claims.Email,
		Role:         claims.Role,
		RefreshToken: token,
	}
	next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
}

func extractBearer(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	return strings.TrimSpace(parts[1]), true
}

// WithIdentity attaches the verified identity to the context.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity retrieves the verified identity, nil when the route was public.
func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(identityKey).(*Identity); ok {
		return identity
	}
	return nil
}
