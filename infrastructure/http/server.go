package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/schedulo/schedulo/application/port/inbound"
	"github.com/schedulo/schedulo/application/port/outbound"
	"github.com/schedulo/schedulo/infrastructure/http/handler"
	"github.com/schedulo/schedulo/infrastructure/http/middleware"
	"github.com/schedulo/schedulo/infrastructure/service/logger"
)

// Route names referenced by the gate's policy table.
const (
	RouteLogin    = "auth.login"
	RouteRegister = "auth.register"
	RouteLogout   = "auth.logout"
	RouteRefresh  = "auth.refresh"
	RouteMe       = "auth.me"
	RouteHealth   = "health"
)

type ServerConfig struct {
	Host                 string
	Port                 string
	ReadTimeout          time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
}

type Server struct {
	server *http.Server
	log    logger.Logger
}

// NewServer wires the router, the gate's route policy table and the
// middleware chain. Every route runs through the gate; only routes explicitly
// declared public or refresh escape access-token verification.
func NewServer(
	config ServerConfig,
	sessions inbound.SessionService,
	tokenService outbound.TokenService,
	log logger.Logger,
) *Server {
	authHandler := handler.NewAuthHandler(sessions)
	gate := middleware.NewAuthGate(tokenService)

	router := mux.NewRouter()

	router.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost).Name(RouteLogin)
	router.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost).Name(RouteRegister)
	router.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost).Name(RouteLogout)
	router.HandleFunc("/auth/refresh", authHandler.Refresh).Methods(http.MethodPost).Name(RouteRefresh)
	router.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet).Name(RouteMe)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet).Name(RouteHealth)

	// Exemptions are declared per route; logout and me carry no declaration
	// and stay on the fail-closed access policy.
	gate.SetPolicy(RouteLogin, middleware.PolicyPublic)
	gate.SetPolicy(RouteRegister, middleware.PolicyPublic)
	gate.SetPolicy(RouteRefresh, middleware.PolicyRefresh)
	gate.SetPolicy(RouteHealth, middleware.PolicyPublic)

	router.Use(recoveryMiddleware(log))
	router.Use(requestLogMiddleware(log))
	router.Use(gate.Middleware)

	var root http.Handler = router
	root = middleware.CorrelationIDMiddleware(root)
	if config.CORSEnabled && len(config.CORSAllowedOrigins) > 0 {
		root = middleware.CORSMiddleware(root, config.CORSAllowedOrigins, config.CORSAllowCredentials)
	}

	return &Server{
		server: &http.Server{
			Addr:         config.Host + ":" + config.Port,
			Handler:      root,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		log: log,
	}
}

func (s *Server) Start() error {
	s.log.Info(context.Background(), "Starting HTTP server", map[string]interface{}{
		"addr": s.server.Addr,
	})
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info(ctx, "Shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}

// Handler exposes the composed handler chain for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func requestLogMiddleware(log logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Debug(r.Context(), "Request handled", map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
				"duration_ms": time.Since(start).Milliseconds(),
			})
		})
	}
}

func recoveryMiddleware(log logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error(r.Context(), "Panic recovered", nil, map[string]interface{}{
						"panic": rec,
						"path":  r.URL.Path,
					})
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
