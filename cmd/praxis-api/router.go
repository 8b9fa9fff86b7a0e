package main

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"praxis-api/internal/auth"
	"praxis-api/internal/config"
	"praxis-api/internal/http/docs"
	"praxis-api/internal/http/handler"
	"praxis-api/internal/http/middleware"
	"praxis-api/internal/observability/logger"
	"praxis-api/internal/ratelimit"
	"praxis-api/internal/telemetry"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterDeps holds everything buildRouter needs.
type RouterDeps struct {
	Cfg         *config.Config
	Log         *logger.Logger
	Validator   *auth.Validator
	RateLimiter *ratelimit.RedisRateLimiter
	Metrics     *telemetry.Metrics
	Pool        *pgxpool.Pool // readiness check and debug handler

	// Handlers
	DocumentHandler  *handler.DocumentHandler
	MatterHandler    *handler.MatterHandler
	ClientHandler    *handler.ClientHandler
	ViolationHandler *handler.ViolationHandler
	DebugHandler     *handler.DebugHandler
}

// buildRouter assembles the chi.Router with all middlewares and routes.
func buildRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RequestLoggingMiddleware(deps.Log))
	r.Use(middleware.RecoveryMiddleware(deps.Log))
	r.Use(telemetry.OTelMiddleware(deps.Cfg.OTELServiceName))
	if deps.Metrics != nil {
		r.Use(telemetry.MetricsMiddleware(deps.Metrics))
	}

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/openapi.yaml", docs.OpenAPIHandler().ServeHTTP)
	r.Get("/docs", docs.ScalarDocsHandler("/openapi.yaml").ServeHTTP)

	// Prometheus scrape endpoint, optionally token-gated.
	r.Get("/metrics", metricsHandler(deps.Cfg.MetricsToken).ServeHTTP)

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if deps.Pool == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ready","note":"pool is nil"}`))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := deps.Pool.Ping(ctx); err != nil {
			deps.Log.Error(ctx, "readiness check failed: database unavailable", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"error","message":"database unavailable"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	// Debug routes (dev-only)
	if deps.Cfg.AppEnv == "dev" || deps.Cfg.AppEnv == "development" {
		r.Route("/debug", func(r chi.Router) {
			if deps.DebugHandler != nil {
				r.With(auth.JWTAuthMiddleware(deps.Validator, deps.Log)).Get("/auth", deps.DebugHandler.GetAuthDebug)
				r.With(auth.JWTAuthMiddleware(deps.Validator, deps.Log)).Get("/auth/tenants/{tenantId}", deps.DebugHandler.GetAuthDebugWithTenant)
				r.Get("/db/ping", deps.DebugHandler.PingDB)
			}
		})
	}

	// Protected routes with tenant isolation
	r.Route("/v1/tenants/{tenantId}", func(r chi.Router) {
		r.Use(auth.JWTAuthMiddleware(deps.Validator, deps.Log))
		r.Use(middleware.TenantMiddleware)
		if deps.RateLimiter != nil {
			r.Use(middleware.RateLimitMiddleware(deps.RateLimiter, deps.Cfg.RateLimitPerTenantPerMin))
		}

		// Documents
		if deps.DocumentHandler != nil {
			r.Route("/documents", func(r chi.Router) {
				r.Get("/", deps.DocumentHandler.ListDocuments)
				r.Route("/{documentId}", func(r chi.Router) {
					r.Get("/", deps.DocumentHandler.GetDocument)
					r.Get("/access", deps.DocumentHandler.CheckDocumentAccess)
				})
			})
		}

		// Matters
		if deps.MatterHandler != nil {
			r.Route("/matters", func(r chi.Router) {
				r.Get("/", deps.MatterHandler.ListMatters)
				r.Route("/{matterId}", func(r chi.Router) {
					r.Get("/", deps.MatterHandler.GetMatter)
					r.Get("/access", deps.MatterHandler.CheckMatterAccess)
				})
			})
		}

		// Clients
		if deps.ClientHandler != nil {
			r.Route("/clients", func(r chi.Router) {
				r.Get("/", deps.ClientHandler.ListClients)
				r.Route("/{clientId}", func(r chi.Router) {
					r.Get("/", deps.ClientHandler.GetClient)
					r.Get("/access", deps.ClientHandler.CheckClientAccess)
				})
			})
		}

		// Isolation violation feed
		if deps.ViolationHandler != nil {
			r.Get("/violations", deps.ViolationHandler.ListViolations)
		}
	})

	return r
}

// metricsHandler serves Prometheus metrics. With a token configured, the
// scraper must send it via X-Metrics-Token or a Bearer Authorization header.
func metricsHandler(token string) http.Handler {
	prom := promhttp.Handler()
	if token == "" {
		return prom
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		presented := r.Header.Get("X-Metrics-Token")
		if presented == "" {
			authHeader := r.Header.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				presented = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}
		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		prom.ServeHTTP(w, r)
	})
}
