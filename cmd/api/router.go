package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/usuarios-api/usuarios/internal/config"
	"github.com/usuarios-api/usuarios/internal/handler"
	"github.com/usuarios-api/usuarios/internal/middleware"
)

type routerDeps struct {
	info     *handler.Handler
	health   *handler.HealthHandler
	metrics  *handler.MetricsHandler
	usuarios *handler.UsuarioHandler
	cfg      *config.Config
	logger   *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
// Middleware order matters: preflight requests are answered by CORS before
// the body cap, form parsing and access log run.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Security(middleware.DefaultSecurityConfig()))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(d.cfg.CORSOrigin)))
	r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))
	r.Use(middleware.ParseForm)
	r.Use(middleware.AccessLog(d.logger))

	// Registered before mounting so the usuario subrouter inherits them.
	r.NotFound(d.info.NotFound)
	r.MethodNotAllowed(d.info.MethodNotAllowed)

	r.Get("/", d.info.Info)
	r.Get("/cabecerabd", d.health.CabeceraBD)

	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)
	r.Get("/metrics", d.metrics.Metrics)

	r.Route("/api/usuario", d.usuarios.Routes)

	return r
}
