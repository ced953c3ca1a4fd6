// Package main is the entrypoint for the usuarios API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/usuarios-api/usuarios/internal/auth"
	"github.com/usuarios-api/usuarios/internal/cache"
	"github.com/usuarios-api/usuarios/internal/config"
	"github.com/usuarios-api/usuarios/internal/handler"
	"github.com/usuarios-api/usuarios/internal/metrics"
	"github.com/usuarios-api/usuarios/internal/repository"
	"github.com/usuarios-api/usuarios/internal/server"
	"github.com/usuarios-api/usuarios/internal/service"
)

func main() {
	if err := run(context.Background()); err != nil {
		os.Exit(1)
	}
}

// run performs the startup sequence. Every failure is logged before it is
// returned so that main only has to set the exit code.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}

	logger := initLogger(cfg)
	dsn := cfg.DSN()

	logger.Info("connecting to database", "database", cfg.DatabaseName())
	repo, err := repository.New(ctx, dsn)
	if err != nil {
		logger.Error("failed to connect to database",
			slog.String("error", sanitizeError(err, dsn, cfg.DBPassword)),
			slog.String("database_url", redactURL(dsn)),
		)
		return err
	}
	logger.Info("connected to database")

	if err := repo.SyncSchema(ctx, logger); err != nil {
		logger.Error("failed to sync schema", "error", sanitizeError(err, dsn, cfg.DBPassword))
		repo.Close()
		return err
	}
	logger.Info("schema synchronized")

	hasher, err := auth.New(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		logger.Error("failed to configure password hasher", "error", err)
		repo.Close()
		return err
	}

	recorder := metrics.NewInMemory()
	usuarioService := service.NewUsuarioService(repo, hasher, recorder, logger)

	// The cache is attached only when configured; a nil *cache.Cache must
	// never reach the service or health handler as a non-nil interface.
	var cacheChecker handler.HealthChecker
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			logger.Error("failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			repo.Close()
			return err
		}
		usuarioService.WithCache(cacheClient)
		cacheChecker = cacheClient
		logger.Info("connected to Redis", "ttl", cacheClient.TTL())
	}

	r := setupRouter(routerDeps{
		info:     handler.New(cfg.AppEnv),
		health:   handler.NewHealthHandler(repo, cacheChecker),
		metrics:  handler.NewMetricsHandler(recorder),
		usuarios: handler.NewUsuarioHandler(usuarioService, logger),
		cfg:      cfg,
		logger:   logger,
	})

	srv := server.New(r, server.Options{
		Port:            cfg.Port,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("postgres", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(ctx context.Context) error {
			return cacheClient.Close()
		})
	}

	if err := srv.Listen(); err != nil {
		logger.Error("failed to listen", "port", cfg.Port, "error", err)
		repo.Close()
		return err
	}

	logger.Info("Servidor corriendo",
		"url", "http://localhost:"+portOf(srv.Addr()),
		"environment", cfg.AppEnv,
		"database", cfg.DatabaseName(),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		return err
	}
	return nil
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With("service", "usuarios-api")
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// portOf extracts the port from a host:port address.
func portOf(addr string) string {
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return addr[i+1:]
	}
	return addr
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

// redactURL strips the password from a connection URL.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		if username := parsed.User.Username(); username != "" {
			parsed.User = url.User(username)
		} else {
			parsed.User = url.User("redacted")
		}
	}

	q := parsed.Query()
	if q.Has("password") {
		q.Set("password", "redacted")
		parsed.RawQuery = q.Encode()
	}

	return parsed.String()
}

// sanitizeError removes secrets from an error message before logging.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" || redacted == secret {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
