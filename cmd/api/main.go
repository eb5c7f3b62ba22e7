// Package main is the entrypoint for the Tickdown API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tickdown/tickdown/internal/auth"
	"github.com/tickdown/tickdown/internal/cache"
	"github.com/tickdown/tickdown/internal/config"
	"github.com/tickdown/tickdown/internal/handler"
	"github.com/tickdown/tickdown/internal/metrics"
	"github.com/tickdown/tickdown/internal/middleware"
	"github.com/tickdown/tickdown/internal/repository"
	"github.com/tickdown/tickdown/internal/server"
	"github.com/tickdown/tickdown/internal/service"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	// Initialize token issuer and services
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	recorder := metrics.NewInMemory()
	userService := service.NewUserService(repo, cfg.BcryptCost, recorder)
	sessionService := service.NewSessionService(repo, cacheClient, issuer, recorder)
	taskService := service.NewTaskService(repo, recorder)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	metricsHandler := handler.NewMetricsHandler(recorder)
	userHandler := handler.NewUserHandler(userService, logger)
	sessionHandler := handler.NewSessionHandler(sessionService, logger)
	taskHandler := handler.NewTaskHandler(taskService, logger)

	deps := routerDeps{
		root:     h,
		health:   healthHandler,
		metrics:  metricsHandler,
		users:    userHandler,
		sessions: sessionHandler,
		tasks:    taskHandler,
		issuer:   issuer,
		cache:    cacheClient,
		recorder: recorder,
	}

	// Setup router
	r := setupRouter(deps, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	// Stores close after the HTTP server has drained.
	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"token_ttl", cfg.TokenTTL.String(),
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routerDeps bundles everything setupRouter needs.
type routerDeps struct {
	root     *handler.Handler
	health   *handler.HealthHandler
	metrics  *handler.MetricsHandler
	users    *handler.UserHandler
	sessions *handler.SessionHandler
	tasks    *handler.TaskHandler
	issuer   *auth.Issuer
	cache    *cache.Cache
	recorder metrics.Recorder
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}

	// Health endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)
	r.Get("/metrics", deps.metrics.Metrics)

	// Root info endpoint
	r.Get("/", deps.root.Hello)

	// Auth middleware configuration
	authCfg := middleware.AuthConfig{
		Logger:  logger,
		Issuer:  deps.issuer,
		Cache:   deps.cache,
		Metrics: deps.recorder,
	}

	// Rate limit middleware configuration for credential endpoints
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:      logger,
		Cache:       deps.cache,
		AuthEnabled: cfg.RateLimitAuthEnabled,
		AuthRPM:     cfg.RateLimitAuthRPM,
		AuthBurst:   cfg.RateLimitAuthBurst,
	}

	r.Route("/api", func(r chi.Router) {
		// Unauthenticated endpoints, rate limited per IP
		r.With(middleware.RateLimitAuth(rateLimitCfg)).Post("/users", deps.users.Create)
		r.With(middleware.RateLimitAuth(rateLimitCfg)).Post("/session", deps.sessions.Create)

		// Everything else requires a valid, unrevoked token
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))

			r.Delete("/session", deps.sessions.Delete)
			r.Get("/session/user", deps.sessions.CurrentUser)

			r.Route("/users/{userID}", func(r chi.Router) {
				r.Put("/", deps.users.Update)
				r.Delete("/", deps.users.Delete)

				r.Route("/tasks", func(r chi.Router) {
					r.Get("/", deps.tasks.List)
					r.Post("/", deps.tasks.Create)
					r.Put("/{taskID}", deps.tasks.Update)
					r.Delete("/{taskID}", deps.tasks.Delete)
				})
			})
		})
	})

	// 404 and 405 handlers
	r.NotFound(deps.root.NotFound)
	r.MethodNotAllowed(deps.root.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

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
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
