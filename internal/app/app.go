// Package app is the application bootstrap and dependency injection root.
// It creates and holds all shared infrastructure (DB pool, Redis client,
// Echo instance) and wires together all feature packages.
package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/mreboux/registrar/internal/apperror"
	"github.com/mreboux/registrar/internal/config"
	"github.com/mreboux/registrar/internal/middleware"
)

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup in main.go and used to register all routes.
type App struct {
	// Config holds the loaded application configuration.
	Config *config.Config

	// DB is the MariaDB connection pool shared by all feature packages.
	DB *sql.DB

	// Redis is the Redis client used for rate limiting.
	Redis *redis.Client

	// Echo is the HTTP server instance.
	Echo *echo.Echo
}

// New creates a new App instance with the given dependencies and configures
// the Echo server with global middleware and error handling.
func New(cfg *config.Config, db *sql.DB, rdb *redis.Client) *App {
	e := echo.New()

	// Disable Echo's default banner and startup message -- we log our own.
	e.HideBanner = true
	e.HidePort = true

	// Configure trusted reverse proxy IPs so c.RealIP() returns the actual
	// client IP instead of the proxy's IP. Required for rate limiting.
	middleware.TrustedProxies(e, []string{
		"127.0.0.0/8",    // Localhost
		"10.0.0.0/8",     // Docker default bridge
		"172.16.0.0/12",  // Docker bridge (alternate range)
		"192.168.0.0/16", // Common LAN
		"fd00::/8",       // IPv6 private
	})

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Echo:   e,
	}

	app.setupMiddleware()

	// Register the custom error handler that maps AppErrors to JSON responses.
	e.HTTPErrorHandler = app.errorHandler

	return app
}

// setupMiddleware registers global middleware on the Echo instance.
// Order matters: outermost (recovery) runs first.
func (a *App) setupMiddleware() {
	// Panic recovery -- must be outermost to catch panics from all other middleware.
	a.Echo.Use(middleware.Recovery())

	// Request logging -- log every request with method, path, status, latency.
	a.Echo.Use(middleware.RequestLogger())

	// Security headers -- CSP, X-Frame-Options, X-Content-Type-Options, etc.
	a.Echo.Use(middleware.SecurityHeaders())

	// CORS -- the frontend is served from a different origin and sends the
	// session cookie, so credentials must be allowed.
	a.Echo.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   a.Config.CORSOrigins,
		AllowCredentials: true,
	}))
}

// Start runs the HTTP server on the configured port. Blocks until the
// server stops.
func (a *App) Start() error {
	return a.Echo.Start(fmt.Sprintf(":%d", a.Config.Port))
}

// errorHandler is the custom Echo error handler. Every error becomes a JSON
// body of the form {"error": "...", "message": "..."}; domain errors
// (AppError) carry their own status code and client-safe message, anything
// else is a 500 with a generic message.
func (a *App) errorHandler(err error, c echo.Context) {
	// Don't double-write if response is already committed.
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "An unexpected error occurred"

	var appErr *apperror.AppError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message

		// Log internal errors with the underlying cause.
		if appErr.Internal != nil {
			slog.Error("internal error",
				slog.String("type", appErr.Type),
				slog.String("message", appErr.Message),
				slog.Any("internal", appErr.Internal),
				slog.String("path", c.Request().URL.Path),
			)
		}
	case errors.As(err, &echoErr):
		// Echo's built-in errors (e.g. 404 from the router, 405).
		code = echoErr.Code
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		}
	default:
		slog.Error("unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
		)
	}

	if err := c.JSON(code, map[string]string{
		"error":   http.StatusText(code),
		"message": message,
	}); err != nil {
		slog.Error("failed to write error response", slog.Any("error", err))
	}
}
