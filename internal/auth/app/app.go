package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpapi "github.com/driftwave/auth/internal/auth/http"
	"github.com/driftwave/auth/internal/auth/service"
	"github.com/driftwave/auth/internal/auth/store"
	"github.com/driftwave/auth/internal/auth/store/drivers/sqlite"
	"github.com/driftwave/auth/pkg/slogx"
)

// BuildVersion is overridable at build time via -ldflags "-X ...".
var BuildVersion = "v0.1.0"

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	tokenIssuer    *service.TokenIssuer
	sessionService *service.SessionService
	userService    *service.UserService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase opens the SQLite store and applies migrations.
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(app.cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes the business logic services.
func (app *Application) initServices() error {
	issuer, err := service.NewTokenIssuer(
		app.cfg.SigningSecret,
		app.cfg.Issuer,
		app.cfg.AccessTTL,
		app.cfg.RefreshTTL,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize token issuer: %w", err)
	}
	app.tokenIssuer = issuer

	app.sessionService = &service.SessionService{
		Store:  app.db,
		Tokens: issuer,
	}
	app.userService = &service.UserService{
		Store:    app.db,
		Sessions: app.sessionService,
	}

	return nil
}

// initHTTP initializes the router and HTTP server.
func (app *Application) initHTTP() {
	app.router = httpapi.NewRouter(app.tokenIssuer.Verifier, BuildVersion, app.db, app.logger)
	app.router.SessionService = app.sessionService
	app.router.UserService = app.userService
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
