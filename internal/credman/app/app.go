package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/sunfall-labs/credman/internal/credman/http"
	"github.com/sunfall-labs/credman/internal/credman/service"
	"github.com/sunfall-labs/credman/internal/credman/store"
	"github.com/sunfall-labs/credman/internal/credman/store/drivers/sqlite"
	"github.com/sunfall-labs/credman/pkg/cryptox"
	"github.com/sunfall-labs/credman/pkg/oauthsdk"
	"github.com/sunfall-labs/credman/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the credential manager with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	provider *oauthsdk.SDKClient

	// Services
	flowService    *service.FlowService
	refreshService *service.RefreshService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "credman",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.provider = oauthsdk.NewSDKClient(cfg.AuthorizeURL, cfg.TokenURL)

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start the weekly refresh scheduler
	app.refreshService.Start()

	app.logger.Info("credential manager starting",
		"addr", app.cfg.ListenAddr,
		"version", BuildVersion,
		"refresh_weekday", app.cfg.RefreshWeekday.String(),
		"refresh_at", app.cfg.RefreshAt.String(),
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down credential manager...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the refresh scheduler
	app.refreshService.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("credential manager stopped")
	return nil
}

// initDatabase loads the sealing key, opens the store and applies migrations
func (app *Application) initDatabase() error {
	master, err := cryptox.LoadMasterKey(app.cfg.MasterKeyFile, "CREDMAN_MASTER_KEY")
	if err != nil {
		return fmt.Errorf("failed to load master key: %w", err)
	}

	sealer, err := cryptox.NewSealer(master)
	if err != nil {
		return fmt.Errorf("failed to initialize sealer: %w", err)
	}

	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host, sealer)
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

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.flowService = &service.FlowService{
		Store:        app.db,
		Provider:     app.provider,
		Logger:       app.logger,
		ClientID:     app.cfg.ClientID,
		ClientSecret: app.cfg.ClientSecret,
		RedirectURI:  app.cfg.RedirectURI,
		StateSecret:  app.cfg.StateSecret,
	}

	app.refreshService = &service.RefreshService{
		Flow:      app.flowService,
		Logger:    app.logger,
		Weekday:   app.cfg.RefreshWeekday,
		At:        app.cfg.RefreshAt,
		GrantType: app.cfg.RefreshGrantType,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	// Wire services to router
	router.FlowService = app.flowService
	router.RefreshGrantType = app.cfg.RefreshGrantType
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              app.cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

func validateConfig(cfg Config) error {
	switch {
	case cfg.ClientID == "":
		return errors.New("CREDMAN_CLIENT_ID is required")
	case cfg.ClientSecret == "":
		return errors.New("CREDMAN_CLIENT_SECRET is required")
	case cfg.AuthorizeURL == "":
		return errors.New("CREDMAN_AUTHORIZE_URL is required")
	case cfg.TokenURL == "":
		return errors.New("CREDMAN_TOKEN_URL is required")
	}
	return nil
}
