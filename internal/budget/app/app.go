// Package app assembles the budget service: config, logging, store,
// signing keys, services, and the HTTP server lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/spendwise/budgetd/internal/budget/http"
	"github.com/spendwise/budgetd/internal/budget/service"
	"github.com/spendwise/budgetd/internal/budget/store"
	"github.com/spendwise/budgetd/internal/budget/store/drivers/sqlite"
	"github.com/spendwise/budgetd/pkg/jwtx"
	"github.com/spendwise/budgetd/pkg/slogx"
	"golang.org/x/sync/errgroup"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the budget service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	keychain *jwtx.Keychain

	gate     *service.TokenGate
	ledger   *service.Ledger
	accounts *service.Accounts

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "budgetd",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initKeys(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the HTTP server and blocks until shutdown is requested or the
// server fails.
func (app *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.logger.Info("budget service starting", "port", app.cfg.Port, "version", BuildVersion)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return app.Shutdown()
	})

	return g.Wait()
}

// Shutdown drains in-flight requests and closes the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down budget service...")

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

	app.logger.Info("budget service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
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

func (app *Application) initKeys() error {
	secrets, err := app.cfg.TokenSecrets()
	if err != nil {
		return fmt.Errorf("failed to load token secrets: %w", err)
	}

	keychain, err := jwtx.NewKeychain(secrets...)
	if err != nil {
		return fmt.Errorf("failed to build keychain: %w", err)
	}
	app.keychain = keychain

	if len(secrets) > 1 {
		app.logger.Info("token keychain loaded", "retired_keys", len(secrets)-1)
	}
	return nil
}

func (app *Application) initServices() error {
	signer, err := jwtx.NewSignerHS256(app.keychain)
	if err != nil {
		return err
	}
	verifier := jwtx.NewVerifierHS256(app.keychain, app.cfg.Issuer)

	app.gate = &service.TokenGate{Verifier: verifier, Store: app.db}
	app.ledger = &service.Ledger{Store: app.db}
	app.accounts = &service.Accounts{
		Store:      app.db,
		Signer:     signer,
		Issuer:     app.cfg.Issuer,
		SessionTTL: app.cfg.SessionTTL,
	}
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.cfg.CORSAllowedOrigins,
		app.cfg.MaxRequestBody,
		app.db,
		app.logger,
	)
	router.Gate = app.gate
	router.Ledger = app.ledger
	router.Accounts = app.accounts
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", app.cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
