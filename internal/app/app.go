// Package app wires configuration, logging, database drivers and the store
// bundle into a runnable application for the binaries under cmd.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tokenforge/idpersist/pkg/slogx"
	"github.com/tokenforge/idpersist/serial"
	"github.com/tokenforge/idpersist/store/drivers/postgres"
	"github.com/tokenforge/idpersist/store/drivers/sqlite"
	"github.com/tokenforge/idpersist/store/sqlstore"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Database is the slice of a driver the application needs once open.
type Database interface {
	NewSession() *sqlstore.Session
	ApplyMigrations() error
	Ping(ctx context.Context) error
	Close() error
}

// Application holds the wired dependencies shared by the binaries.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      Database
	stores  *sqlstore.Stores
	cleanup *sqlstore.Cleanup
}

// New opens the configured database, applies migrations and builds the
// store bundle.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "idpersist",
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	session := app.db.NewSession()
	codec := serial.NewCodec(serial.Profile{Times: cfg.TimeConvention})

	app.stores = sqlstore.New(session, codec)

	// Cleanup gets its own session so its sweeps never contend with a
	// request-owned transaction.
	app.cleanup = sqlstore.NewCleanup(app.db.NewSession(), app.logger, cfg.CleanupInterval)

	return app, nil
}

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger { return app.logger }

// Stores returns the store bundle.
func (app *Application) Stores() *sqlstore.Stores { return app.stores }

// Cleanup returns the expired-token cleanup loop.
func (app *Application) Cleanup() *sqlstore.Cleanup { return app.cleanup }

// Close closes the database connection.
func (app *Application) Close() error {
	return app.db.Close()
}

// RunCleanup starts the cleanup loop and blocks until a shutdown signal
// arrives, then stops it and closes the database.
func (app *Application) RunCleanup() error {
	if err := app.cleanup.Start(); err != nil {
		return err
	}

	app.logger.Info("cleanup daemon starting",
		"driver", app.cfg.Driver,
		"interval", app.cfg.CleanupInterval,
		"version", BuildVersion)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	sig := <-shutdown
	app.logger.Info("shutdown signal received", "signal", sig)

	if !app.cleanup.StopWithin(app.cfg.ShutdownGracePeriod) {
		app.logger.Warn("cleanup did not stop within grace period",
			"grace", app.cfg.ShutdownGracePeriod)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("cleanup daemon stopped")
	return nil
}

// initDatabase opens the configured driver and applies migrations.
func (app *Application) initDatabase() error {
	switch app.cfg.Driver {
	case "sqlite":
		db, err := sqlite.Open(sqlite.FileDSN(app.cfg.DSN))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		app.db = db
	case "postgres":
		db, err := postgres.Open(app.cfg.DSN)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		app.db = db
	default:
		return fmt.Errorf("unknown database driver %q", app.cfg.Driver)
	}

	if err := app.db.ApplyMigrations(); err != nil {
		_ = app.db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}
