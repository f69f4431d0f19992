package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/coreybb/userdir/api"
	"github.com/coreybb/userdir/datastore"
	rh "github.com/coreybb/userdir/route-handlers"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	dbPingTimeout     = 5 * time.Second
	shutdownTimeout   = 15 * time.Second
	dbMaxOpenConns    = 25
	dbMaxIdleConns    = 25
	dbConnMaxLifetime = 5 * time.Minute
)

type config struct {
	Addr        string `env:"ADDR" envDefault:":8080"`
	BasePath    string `env:"BASE_PATH" envDefault:"/api"`
	StoreDriver string `env:"STORE_DRIVER" envDefault:"memory"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"user=postgres password=password dbname=userdir host=localhost port=5432 sslmode=disable"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"userdir.db"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("Failed to parse configuration", "error", err)
		os.Exit(1)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		slog.Error("Store setup failed", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	userHandler := rh.NewUserHandler(store)
	router := api.SetupRoutes(cfg.BasePath, userHandler)

	startServer(cfg.Addr, router)
}

// openStore opens the configured UserStore and ensures its schema. The
// returned func releases the underlying connection pool, if any.
func openStore(cfg config) (datastore.UserStore, func(), error) {
	switch cfg.StoreDriver {
	case "memory":
		return datastore.NewMemoryUserStore(), func() {}, nil

	case "postgres":
		db, err := setupDatabase("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store := datastore.NewPostgresUserStore(db)
		if err := store.EnsureSchema(context.Background()); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil

	case "sqlite":
		dsn := cfg.SQLitePath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
		db, err := setupDatabase("sqlite", dsn)
		if err != nil {
			return nil, nil, err
		}
		store := datastore.NewSQLiteUserStore(db)
		if err := store.EnsureSchema(context.Background()); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func setupDatabase(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close() // Close unusable connection pool
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Database connection successful", "driver", driver)
	return db, nil
}

func startServer(addr string, router http.Handler) {
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		slog.Error("Server error", "error", err)
		os.Exit(1)
	case <-shutdownSignal:
	}

	slog.Info("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Graceful shutdown failed", "error", err)
	}

	slog.Info("Server gracefully stopped")
}
