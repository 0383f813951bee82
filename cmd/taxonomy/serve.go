package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"taxonomy/internal/cache"
	"taxonomy/internal/config"
	"taxonomy/internal/database"
	"taxonomy/internal/fields"
	"taxonomy/internal/handlers"
	"taxonomy/internal/metrics"
	"taxonomy/internal/router"
	"taxonomy/internal/store"
	"taxonomy/internal/store/memstore"
	"taxonomy/internal/taxonomy"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// runServe loads configuration, connects to services, sets up routing and
// runs the HTTP server until SIGINT or SIGTERM.
func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreBackend,
	)

	registry, err := fields.LoadFile(cfg.FieldsFile)
	if err != nil {
		return fmt.Errorf("load fields: %w", err)
	}
	slog.Info("categorized fields loaded", "file", cfg.FieldsFile, "entity_types", len(registry.EntityTypes()))
	if cfg.FieldsWatch {
		watchCtx, stopWatch := context.WithCancel(ctx)
		defer stopWatch()
		if err := registry.Watch(watchCtx, cfg.FieldsFile); err != nil {
			slog.Warn("fields file not watched", "error", err)
		}
	}

	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	var opts []taxonomy.Option
	if cfg.CacheEnabled() {
		client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			// The cache is an optimization; run without it.
			slog.Warn("valkey unavailable, category cache disabled", "error", err)
		} else {
			defer client.Close()
			opts = append(opts, taxonomy.WithCache(cache.NewCategoryCache(client, cfg.CategoryCacheTTL)))
		}
	}

	svc := taxonomy.New(repo, registry, opts...)
	var routerOpts []router.Option
	if cfg.MetricsEnabled {
		routerOpts = append(routerOpts, router.WithMetrics(metrics.New()))
	}
	r := router.New(handlers.NewAPI(svc, registry), cfg.AdminAPIKeyHash, routerOpts...)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// openRepository returns the configured backend and a function releasing it.
func openRepository(cfg *config.Config) (taxonomy.Repository, func(), error) {
	if cfg.StoreBackend == config.BackendMemory {
		slog.Warn("using in-memory store, data is lost on exit")
		return memstore.New(), func() {}, nil
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("seed database: %w", err)
		}
	}
	return store.New(db), func() { db.Close() }, nil
}

// openDatabase connects to PostgreSQL and applies pending migrations.
func openDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}
