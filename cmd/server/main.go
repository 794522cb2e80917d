// Package main is the entrypoint for the pagesmith server.
package main

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

	"github.com/pagesmith/pagesmith/internal/api"
	"github.com/pagesmith/pagesmith/internal/api/handler"
	mw "github.com/pagesmith/pagesmith/internal/api/middleware"
	"github.com/pagesmith/pagesmith/internal/api/response"
	"github.com/pagesmith/pagesmith/internal/compose"
	"github.com/pagesmith/pagesmith/internal/config"
	"github.com/pagesmith/pagesmith/internal/render"
	"github.com/pagesmith/pagesmith/internal/routing"
	"github.com/pagesmith/pagesmith/internal/staging"
	"github.com/pagesmith/pagesmith/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "topology", cfg.Site.Topology, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create the dataset stager
	stager, err := staging.NewRedisStager(cfg.Redis.URL, cfg.Site.UploadTTL)
	if err != nil {
		return fmt.Errorf("create stager: %w", err)
	}
	defer stager.Close()

	if err := stager.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create store, resolver and composer
	pgStore := store.NewPostgresStore(pool)

	topology, err := routing.ParseTopology(cfg.Site.Topology)
	if err != nil {
		return fmt.Errorf("parse topology: %w", err)
	}
	resolver := routing.NewResolver(topology, routing.DefaultVerticals())

	renderer := render.NewTemplateRenderer(cfg.Site.TemplatesDir)
	composer := compose.New(pgStore, renderer, compose.DefaultSectionMap(),
		cfg.Site.BaseURL, cfg.Site.MapsAPIKey, cfg.Site.DefaultCollection)

	// 6. Build router with dependencies
	auth := mw.NewAuth(cfg.Auth.JWTSecret)

	deps := api.Dependencies{
		Auth: auth,

		HealthHandler: healthHandler(pgStore, stager),
		PingHandler:   handler.NewPingHandler(),
		TokenHandler:  handler.NewTokenHandler(cfg.Auth.JWTSecret, cfg.Auth.AdminPasswordHash, cfg.Auth.TokenTTL),

		ListCompanies:  handler.NewListCompaniesHandler(pgStore),
		GetCompany:     handler.NewGetCompanyHandler(pgStore),
		CreateCompany:  handler.NewCreateCompanyHandler(pgStore, cfg.Site.DefaultCollection),
		UpdateCompany:  handler.NewUpdateCompanyHandler(pgStore),
		DeleteCompany:  handler.NewDeleteCompanyHandler(pgStore),
		Upload:         handler.NewUploadHandler(stager),
		CreateTemplate: handler.NewCreateTemplateHandler(stager),

		PageHandler: handler.NewPageHandler(resolver, composer),
	}

	router := api.NewRouter(deps)

	// 7. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks database and staging connectivity.
func healthHandler(s store.Store, st staging.Stager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"staging":  "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := st.Ping(r.Context()); err != nil {
			checks["staging"] = "degraded"
		}

		degraded := checks["database"] != "ok" || checks["staging"] != "ok"
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
