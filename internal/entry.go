// Package internal provides the main application initialization and runtime logic.
package internal

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/Craig-TribeAI/org-chart-builder/internal/api"
	"github.com/Craig-TribeAI/org-chart-builder/internal/inbox"
	"github.com/Craig-TribeAI/org-chart-builder/internal/mcpserver"
	"github.com/Craig-TribeAI/org-chart-builder/internal/orgservice"
	"github.com/Craig-TribeAI/org-chart-builder/internal/sse"
	"github.com/Craig-TribeAI/org-chart-builder/internal/storage"
	"github.com/Craig-TribeAI/org-chart-builder/internal/workspace"
)

// Run starts the HTTP application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("workdir", cfg.Workdir.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Bool("inbox_enabled", cfg.Inbox.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	broker := sse.NewBroker(2 * time.Second)

	svc, files, ws, err := buildService(ctx, cfg, logger, broker)
	if err != nil {
		return err
	}
	defer ws.Close()

	// Build API router. The SSE endpoint lives inside the router so it
	// shares the auth middleware.
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start inbox watcher. A watcher failure is logged but does not take
	// the server down; the API and dataset upload keep working without it.
	if cfg.Inbox.Enabled {
		g.Go(func() error {
			err := inbox.Watch(gCtx, svc, files, cfg.Workdir.Path, logger, func(kind, name string) {
				broker.PublishChange("inbox."+kind, map[string]string{"file": name})
			})
			if err != nil {
				logger.Warn("inbox watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		broker.Close()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the MCP tool interface on stdin/stdout with the given
// options. Stdout carries the protocol stream, so logs go to stderr.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	svc, _, ws, err := buildService(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	logger.Info("MCP server starting on stdio",
		slog.String("workdir", cfg.Workdir.Path),
		slog.String("sqlite_path", cfg.SQLite.Path))

	return mcpserver.New(svc).ServeStdio()
}

// buildService wires the shared service stack: working directory,
// file storage, SQLite workspace, and the org chart service with its
// last saved document restored.
func buildService(ctx context.Context, cfg *Config, logger *slog.Logger, notifier orgservice.Notifier) (*orgservice.Service, storage.Provider, *workspace.DB, error) {
	if err := os.MkdirAll(cfg.Workdir.Path, 0o755); err != nil {
		return nil, nil, nil, fmt.Errorf("create workdir: %w", err)
	}

	files, err := storage.NewFS(cfg.Workdir.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init storage: %w", err)
	}

	ws, err := workspace.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open workspace: %w", err)
	}

	svc := orgservice.NewService(ws, files, notifier, logger)
	if err := svc.LoadWorkspace(ctx); err != nil {
		ws.Close()
		return nil, nil, nil, fmt.Errorf("load workspace: %w", err)
	}

	return svc, files, ws, nil
}
