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

	"github.com/starford/wunjo/internal/api"
	"github.com/starford/wunjo/internal/assistant"
	"github.com/starford/wunjo/internal/importer"
	"github.com/starford/wunjo/internal/insight"
	"github.com/starford/wunjo/internal/journal"
	"github.com/starford/wunjo/internal/mcpserver"
	"github.com/starford/wunjo/internal/mindmap"
	"github.com/starford/wunjo/internal/sse"
	"github.com/starford/wunjo/internal/store"
	"github.com/starford/wunjo/internal/vault"
)

// Run starts the application with the given options.
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
	if app.mcp {
		// stdout carries the MCP protocol in stdio mode.
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
	}
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Int("insight_window_days", cfg.Insight.WindowDays),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Open the record store.
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	// Event broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	// Build services.
	journalSvc := journal.NewService(db, broker)
	insightSvc := insight.NewService(db, broker, logger, cfg.Insight.WindowDays)
	mindmapSvc := mindmap.NewService(insightSvc)
	assistantSvc := assistant.NewService(insightSvc, mindmapSvc, db)

	var cipher vault.Cipher = vault.Plain{}
	if cfg.Vault.Passphrase != "" {
		cipher = vault.NewAESGCM(cfg.Vault.Passphrase)
	}
	vaultSvc := vault.NewService(db, cipher)

	if app.mcp {
		logger.Info("Starting MCP server on stdio")
		return mcpserver.New(journalSvc, insightSvc, mindmapSvc, assistantSvc).ServeStdio()
	}

	// Build API router.
	h := api.NewHandler(journalSvc, insightSvc, mindmapSvc, assistantSvc, vaultSvc)
	apiRouter := api.NewRouter(h, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

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

	// Startup refresh + periodic insight scheduler.
	g.Go(func() error {
		insightSvc.RefreshDailyInsight(gCtx)

		ticker := time.NewTicker(time.Duration(cfg.Insight.RefreshHours) * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				insightSvc.RefreshDailyInsight(gCtx)
			}
		}
	})

	// Snapshot import watcher.
	if cfg.Importer.Path != "" {
		if err := os.MkdirAll(cfg.Importer.Path, 0o755); err != nil {
			return fmt.Errorf("create import dir: %w", err)
		}
		g.Go(func() error {
			if err := importer.Watch(gCtx, vaultSvc, cfg.Importer.Path, logger, func(path string) {
				// Imported history invalidates the model; refresh now.
				insightSvc.RefreshDailyInsight(gCtx)
			}); err != nil {
				logger.Warn("import watcher failed", slog.String("error", err.Error()))
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

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
