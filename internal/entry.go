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

	"github.com/gregelin/photospeak/internal/api"
	"github.com/gregelin/photospeak/internal/blob"
	"github.com/gregelin/photospeak/internal/clipservice"
	"github.com/gregelin/photospeak/internal/clipstore"
	"github.com/gregelin/photospeak/internal/mcpserver"
	"github.com/gregelin/photospeak/internal/photos"
	"github.com/gregelin/photospeak/internal/sse"
	"github.com/gregelin/photospeak/internal/state"
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
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.SlogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("library_path", cfg.Library.Path),
		slog.String("state_backend", cfg.State.Backend),
		slog.String("state_path", cfg.State.Path),
		slog.String("log_level", cfg.App.SlogLevel().String()))

	// Ensure data root exists.
	if err := os.MkdirAll(cfg.Library.Path, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// Blob repository for audio bytes.
	blobs, err := blob.NewRepo(cfg.Library.AudioDir())
	if err != nil {
		return fmt.Errorf("init blob repo: %w", err)
	}
	if err := blobs.EnsureRoot(); err != nil {
		return err
	}

	// Durable slot for the association document.
	slot, err := state.Open(cfg.State.Backend, cfg.State.Path)
	if err != nil {
		return fmt.Errorf("init state slot: %w", err)
	}
	defer slot.Close()

	// Association store: hydrate once, migrating legacy data if present.
	store := clipstore.New(slot, blobs, logger)
	if err := store.Load(); err != nil {
		logger.Warn("initial load failed", slog.String("error", err.Error()))
	}

	// Photo source helper subprocess.
	source := photos.NewCLISource(cfg.Photos.Helper, cfg.Photos.Timeout())

	svc := clipservice.NewService(source, store, blobs, logger)

	if app.mcp {
		logger.Info("Starting MCP server on stdio")
		return mcpserver.New(svc).ServeStdio()
	}

	// SSE broker for live clip updates.
	broker := sse.NewBroker(15 * time.Second)
	defer broker.Close()
	store.OnChange(broker.PublishClipEvent)

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, http.HandlerFunc(broker.ServeHTTP))

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

	// Watch the audio directory for externally removed blobs.
	g.Go(func() error {
		err := blob.Watch(gCtx, blobs, logger, func(path string) {
			if clip, ok := store.Referenced(path); ok {
				broker.PublishClipEvent("missing", clip.PhotoID, clip.ID)
			}
		})
		if err != nil {
			logger.Warn("media watcher failed", slog.String("error", err.Error()))
		}
		return nil
	})

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
