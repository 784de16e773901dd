package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"appforms/internal/platform/config"
	"appforms/internal/platform/httpserver"
	"appforms/internal/platform/logger"
	platformmetrics "appforms/internal/platform/metrics"
	"appforms/internal/platform/middleware"
	"appforms/internal/templates"
	"appforms/internal/templates/converter"
	"appforms/internal/templates/handler"
	templatemetrics "appforms/internal/templates/metrics"
	"appforms/pkg/platform/httputil"
	"appforms/pkg/platform/middleware/metadata"
	"appforms/pkg/platform/middleware/requesttime"
)

const shutdownTimeout = 10 * time.Second

// main wires the template service behind the HTTP router and keeps the
// server lifecycle small. Conversion logic lives in internal/templates.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "appforms: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := converter.Default().WithLimits(converter.Limits{
		MaxDepth: cfg.Templates.MaxDepth,
		MaxNodes: cfg.Templates.MaxNodes,
	})
	parser := templates.NewParser(registry, log)
	catalog := templates.NewCatalog()
	service := templates.NewService(parser, catalog,
		templates.WithLogger(log),
		templates.WithMetrics(templatemetrics.New()),
		templates.WithLoader(templates.NewLoader(parser, log), cfg.Templates.Paths...),
	)

	if err := service.Reload(ctx); err != nil {
		return fmt.Errorf("initial template load: %w", err)
	}

	if cfg.Templates.Watch && len(cfg.Templates.Paths) > 0 {
		watcher, err := templates.NewWatcher(cfg.Templates.Paths, service.Reload, log, templates.DefaultDebounce)
		if err != nil {
			return err
		}
		watcher.Start(ctx)
		defer watcher.Stop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.AccessLog(log, platformmetrics.New()))

	handler.New(service, log).Register(r)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"templates": catalog.Len(),
		})
	})

	srv := httpserver.New(cfg.Server.Addr, r)
	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting appforms", zap.String("addr", cfg.Server.Addr), zap.Int("templates", catalog.Len()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
