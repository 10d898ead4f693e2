package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/Pledge/internal/allocation"
	"github.com/MikeSquared-Agency/Pledge/internal/api"
	"github.com/MikeSquared-Agency/Pledge/internal/catalog"
	"github.com/MikeSquared-Agency/Pledge/internal/config"
	"github.com/MikeSquared-Agency/Pledge/internal/hermes"
	"github.com/MikeSquared-Agency/Pledge/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog source
	var source catalog.Source
	switch cfg.Catalog.Source {
	case config.CatalogFile:
		source = catalog.NewFileSource(cfg.Catalog.Path)
	case config.CatalogHTTP:
		source = catalog.NewHTTPSource(cfg.Catalog.URL, cfg.Catalog.Token)
	case config.CatalogPostgres:
		db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		logger.Info("connected to database")
		source = store.NewCatalogSource(db)
	default:
		source = catalog.Builtin{}
	}

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	registry := catalog.NewRegistry(source, logger)
	registry.OnReload(func(cats []allocation.Category) {
		api.ObserveCatalog(cats)
		if hermesClient == nil {
			return
		}
		ids := make([]string, len(cats))
		for i, c := range cats {
			ids[i] = c.ID
		}
		ev := hermes.CatalogReloadedEvent{CategoryIDs: ids, Timestamp: time.Now().UTC()}
		if err := hermesClient.Publish(ctx, hermes.SubjectCatalogReloaded, "", ev); err != nil {
			logger.Warn("failed to publish catalog reload", "error", err)
		}
	})
	if _, err := registry.Reload(ctx); err != nil {
		logger.Error("failed to load catalog", "source", cfg.Catalog.Source, "error", err)
		os.Exit(1)
	}
	if hermesClient != nil {
		if err := catalog.Watch(ctx, hermesClient, hermes.SubjectCatalogChanged, registry, logger); err != nil {
			logger.Warn("failed to watch catalog changes", "error", err)
		}
	}

	allocator := allocation.NewAllocator(cfg.Weights(), logger)

	// API server
	router := api.NewRouter(registry, allocator, hermesClient, cfg, logger)
	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler:           api.NewMetricsRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
