package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/angeloszaimis/places-proxy/config"
	"github.com/angeloszaimis/places-proxy/internal/handler"
	"github.com/angeloszaimis/places-proxy/internal/httpserver"
	"github.com/angeloszaimis/places-proxy/internal/metrics"
	"github.com/angeloszaimis/places-proxy/internal/places"
	"github.com/angeloszaimis/places-proxy/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Server.Environment != config.EnvProd, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Places.APIKey == "" {
		log.Warn("GOOGLE_PLACES_KEY is not set, searches will fail with 500")
	}

	collector := metrics.NewCollector(cfg.Metrics.BufferSize, log)
	collector.Start(ctx)

	searchHandler := newSearchHandler(cfg, log, collector)

	servers, err := buildServers(cfg, searchHandler, collector)
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	srvErrCh := make(chan error, len(servers))
	for _, srv := range servers {
		log.Info("Listening", slog.String("addr", srv.Addr()))
		go func() {
			srvErrCh <- srv.Start()
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Server stopped unexpectedly", slog.Any("err", err))
		}
	}

	for _, srv := range servers {
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	}
}

func newSearchHandler(cfg *config.Config, log *slog.Logger, events handler.EventEmitter) *handler.SearchHandler {
	client := places.New(places.Config{
		BaseURL:    cfg.Places.BaseURL,
		APIKey:     cfg.Places.APIKey,
		HTTPClient: &http.Client{Timeout: cfg.Places.TimeoutDuration()},
		Logger:     log,
	})

	return handler.NewSearchHandler(log, client, events, cfg.Places.DetailConcurrency)
}

// buildServers returns the public server and, when metrics.address is set, the
// admin server.
func buildServers(cfg *config.Config, searchHandler http.Handler, collector *metrics.Collector) ([]*httpserver.Server, error) {
	public, err := httpserver.New(cfg.Server.Address, searchHandler)
	if err != nil {
		return nil, err
	}
	servers := []*httpserver.Server{public}

	if cfg.Metrics.Address != "" {
		admin, err := httpserver.New(cfg.Metrics.Address, setupAdminRouter(collector))
		if err != nil {
			return nil, err
		}
		servers = append(servers, admin)
	}

	return servers, nil
}
