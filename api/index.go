// Package api exposes the search proxy as a serverless function.
package api

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/angeloszaimis/places-proxy/config"
	"github.com/angeloszaimis/places-proxy/internal/handler"
	"github.com/angeloszaimis/places-proxy/internal/places"
	"github.com/angeloszaimis/places-proxy/pkg/logger"
)

var (
	initOnce       sync.Once
	defaultHandler http.Handler
)

func setup() {
	defaultHandler = newHandler()
}

// newHandler builds the search handler from the environment. An invalid
// configuration still yields a routable handler without an API key, so preflight
// and 404 answers keep working and /search reports the 500 itself.
func newHandler() http.Handler {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config, serving without an API key", slog.Any("err", err))
		client := places.New(places.Config{Logger: slog.Default()})
		return handler.NewSearchHandler(slog.Default(), client, nil, 1)
	}

	log := logger.New(cfg.Logging.Level, false, cfg.Server.Environment)
	client := places.New(places.Config{
		BaseURL:    cfg.Places.BaseURL,
		APIKey:     cfg.Places.APIKey,
		HTTPClient: &http.Client{Timeout: cfg.Places.TimeoutDuration()},
		Logger:     log,
	})

	// No collector: a function instance has no long-lived goroutine to drain it.
	return handler.NewSearchHandler(log, client, nil, cfg.Places.DetailConcurrency)
}

// Handler is the entry point for serverless Go runtimes.
func Handler(w http.ResponseWriter, r *http.Request) {
	initOnce.Do(setup)
	defaultHandler.ServeHTTP(w, r)
}
