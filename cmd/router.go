package main

import (
	"io"
	"net/http"

	"github.com/angeloszaimis/places-proxy/internal/metrics"
)

// setupAdminRouter serves operational endpoints on their own listener so the
// public handler keeps answering 404 for every path but /search.
func setupAdminRouter(metricsCollector *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/metrics", metricsCollector.PrometheusHandler())
	mux.HandleFunc("/stats", metricsCollector.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})

	return mux
}
