package handler

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/angeloszaimis/places-proxy/internal/metrics"
	"github.com/angeloszaimis/places-proxy/internal/places"
	"github.com/angeloszaimis/places-proxy/pkg/logger"
)

const (
	SearchPath = "/search"

	msgMissingQuery  = "Missing q"
	msgMissingKey    = "Missing GOOGLE_PLACES_KEY in env"
	msgNotFound      = "Not found"
	msgUpstreamError = "Upstream request failed"

	maxRequestIDLength = 64
)

// PlacesAPI is the upstream the handler searches. *places.Client implements it.
type PlacesAPI interface {
	HasAPIKey() bool
	TextSearch(ctx context.Context, query string) (*places.TextSearchResponse, error)
	Details(ctx context.Context, placeID string) (*places.DetailsResponse, error)
}

// EventEmitter receives metrics events. *metrics.Collector implements it.
type EventEmitter interface {
	Emit(event metrics.MetricEvent)
}

type SearchHandler struct {
	logger            *slog.Logger
	places            PlacesAPI
	events            EventEmitter
	detailConcurrency int
}

// NewSearchHandler builds the handler. detailConcurrency below 1 means sequential
// detail fetches; events may be nil.
func NewSearchHandler(logger *slog.Logger, api PlacesAPI, events EventEmitter, detailConcurrency int) *SearchHandler {
	return &SearchHandler{
		logger:            logger,
		places:            api,
		events:            events,
		detailConcurrency: max(1, detailConcurrency),
	}
}

func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeCORS(w.Header())

	// Preflight: CORS headers and an empty 200, whatever the path.
	if r.Method == http.MethodOptions {
		return
	}

	if r.URL.Path != SearchPath {
		writeText(w, http.StatusNotFound, msgNotFound)
		return
	}

	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" || len(requestID) > maxRequestIDLength {
		requestID = uuid.NewString()
	}
	ctx, log := logger.WithRequestID(r.Context(), h.logger, requestID)

	log.Info("Received request",
		slog.String("from", extractClientIP(r)),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("user_agent", r.UserAgent()))

	h.emitEvent(metrics.MetricEvent{Type: metrics.EventSearchReceived})

	start := time.Now()
	wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
	results := h.search(wrapped, r.WithContext(ctx))
	duration := time.Since(start)

	h.emitEvent(metrics.MetricEvent{
		Type:       metrics.EventSearchCompleted,
		Duration:   duration,
		StatusCode: wrapped.statusCode,
		Results:    results,
	})

	log.Info("Search completed",
		slog.Int("status", wrapped.statusCode),
		slog.Int("results", results),
		slog.Duration("duration", duration))
}

// search writes the response and returns the number of result items sent.
func (h *SearchHandler) search(w http.ResponseWriter, r *http.Request) int {
	ctx := r.Context()
	log := logger.FromContext(ctx, h.logger)

	query := r.URL.Query()
	req := SearchRequest{
		Query: strings.TrimSpace(query.Get("q")),
		Limit: parseLimit(query.Get("limit")),
	}

	if req.Query == "" {
		writeText(w, http.StatusBadRequest, msgMissingQuery)
		return 0
	}

	if !h.places.HasAPIKey() {
		log.Error("Places API key is not configured")
		writeText(w, http.StatusInternalServerError, msgMissingKey)
		return 0
	}

	start := time.Now()
	ts, err := h.places.TextSearch(ctx, req.Query)
	if err != nil {
		h.observeUpstream(metrics.EndpointTextSearch, metrics.UpstreamStatusError, start)
		log.Warn("Text search failed", slog.Any("err", err))
		writeText(w, http.StatusBadGateway, msgUpstreamError)
		return 0
	}
	h.observeUpstream(metrics.EndpointTextSearch, ts.Status, start)

	if !ts.Succeeded() {
		log.Warn("Text search rejected by upstream",
			slog.String("status", ts.Status),
			slog.String("error_message", ts.ErrorMessage))
		writeRawJSON(w, http.StatusBadGateway, ts.Raw)
		return 0
	}

	candidates := ts.Results
	if len(candidates) > req.Limit {
		candidates = candidates[:req.Limit]
	}

	items := h.collect(ctx, candidates)

	body, err := marshalJSON(items)
	if err != nil {
		log.Error("Failed to encode results", slog.Any("err", err))
		writeText(w, http.StatusInternalServerError, err.Error())
		return 0
	}
	writeRawJSON(w, http.StatusOK, body)

	return len(items)
}

// collect fetches details for every candidate, at most detailConcurrency at a
// time, and returns the successful items in candidate order.
func (h *SearchHandler) collect(ctx context.Context, candidates []places.Candidate) []ResultItem {
	slots := make([]*ResultItem, len(candidates))

	// A plain Group: one failed fetch must not cancel the others.
	var g errgroup.Group
	g.SetLimit(h.detailConcurrency)

	for i, c := range candidates {
		if c.PlaceID == "" {
			h.drop(ctx, c, metrics.DropMissingPlaceID)
			continue
		}

		g.Go(func() error {
			slots[i] = h.fetchItem(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	items := make([]ResultItem, 0, len(candidates))
	for _, item := range slots {
		if item != nil {
			items = append(items, *item)
		}
	}
	return items
}

// fetchItem returns nil when the candidate has to be dropped.
func (h *SearchHandler) fetchItem(ctx context.Context, c places.Candidate) *ResultItem {
	start := time.Now()
	det, err := h.places.Details(ctx, c.PlaceID)
	if err != nil {
		h.observeUpstream(metrics.EndpointDetails, metrics.UpstreamStatusError, start)
		logger.FromContext(ctx, h.logger).Debug("Detail fetch failed",
			slog.String("place_id", c.PlaceID),
			slog.Any("err", err))
		h.drop(ctx, c, metrics.DropDetailError)
		return nil
	}
	h.observeUpstream(metrics.EndpointDetails, det.Status, start)

	if det.Status != places.StatusOK {
		h.drop(ctx, c, metrics.DropDetailStatus)
		return nil
	}

	item := newResultItem(c, det.Result)
	return &item
}

func (h *SearchHandler) drop(ctx context.Context, c places.Candidate, reason string) {
	logger.FromContext(ctx, h.logger).Debug("Dropping candidate",
		slog.String("place_id", c.PlaceID),
		slog.String("reason", reason))

	h.emitEvent(metrics.MetricEvent{
		Type:   metrics.EventCandidateDropped,
		Reason: reason,
	})
}

func (h *SearchHandler) observeUpstream(endpoint, status string, start time.Time) {
	h.emitEvent(metrics.MetricEvent{
		Type:           metrics.EventUpstreamCall,
		Endpoint:       endpoint,
		UpstreamStatus: status,
		Duration:       time.Since(start),
	})
}

func (h *SearchHandler) emitEvent(event metrics.MetricEvent) {
	if h.events == nil {
		return
	}
	h.events.Emit(event)
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
