package metrics

import (
	"context"
	"log/slog"
	"time"
)

type EventType string

const (
	EventSearchReceived   EventType = "search_received"
	EventUpstreamCall     EventType = "upstream_call"
	EventCandidateDropped EventType = "candidate_dropped"
	EventSearchCompleted  EventType = "search_completed"
)

// Upstream endpoints.
const (
	EndpointTextSearch = "textsearch"
	EndpointDetails    = "details"
)

// UpstreamStatusError marks an upstream call that produced no usable status.
const UpstreamStatusError = "ERROR"

// Drop reasons.
const (
	DropMissingPlaceID = "missing_place_id"
	DropDetailStatus   = "detail_status"
	DropDetailError    = "detail_error"
)

type MetricEvent struct {
	Type           EventType
	Timestamp      time.Time
	Endpoint       string
	UpstreamStatus string
	Reason         string
	Duration       time.Duration
	StatusCode     int
	Results        int
}

type Collector struct {
	eventCh    chan MetricEvent
	metrics    *Metrics
	prometheus *promCollectors
	logger     *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh:    make(chan MetricEvent, bufferSize),
		metrics:    NewMetrics(),
		prometheus: newPromCollectors(),
		logger:     logger,
	}
}

// Emit queues an event without blocking. Events are dropped when the buffer is full.
func (c *Collector) Emit(event MetricEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case c.eventCh <- event:
	default:
		c.logger.Debug("Metrics buffer full, dropping event", slog.String("type", string(event.Type)))
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event MetricEvent) {
	switch event.Type {
	case EventSearchReceived:
		c.metrics.IncrementSearches()

	case EventUpstreamCall:
		c.metrics.RecordUpstreamCall(event.Endpoint, event.UpstreamStatus, event.Duration)

	case EventCandidateDropped:
		c.metrics.RecordDrop(event.Reason)

	case EventSearchCompleted:
		c.metrics.RecordCompletion(event.StatusCode, event.Results)
	}

	c.prometheus.observe(event)
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot() Snapshot {
	return c.metrics.Snapshot()
}
