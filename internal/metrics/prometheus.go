package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

type promCollectors struct {
	registry         *prometheus.Registry
	searches         *prometheus.CounterVec
	searchDuration   prometheus.Histogram
	upstreamCalls    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	dropped          *prometheus.CounterVec
	results          prometheus.Counter
}

// newPromCollectors registers on a private registry so that several collectors
// (one per test, for instance) never collide on the global one.
func newPromCollectors() *promCollectors {
	p := &promCollectors{
		registry: prometheus.NewRegistry(),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "places_proxy_searches_total",
			Help: "Completed search requests by HTTP status",
		}, []string{"status"}),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "places_proxy_search_duration_seconds",
			Help:    "Duration of search requests in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "places_proxy_upstream_calls_total",
			Help: "Calls to the Places API by endpoint and upstream status",
		}, []string{"endpoint", "upstream_status"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "places_proxy_upstream_duration_seconds",
			Help:    "Duration of Places API calls in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "places_proxy_candidates_dropped_total",
			Help: "Text search candidates left out of the response",
		}, []string{"reason"}),
		results: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "places_proxy_results_returned_total",
			Help: "Result items returned to callers",
		}),
	}

	p.registry.MustRegister(
		p.searches,
		p.searchDuration,
		p.upstreamCalls,
		p.upstreamDuration,
		p.dropped,
		p.results,
	)

	return p
}

func (p *promCollectors) observe(event MetricEvent) {
	switch event.Type {
	case EventUpstreamCall:
		p.upstreamCalls.WithLabelValues(event.Endpoint, event.UpstreamStatus).Inc()
		p.upstreamDuration.WithLabelValues(event.Endpoint).Observe(event.Duration.Seconds())

	case EventCandidateDropped:
		p.dropped.WithLabelValues(event.Reason).Inc()

	case EventSearchCompleted:
		p.searches.WithLabelValues(strconv.Itoa(event.StatusCode)).Inc()
		p.searchDuration.Observe(event.Duration.Seconds())
		p.results.Add(float64(event.Results))
	}
}
