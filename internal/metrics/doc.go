// Package metrics provides metrics collection for the search proxy.
//
// It uses a channel-based event pipeline to asynchronously collect:
//   - search counts and response status codes
//   - Places API call counts, upstream statuses and latency percentiles per endpoint
//   - candidates dropped from a response, by reason
//
// The collector runs in a dedicated goroutine and processes events without blocking
// the request path. Emit never blocks; events are dropped when the buffer is full.
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	collector.Emit(metrics.MetricEvent{
//		Type:           metrics.EventUpstreamCall,
//		Endpoint:       metrics.EndpointDetails,
//		UpstreamStatus: "OK",
//		Duration:       150 * time.Millisecond,
//	})
//
//	snapshot := collector.Snapshot()
//
// Every event also feeds a private Prometheus registry, served by PrometheusHandler.
// Remaining events are drained on shutdown.
package metrics
