// Package observability provides metrics and tracing instrumentation.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quadside_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quadside_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// EngagementEvents counts engagement mutations by content type and kind.
	EngagementEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quadside_engagement_events_total",
		Help: "Total number of engagement mutations by content type and interaction kind",
	}, []string{"content_type", "kind"})

	// ViewsRecorded counts recorded content views by content type.
	ViewsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quadside_views_recorded_total",
		Help: "Total number of content views recorded",
	}, []string{"content_type"})

	// ListingsCreated counts marketplace listings created.
	ListingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quadside_listings_created_total",
		Help: "Total number of marketplace listings created",
	})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// RecordEngagementEvent increments the engagement event counter.
func RecordEngagementEvent(contentType, kind string) {
	EngagementEvents.WithLabelValues(contentType, kind).Inc()
}
