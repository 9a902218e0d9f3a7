package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chorus_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chorus_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// FeedRequests counts feed assemblies by kind (global, following, author).
	FeedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chorus_feed_requests_total",
		Help: "Total number of feed pages assembled",
	}, []string{"kind"})

	// EnrichmentLatency records how long one enrichment batch takes.
	EnrichmentLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chorus_enrichment_latency_seconds",
		Help:    "Latency of post enrichment batches in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// EnrichmentBatchSize records the number of posts per enrichment batch.
	EnrichmentBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chorus_enrichment_batch_size",
		Help:    "Number of posts enriched per batch",
		Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
	})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// TrackEnrichment records batch size now and latency when the returned func runs.
func TrackEnrichment(batchSize int) func() {
	start := time.Now()
	EnrichmentBatchSize.Observe(float64(batchSize))
	return func() {
		EnrichmentLatency.Observe(time.Since(start).Seconds())
	}
}
