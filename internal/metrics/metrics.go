// Package metrics defines the Prometheus collectors exported by the
// media player.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_player_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_player_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_player_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Catalog metrics
var (
	CatalogEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_player_catalog_entries",
			Help: "Number of entries currently in the catalog",
		},
	)

	CatalogPersistTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_player_catalog_persist_total",
			Help: "Total catalog snapshot writes",
		},
		[]string{"status"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_player_uploads_total",
			Help: "Total uploaded media files by kind",
		},
		[]string{"kind"},
	)

	UploadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_player_upload_bytes_total",
			Help: "Total bytes of uploaded media",
		},
	)
)

// Snapshot store metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_player_db_queries_total",
			Help: "Total number of snapshot store queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_player_db_query_duration_seconds",
			Help:    "Snapshot store query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)
)

// Offline cache metrics
var (
	OfflineCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_player_offline_cache_total",
			Help: "Total offline cache attempts by result",
		},
		[]string{"status"}, // "success", "error", "dropped"
	)

	OfflineCacheBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_player_offline_cache_bytes_total",
			Help: "Total bytes written to the offline cache",
		},
	)

	OfflineCacheQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_player_offline_cache_queue_depth",
			Help: "Entries waiting in the offline cache queue",
		},
	)
)

// Playback metrics
var (
	PlaybackStarts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_player_playback_starts_total",
			Help: "Total playback starts by kind",
		},
		[]string{"kind"},
	)
)

// Filesystem metrics
var (
	FileRetryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_player_file_retry_total",
			Help: "File operation retries for transient errors by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
)
