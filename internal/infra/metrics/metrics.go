package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "The total number of listing requests sent upstream",
		},
		[]string{"source", "status"},
	)

	UpstreamFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_fetch_duration_seconds",
			Help:    "Duration of upstream listing requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	ImagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "images_fetched_total",
			Help: "The total number of image records received from upstream",
		},
		[]string{"source"},
	)

	PageLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_page_loads_total",
			Help: "Page loads applied to gallery state, by outcome",
		},
		[]string{"status"},
	)

	StaleResponsesDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_stale_responses_total",
			Help: "Fetch results dropped because a newer page was requested",
		},
	)

	FetchesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_fetches_in_flight",
			Help: "Number of page fetches currently running",
		},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_active_sessions",
			Help: "Number of gallery sessions held in memory",
		},
	)

	SessionsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_sessions_evicted_total",
			Help: "Sessions removed after being idle past the TTL",
		},
	)
)
