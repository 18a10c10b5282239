package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Donations
	DonationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donations_total",
			Help: "Total accepted donations",
		},
		[]string{"method"}, // card|paypal_redirect|stripe_redirect|virtual
	)
	DonationsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donations_failed_total",
			Help: "Total rejected donations",
		},
		[]string{"reason"}, // validation|processor|storage
	)
	DonationsAmount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "donations_amount_total",
			Help: "Sum of accepted donation amounts",
		},
	)

	// Storage
	StorageConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "storage_connected",
			Help: "1 while the database is the authoritative store, 0 while serving from memory",
		},
	)
	StorageFallbackWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_fallback_writes_total",
			Help: "Writes kept in memory only during a database outage",
		},
		[]string{"op"},
	)

	// Worker queue
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)

	initOnce sync.Once
)

// handler for the /metrics endpoint
var Handler = promhttp.Handler

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			RequestLatency,
			DonationsTotal,
			DonationsFailed,
			DonationsAmount,
			StorageConnected,
			StorageFallbackWrites,
			WorkerQueueDepth,
		)
	})
}
