package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Directory metrics
	CatalogFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arb_catalog_fetches_total",
			Help: "Total number of secondary catalog network fetches",
		},
		[]string{"status"},
	)

	CatalogPoolCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arb_catalog_pool_count",
		Help: "Number of pools in the cached secondary catalog",
	})

	DirectoryCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arb_directory_cache_hits_total",
		Help: "Total number of per-token combined-fetch cache hits",
	})

	DirectoryCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arb_directory_cache_misses_total",
		Help: "Total number of per-token combined-fetch cache misses",
	})

	// Scan metrics
	ScanRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arb_scan_requests_total",
			Help: "Total number of arbitrage scans",
		},
		[]string{"status"},
	)

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arb_scan_duration_seconds",
		Help:    "Arbitrage scan duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	OpportunitiesFound = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arb_opportunities_found_total",
		Help: "Total number of qualifying target pools across all scans",
	})

	// Plan metrics
	PlansViable = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arb_plans_viable_total",
		Help: "Total number of execution plans that cleared the profitability gate",
	})

	PlansDiscarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arb_plans_discarded_total",
			Help: "Total number of plans discarded, by reason",
		},
		[]string{"reason"},
	)

	// Fee oracle metrics
	FeeLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arb_fee_lookups_total",
			Help: "Total number of fee oracle lookups, by outcome",
		},
		[]string{"outcome"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arb_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arb_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
