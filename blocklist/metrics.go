package blocklist

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var pagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "earmuffs_pages_fetched_total",
	Help: "Number of paginated query pages fetched, by endpoint",
}, []string{"endpoint"})

var fetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "earmuffs_fetch_errors_total",
	Help: "Number of failed paginated fetches, by endpoint",
}, []string{"endpoint"})

var mutationsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "earmuffs_mutations_total",
	Help: "Number of list mutations attempted, by operation and outcome",
}, []string{"op", "status"})

var targetSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "earmuffs_list_target_size",
	Help: "Size of the resolved target set, by list",
}, []string{"list"})

var listSyncs = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "earmuffs_list_syncs_total",
	Help: "Number of list sync attempts, by final status",
}, []string{"status"})

var listSyncDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "earmuffs_list_sync_duration_seconds",
	Help:    "Time to resolve and reconcile a single list",
	Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
}, []string{"status"})
