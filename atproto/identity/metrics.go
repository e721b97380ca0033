package identity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var handleResolution = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "earmuffs_identity_resolve_handle",
	Help: "Handle resolutions, by resolver and status",
}, []string{"resolver", "status"})

var handleResolutionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "earmuffs_identity_resolve_handle_duration",
	Help:    "Time to resolve a handle",
	Buckets: prometheus.ExponentialBucketsRange(0.001, 10, 15),
}, []string{"resolver", "status"})

var handleCacheHits = promauto.NewCounter(prometheus.CounterOpts{
	Name: "earmuffs_identity_handle_cache_hits",
	Help: "Number of cache hits for handle resolution",
})

var handleCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
	Name: "earmuffs_identity_handle_cache_misses",
	Help: "Number of cache misses for handle resolution",
})

var handleRequestsCoalesced = promauto.NewCounter(prometheus.CounterOpts{
	Name: "earmuffs_identity_handle_requests_coalesced",
	Help: "Number of handle requests coalesced",
})
