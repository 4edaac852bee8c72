// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gotube"

var (
	// CascadeStepsTotal tracks the outcome of each cascade step.
	// Labels:
	//   - entity: video, comment
	//   - step: assets, record, comment_ids, video_likes, comment_likes, comments, playlists, watch_history
	//   - status: success, error, skipped
	CascadeStepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cascade_steps_total",
			Help:      "Total number of cascade steps by outcome",
		},
		[]string{"entity", "step", "status"},
	)

	// AssetOperationsTotal tracks media store calls made on behalf of domain operations.
	// Labels:
	//   - operation: store, delete, enqueue
	//   - status: success, missing, error
	AssetOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asset_operations_total",
			Help:      "Total number of media asset operations",
		},
		[]string{"operation", "status"},
	)

	// CacheOperationsTotal tracks cache operations (get, set, delete).
	// Labels:
	//   - operation: get, set, delete
	//   - status: hit, miss, success, error
	//   - cache_type: redis
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of cache operations",
		},
		[]string{"operation", "status", "cache_type"},
	)

	// DBQueriesTotal tracks database queries issued behind the cache.
	// Labels:
	//   - query_type: select, update, delete
	//   - table: videos
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_queries_total",
			Help:      "Total number of database queries",
		},
		[]string{"query_type", "table"},
	)

	// CleanupDeliveriesTotal tracks how the worker settles asset cleanup deliveries.
	// Labels:
	//   - outcome: acked, retried, rejected
	CleanupDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asset_cleanup_deliveries_total",
			Help:      "Total number of asset cleanup deliveries by outcome",
		},
		[]string{"outcome"},
	)

	// SingleflightRequestsTotal tracks singleflight behavior.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)
)

// Cascade entity constants.
const (
	EntityVideo   = "video"
	EntityComment = "comment"
)

// Step status constants shared by cascade and asset metrics.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"
	StatusMissing = "missing"
)

// Asset operation constants.
const (
	AssetOpStore   = "store"
	AssetOpDelete  = "delete"
	AssetOpEnqueue = "enqueue"
)

// Cache operation status constants.
const (
	CacheStatusHit       = "hit"
	CacheStatusMiss      = "miss"
	CacheStatusTombstone = "tombstone"
	CacheStatusSuccess   = "success"
	CacheStatusError     = "error"
)

// Cleanup delivery outcome constants.
const (
	DeliveryAcked    = "acked"
	DeliveryRetried  = "retried"
	DeliveryRejected = "rejected"
)

// Cache operation type constants.
const (
	CacheOpGet        = "get"
	CacheOpSet        = "set"
	CacheOpDelete     = "delete"
	CacheOpMarkDelete = "mark_deleted"
)

// Cache type constants.
const (
	CacheTypeRedis = "redis"
)

// DB query type constants.
const (
	DBQuerySelect = "select"
	DBQueryUpdate = "update"
	DBQueryDelete = "delete"
)

// Table name constants.
const (
	TableVideos = "videos"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)
