package usecase

import (
	"context"
	"log/slog"

	"github.com/hszk-dev/gotube/internal/domain/repository"
	"github.com/hszk-dev/gotube/internal/infrastructure/metrics"
)

// Asset release reasons, recorded on deferred cleanup tasks.
const (
	ReasonVideoDeleted      = "video_deleted"
	ReasonThumbnailReplaced = "thumbnail_replaced"
	ReasonCompensation      = "compensation"
)

// AssetJanitor deletes media assets on a best-effort basis. A failed delete
// never fails the caller; it is logged and, when a queue is configured,
// handed to the cleanup worker for a later retry.
type AssetJanitor struct {
	media repository.MediaStore
	queue repository.AssetCleanupQueue
}

// NewAssetJanitor creates an AssetJanitor. queue may be nil, in which case
// failed deletes are only logged.
func NewAssetJanitor(media repository.MediaStore, queue repository.AssetCleanupQueue) *AssetJanitor {
	return &AssetJanitor{media: media, queue: queue}
}

// Release deletes every non-empty asset id and returns how many deletes failed.
func (j *AssetJanitor) Release(ctx context.Context, reason string, assetIDs ...string) int {
	// Compensation must still run when the request context has been cancelled.
	ctx = context.WithoutCancel(ctx)

	failed := 0
	for _, id := range assetIDs {
		if id == "" {
			continue
		}
		if !j.release(ctx, reason, id) {
			failed++
		}
	}
	return failed
}

func (j *AssetJanitor) release(ctx context.Context, reason, assetID string) bool {
	deleted, err := j.media.Delete(ctx, assetID)
	if err != nil {
		metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpDelete, metrics.StatusError).Inc()
		slog.Warn("failed to delete asset",
			"asset_id", assetID,
			"reason", reason,
			"error", err,
		)
		j.enqueueRetry(ctx, reason, assetID)
		return false
	}

	if !deleted {
		metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpDelete, metrics.StatusMissing).Inc()
		slog.Info("asset already absent", "asset_id", assetID, "reason", reason)
		return true
	}

	metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpDelete, metrics.StatusSuccess).Inc()
	return true
}

func (j *AssetJanitor) enqueueRetry(ctx context.Context, reason, assetID string) {
	if j.queue == nil {
		return
	}

	task := repository.AssetCleanupTask{AssetID: assetID, Reason: reason}
	if err := j.queue.PublishAssetCleanup(ctx, task); err != nil {
		metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpEnqueue, metrics.StatusError).Inc()
		slog.Error("failed to enqueue asset cleanup, asset is orphaned",
			"asset_id", assetID,
			"error", err,
		)
		return
	}
	metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpEnqueue, metrics.StatusSuccess).Inc()
}
