package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hszk-dev/gotube/internal/domain/repository"
	"github.com/hszk-dev/gotube/internal/infrastructure/metrics"
)

const (
	// DefaultMaxRetries is the default maximum number of retry attempts before giving up on an asset.
	DefaultMaxRetries = 3
)

// AssetCleanupServiceConfig holds configuration for AssetCleanupService.
type AssetCleanupServiceConfig struct {
	// MaxRetries is the maximum number of retry attempts before the asset is abandoned.
	MaxRetries int
}

// DefaultAssetCleanupServiceConfig returns the default configuration.
func DefaultAssetCleanupServiceConfig() AssetCleanupServiceConfig {
	return AssetCleanupServiceConfig{
		MaxRetries: DefaultMaxRetries,
	}
}

// AssetCleanupService defines the interface for deferred asset deletion.
type AssetCleanupService interface {
	// ProcessTask handles a cleanup task from the message queue.
	// Returns nil on success or once the retry budget is spent, an error
	// wrapping repository.ErrInvalidCleanupTask for a task that can never
	// succeed, and any other error for transient failures.
	ProcessTask(ctx context.Context, task repository.AssetCleanupTask) error
}

type assetCleanupService struct {
	media      repository.MediaStore
	maxRetries int
}

// NewAssetCleanupService creates a new AssetCleanupService instance.
func NewAssetCleanupService(media repository.MediaStore, cfg AssetCleanupServiceConfig) AssetCleanupService {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	return &assetCleanupService{
		media:      media,
		maxRetries: cfg.MaxRetries,
	}
}

func (s *assetCleanupService) ProcessTask(ctx context.Context, task repository.AssetCleanupTask) error {
	if err := task.Validate(); err != nil {
		return err
	}

	// Check if max retries exceeded - give up and return nil (ack the message)
	if task.RetryCount >= s.maxRetries {
		slog.Error("abandoning asset cleanup, asset is orphaned",
			"asset_id", task.AssetID,
			"reason", task.Reason,
			"retry_count", task.RetryCount,
			"last_error", task.LastError,
		)
		return nil
	}

	deleted, err := s.media.Delete(ctx, task.AssetID)
	if err != nil {
		metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpDelete, metrics.StatusError).Inc()
		return fmt.Errorf("delete asset %s: %w", task.AssetID, err)
	}

	status := metrics.StatusSuccess
	if !deleted {
		status = metrics.StatusMissing
	}
	metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpDelete, status).Inc()
	return nil
}
