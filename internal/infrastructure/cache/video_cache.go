package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
)

// ErrDeleted is returned by VideoCache.Get for a video marked as deleted.
var ErrDeleted = errors.New("video marked as deleted")

// VideoCache defines the interface for caching video metadata.
// Implementations should handle serialization/deserialization transparently.
type VideoCache interface {
	// Get retrieves a video from cache by ID.
	// Returns nil, nil if the video is not found in cache (cache miss) and
	// nil, ErrDeleted while a deletion marker for the ID is live, even if an
	// entry was written after the marker.
	Get(ctx context.Context, videoID uuid.UUID) (*model.Video, error)

	// Set stores a video in cache with the specified TTL.
	Set(ctx context.Context, video *model.Video, ttl time.Duration) error

	// Delete removes a video from cache by ID.
	// Returns nil if the video was not in cache.
	Delete(ctx context.Context, videoID uuid.UUID) error

	// MarkDeleted drops the cached entry and records a deletion marker that
	// outlives any entry a concurrent read may still write.
	MarkDeleted(ctx context.Context, videoID uuid.UUID, ttl time.Duration) error
}
