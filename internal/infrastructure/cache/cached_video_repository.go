package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
	"github.com/hszk-dev/gotube/internal/infrastructure/metrics"
)

// DefaultTTL is used when a non-positive TTL is configured.
const DefaultTTL = 5 * time.Minute

// CachedVideoRepository wraps a VideoRepository with cache-aside reads.
// Writes go to the delegate first and then invalidate the cached entry, so a
// failed invalidation can at worst serve a stale video until the TTL expires.
// Deletes leave a marker for twice the TTL; a read that raced the delete may
// still write its entry, but the marker hides it until both expire.
type CachedVideoRepository struct {
	delegate repository.VideoRepository
	cache    VideoCache
	sfGroup  singleflight.Group
	ttl      time.Duration
}

var _ repository.VideoRepository = (*CachedVideoRepository)(nil)

// NewCachedVideoRepository creates a new CachedVideoRepository wrapping delegate.
func NewCachedVideoRepository(delegate repository.VideoRepository, videoCache VideoCache, ttl time.Duration) *CachedVideoRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedVideoRepository{
		delegate: delegate,
		cache:    videoCache,
		ttl:      ttl,
	}
}

// Create delegates to the underlying repository.
// The new video is cached lazily on first read.
func (r *CachedVideoRepository) Create(ctx context.Context, video *model.Video) error {
	return r.delegate.Create(ctx, video)
}

// GetByID uses singleflight to prevent cache stampede on concurrent requests for the same video.
func (r *CachedVideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	result, err, shared := r.sfGroup.Do(id.String(), func() (any, error) {
		return r.getWithCache(ctx, id)
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		return nil, err
	}

	// Callers may mutate the result; never hand out the shared pointer.
	video := *result.(*model.Video)
	return &video, nil
}

func (r *CachedVideoRepository) getWithCache(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	video, err := r.cache.Get(ctx, id)
	switch {
	case errors.Is(err, ErrDeleted):
		return nil, repository.ErrVideoNotFound
	case err != nil:
		slog.Warn("cache get failed, falling back to database",
			"video_id", id,
			"error", err,
		)
	}

	if video != nil {
		return video, nil
	}

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableVideos).Inc()
	video, err = r.delegate.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, video, r.ttl); err != nil {
		slog.Warn("failed to cache video",
			"video_id", id,
			"error", err,
		)
	}

	return video, nil
}

// Update writes through the delegate and invalidates the cached entry.
func (r *CachedVideoRepository) Update(ctx context.Context, id uuid.UUID, patch model.VideoPatch) (*model.Video, error) {
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryUpdate, metrics.TableVideos).Inc()
	video, err := r.delegate.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, id)
	return video, nil
}

// Delete removes the video and marks it deleted in the cache. The marker is
// written even when the delegate reports not-found; any other delegate error
// leaves the row in doubt, so the entry is only invalidated.
func (r *CachedVideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryDelete, metrics.TableVideos).Inc()
	err := r.delegate.Delete(ctx, id)

	// New readers must not join a flight that read the row before it was deleted.
	r.sfGroup.Forget(id.String())

	if err != nil && !errors.Is(err, repository.ErrVideoNotFound) {
		r.invalidate(ctx, id)
		return err
	}

	if markErr := r.cache.MarkDeleted(ctx, id, 2*r.ttl); markErr != nil {
		slog.Warn("failed to mark cached video deleted",
			"video_id", id,
			"error", markErr,
		)
	}
	return err
}

// Search is not cached; listings change with every write to the owner's videos.
func (r *CachedVideoRepository) Search(ctx context.Context, filter repository.VideoSearchFilter, page model.PageRequest) (*model.Page[*model.Video], error) {
	return r.delegate.Search(ctx, filter, page)
}

func (r *CachedVideoRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if err := r.cache.Delete(ctx, id); err != nil {
		slog.Warn("failed to invalidate cached video",
			"video_id", id,
			"error", err,
		)
	}
}
