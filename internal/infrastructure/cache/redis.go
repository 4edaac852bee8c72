package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/infrastructure/metrics"
)

const (
	// videoCacheKeyPrefix is the prefix for video cache keys in Redis.
	videoCacheKeyPrefix = "gotube:video:"

	// deletedKeyPrefix marks ids whose rows are gone.
	deletedKeyPrefix = "gotube:video-deleted:"
)

type assetJSON struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

// videoJSON is the JSON representation of a Video for caching.
// Using explicit struct avoids coupling to domain model's JSON tags.
type videoJSON struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   assetJSON `json:"video_file"`
	Thumbnail   assetJSON `json:"thumbnail"`
	Duration    float64   `json:"duration"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// RedisVideoCache implements VideoCache using Redis as the backing store.
type RedisVideoCache struct {
	client redis.UniversalClient
}

// NewRedisVideoCache creates a new Redis-backed video cache.
func NewRedisVideoCache(client redis.UniversalClient) *RedisVideoCache {
	return &RedisVideoCache{
		client: client,
	}
}

// Get retrieves a video from Redis cache.
// Returns nil, nil on cache miss and nil, ErrDeleted when the id carries a
// deletion marker. Both keys are read in one round trip.
func (c *RedisVideoCache) Get(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	vals, err := c.client.MGet(ctx, buildKey(videoID), buildDeletedKey(videoID)).Result()
	if err != nil {
		record(metrics.CacheOpGet, metrics.CacheStatusError)
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	if vals[1] != nil {
		record(metrics.CacheOpGet, metrics.CacheStatusTombstone)
		return nil, ErrDeleted
	}

	raw, ok := vals[0].(string)
	if !ok {
		record(metrics.CacheOpGet, metrics.CacheStatusMiss)
		return nil, nil
	}

	video, err := deserialize([]byte(raw))
	if err != nil {
		record(metrics.CacheOpGet, metrics.CacheStatusError)
		return nil, fmt.Errorf("deserialize video: %w", err)
	}

	record(metrics.CacheOpGet, metrics.CacheStatusHit)
	return video, nil
}

// Set stores a video in Redis cache with the specified TTL.
func (c *RedisVideoCache) Set(ctx context.Context, video *model.Video, ttl time.Duration) error {
	data, err := serialize(video)
	if err != nil {
		return fmt.Errorf("serialize video: %w", err)
	}

	if err := c.client.Set(ctx, buildKey(video.ID), data, ttl).Err(); err != nil {
		record(metrics.CacheOpSet, metrics.CacheStatusError)
		return fmt.Errorf("redis set: %w", err)
	}

	record(metrics.CacheOpSet, metrics.CacheStatusSuccess)
	return nil
}

// Delete removes a video from Redis cache.
func (c *RedisVideoCache) Delete(ctx context.Context, videoID uuid.UUID) error {
	if err := c.client.Del(ctx, buildKey(videoID)).Err(); err != nil {
		record(metrics.CacheOpDelete, metrics.CacheStatusError)
		return fmt.Errorf("redis del: %w", err)
	}

	record(metrics.CacheOpDelete, metrics.CacheStatusSuccess)
	return nil
}

// MarkDeleted removes the cached entry and sets the deletion marker atomically.
func (c *RedisVideoCache) MarkDeleted(ctx context.Context, videoID uuid.UUID, ttl time.Duration) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, buildKey(videoID))
		pipe.Set(ctx, buildDeletedKey(videoID), 1, ttl)
		return nil
	})
	if err != nil {
		record(metrics.CacheOpMarkDelete, metrics.CacheStatusError)
		return fmt.Errorf("redis mark deleted: %w", err)
	}

	record(metrics.CacheOpMarkDelete, metrics.CacheStatusSuccess)
	return nil
}

// Ping verifies the Redis connection is alive.
func (c *RedisVideoCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func record(op, status string) {
	metrics.CacheOperationsTotal.WithLabelValues(op, status, metrics.CacheTypeRedis).Inc()
}

// buildKey constructs the Redis key for a video.
func buildKey(videoID uuid.UUID) string {
	return videoCacheKeyPrefix + videoID.String()
}

func buildDeletedKey(videoID uuid.UUID) string {
	return deletedKeyPrefix + videoID.String()
}

// serialize converts a Video to JSON bytes.
func serialize(video *model.Video) ([]byte, error) {
	v := videoJSON{
		ID:          video.ID.String(),
		OwnerID:     video.OwnerID.String(),
		Title:       video.Title,
		Description: video.Description,
		VideoFile:   assetJSON{URL: video.VideoFile.URL, ID: video.VideoFile.ID},
		Thumbnail:   assetJSON{URL: video.Thumbnail.URL, ID: video.Thumbnail.ID},
		Duration:    video.Duration,
		IsPublished: video.IsPublished,
		CreatedAt:   video.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:   video.UpdatedAt.Format(time.RFC3339Nano),
	}
	return json.Marshal(v)
}

// deserialize converts JSON bytes to a Video.
func deserialize(data []byte) (*model.Video, error) {
	var v videoJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(v.ID)
	if err != nil {
		return nil, fmt.Errorf("parse video ID: %w", err)
	}

	ownerID, err := uuid.Parse(v.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("parse owner ID: %w", err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	updatedAt, err := time.Parse(time.RFC3339Nano, v.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &model.Video{
		ID:          id,
		OwnerID:     ownerID,
		Title:       v.Title,
		Description: v.Description,
		VideoFile:   model.Asset{URL: v.VideoFile.URL, ID: v.VideoFile.ID},
		Thumbnail:   model.Asset{URL: v.Thumbnail.URL, ID: v.Thumbnail.ID},
		Duration:    v.Duration,
		IsPublished: v.IsPublished,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}
