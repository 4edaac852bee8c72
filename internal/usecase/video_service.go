package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hszk-dev/gotube/internal/apperrors"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
	"github.com/hszk-dev/gotube/internal/infrastructure/metrics"
)

// PublishVideoInput contains the input parameters for publishing a video.
// The paths point at local files that have already been received.
type PublishVideoInput struct {
	OwnerID       uuid.UUID
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
}

// UpdateVideoInput contains a partial update. Nil strings and an empty
// ThumbnailPath leave the corresponding field untouched.
type UpdateVideoInput struct {
	VideoID       uuid.UUID
	Principal     uuid.UUID
	Title         *string
	Description   *string
	ThumbnailPath string
}

// SearchVideosInput selects one page of an owner's videos.
type SearchVideosInput struct {
	OwnerID  uuid.UUID
	Query    string
	SortBy   string
	SortType string
	Page     int
	PageSize int
}

// VideoService defines the interface for video business logic operations.
type VideoService interface {
	// PublishVideo stores both files and creates the video record.
	PublishVideo(ctx context.Context, input PublishVideoInput) (*model.Video, error)

	// GetVideo retrieves a video and records it in the viewer's watch history.
	// viewer may be uuid.Nil for anonymous reads.
	GetVideo(ctx context.Context, videoID, viewer uuid.UUID) (*model.Video, error)

	// UpdateVideo applies a partial update on behalf of the owner.
	UpdateVideo(ctx context.Context, input UpdateVideoInput) (*model.Video, error)

	// TogglePublishStatus flips isPublished on behalf of the owner.
	TogglePublishStatus(ctx context.Context, videoID, principal uuid.UUID) (*model.Video, error)

	// DeleteVideo deletes the video and everything referencing it.
	DeleteVideo(ctx context.Context, videoID, principal uuid.UUID) (*CascadeReport, error)

	// SearchVideos lists one owner's videos filtered by title.
	SearchVideos(ctx context.Context, input SearchVideosInput) (*model.Page[*model.Video], error)
}

// VideoServiceConfig holds configuration for VideoService.
type VideoServiceConfig struct {
	SearchCaseSensitive bool
}

// DefaultVideoServiceConfig returns the default configuration.
func DefaultVideoServiceConfig() VideoServiceConfig {
	return VideoServiceConfig{
		SearchCaseSensitive: true,
	}
}

type videoService struct {
	stores  Stores
	media   repository.MediaStore
	janitor *AssetJanitor
	cascade *CascadeEngine

	searchCaseSensitive bool
}

// NewVideoService creates a new VideoService instance.
func NewVideoService(
	stores Stores,
	media repository.MediaStore,
	janitor *AssetJanitor,
	cascade *CascadeEngine,
	cfg VideoServiceConfig,
) VideoService {
	return &videoService{
		stores:              stores,
		media:               media,
		janitor:             janitor,
		cascade:             cascade,
		searchCaseSensitive: cfg.SearchCaseSensitive,
	}
}

// PublishVideo validates the input, stores the video file and the thumbnail
// and creates the record. Assets stored before a failure are released.
func (s *videoService) PublishVideo(ctx context.Context, input PublishVideoInput) (*model.Video, error) {
	if input.OwnerID == uuid.Nil {
		return nil, invalid(model.ErrInvalidOwnerID)
	}
	fields := model.VideoPatch{Title: &input.Title, Description: &input.Description}
	if err := fields.Validate(); err != nil {
		return nil, invalid(err)
	}
	if input.VideoPath == "" || input.ThumbnailPath == "" {
		return nil, invalid(model.ErrMissingAsset)
	}

	file, err := s.store(ctx, input.VideoPath)
	if err != nil {
		return nil, apperrors.Upstream(err, "failed to store video file")
	}

	thumbnail, err := s.store(ctx, input.ThumbnailPath)
	if err != nil {
		s.janitor.Release(ctx, ReasonCompensation, file.AssetID)
		return nil, apperrors.Upstream(err, "failed to store thumbnail")
	}

	video, err := model.NewVideo(
		input.OwnerID,
		input.Title,
		input.Description,
		model.Asset{URL: file.URL, ID: file.AssetID},
		model.Asset{URL: thumbnail.URL, ID: thumbnail.AssetID},
		file.Duration,
	)
	if err != nil {
		s.janitor.Release(ctx, ReasonCompensation, file.AssetID, thumbnail.AssetID)
		return nil, classify(err, "failed to build video")
	}

	if err := s.stores.Videos.Create(ctx, video); err != nil {
		s.janitor.Release(ctx, ReasonCompensation, file.AssetID, thumbnail.AssetID)
		return nil, classify(err, "failed to create video")
	}

	slog.Info("video published", "video_id", video.ID, "owner_id", video.OwnerID)
	return video, nil
}

// GetVideo retrieves a video. Failing to record the view is logged only.
func (s *videoService) GetVideo(ctx context.Context, videoID, viewer uuid.UUID) (*model.Video, error) {
	if videoID == uuid.Nil {
		return nil, invalid(model.ErrInvalidVideoID)
	}

	video, err := s.stores.Videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, classify(err, "failed to load video")
	}

	if viewer != uuid.Nil {
		if err := s.stores.Users.AddToWatchHistory(ctx, viewer, videoID); err != nil {
			slog.Warn("failed to record watch history",
				"video_id", videoID,
				"user_id", viewer,
				"error", err,
			)
		}
	}

	return video, nil
}

// UpdateVideo stores the new thumbnail before the ownership check. Every
// failure after that point releases it again.
func (s *videoService) UpdateVideo(ctx context.Context, input UpdateVideoInput) (*model.Video, error) {
	if input.VideoID == uuid.Nil {
		return nil, invalid(model.ErrInvalidVideoID)
	}
	if input.Title == nil && input.Description == nil && input.ThumbnailPath == "" {
		return nil, invalid(model.ErrEmptyVideoPatch)
	}
	patch := model.VideoPatch{Title: input.Title, Description: input.Description}
	if err := patch.Validate(); err != nil {
		return nil, invalid(err)
	}

	var newThumbnail string
	if input.ThumbnailPath != "" {
		stored, err := s.store(ctx, input.ThumbnailPath)
		if err != nil {
			return nil, apperrors.Upstream(err, "failed to store thumbnail")
		}
		newThumbnail = stored.AssetID
		patch.Thumbnail = &model.Asset{URL: stored.URL, ID: stored.AssetID}
	}

	current, err := s.stores.Videos.GetByID(ctx, input.VideoID)
	if err != nil {
		s.janitor.Release(ctx, ReasonCompensation, newThumbnail)
		return nil, classify(err, "failed to load video")
	}
	if !model.IsOwnedBy(current, input.Principal) {
		s.janitor.Release(ctx, ReasonCompensation, newThumbnail)
		return nil, apperrors.Forbidden("only the owner can update this video")
	}

	updated, err := s.stores.Videos.Update(ctx, input.VideoID, patch)
	if err != nil {
		s.janitor.Release(ctx, ReasonCompensation, newThumbnail)
		return nil, classify(err, "failed to update video")
	}

	if newThumbnail != "" && current.Thumbnail.ID != newThumbnail {
		s.janitor.Release(ctx, ReasonThumbnailReplaced, current.Thumbnail.ID)
	}

	return updated, nil
}

// TogglePublishStatus is a read-modify-write without compare-and-swap; two
// concurrent toggles may both observe the same snapshot.
func (s *videoService) TogglePublishStatus(ctx context.Context, videoID, principal uuid.UUID) (*model.Video, error) {
	if videoID == uuid.Nil {
		return nil, invalid(model.ErrInvalidVideoID)
	}

	current, err := s.stores.Videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, classify(err, "failed to load video")
	}
	if !model.IsOwnedBy(current, principal) {
		return nil, apperrors.Forbidden("only the owner can change the publish status")
	}

	published := !current.IsPublished
	updated, err := s.stores.Videos.Update(ctx, videoID, model.VideoPatch{IsPublished: &published})
	if err != nil {
		return nil, classify(err, "failed to update publish status")
	}
	return updated, nil
}

func (s *videoService) DeleteVideo(ctx context.Context, videoID, principal uuid.UUID) (*CascadeReport, error) {
	return s.cascade.DeleteVideo(ctx, videoID, principal)
}

// SearchVideos validates every argument before touching the store.
func (s *videoService) SearchVideos(ctx context.Context, input SearchVideosInput) (*model.Page[*model.Video], error) {
	page := model.PageRequest{Page: input.Page, PageSize: input.PageSize}
	if err := page.Validate(); err != nil {
		return nil, invalid(err)
	}
	if input.OwnerID == uuid.Nil {
		return nil, invalid(model.ErrInvalidOwnerID)
	}
	sortBy, err := model.ParseVideoSortField(input.SortBy)
	if err != nil {
		return nil, invalid(err)
	}
	desc, err := model.ParseSortDirection(input.SortType)
	if err != nil {
		return nil, invalid(err)
	}

	exists, err := s.stores.Users.Exists(ctx, input.OwnerID)
	if err != nil {
		return nil, classify(err, "failed to look up owner")
	}
	if !exists {
		return nil, apperrors.NotFound("user not found")
	}

	result, err := s.stores.Videos.Search(ctx, repository.VideoSearchFilter{
		OwnerID:       input.OwnerID,
		Query:         input.Query,
		CaseSensitive: s.searchCaseSensitive,
		SortBy:        sortBy,
		SortDesc:      desc,
	}, page)
	if err != nil {
		return nil, classify(err, "failed to search videos")
	}
	return result, nil
}

func (s *videoService) store(ctx context.Context, path string) (*repository.StoredAsset, error) {
	asset, err := s.media.Store(ctx, path)
	if err != nil {
		metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpStore, metrics.StatusError).Inc()
		return nil, err
	}
	metrics.AssetOperationsTotal.WithLabelValues(metrics.AssetOpStore, metrics.StatusSuccess).Inc()
	return asset, nil
}
