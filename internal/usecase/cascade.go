package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hszk-dev/gotube/internal/apperrors"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
	"github.com/hszk-dev/gotube/internal/infrastructure/metrics"
)

// DefaultCascadeConcurrency is used when a non-positive concurrency is configured.
const DefaultCascadeConcurrency = 4

// CascadeStep names one unit of work performed while deleting an entity.
type CascadeStep string

const (
	StepAssets       CascadeStep = "assets"
	StepRecord       CascadeStep = "record"
	StepCommentIDs   CascadeStep = "comment_ids"
	StepVideoLikes   CascadeStep = "video_likes"
	StepCommentLikes CascadeStep = "comment_likes"
	StepComments     CascadeStep = "comments"
	StepPlaylists    CascadeStep = "playlists"
	StepWatchHistory CascadeStep = "watch_history"
)

// StepFailure records a cascade step that did not complete.
type StepFailure struct {
	Step CascadeStep
	Err  error
}

// CascadeReport summarizes what a delete removed. Failures after the primary
// record is gone are collected here instead of being returned.
type CascadeReport struct {
	EntityID uuid.UUID

	AssetsFailed          int
	LikesRemoved          int64
	CommentLikesRemoved   int64
	CommentsRemoved       int64
	PlaylistsUpdated      int
	WatchHistoriesUpdated int

	Skipped  []CascadeStep
	Failures []StepFailure

	mu sync.Mutex
}

// Complete reports whether every step ran and succeeded.
func (r *CascadeReport) Complete() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Failures) == 0 && len(r.Skipped) == 0
}

// Err joins every step failure, or returns nil.
func (r *CascadeReport) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, fmt.Errorf("%s: %w", f.Step, f.Err))
	}
	return errors.Join(errs...)
}

func (r *CascadeReport) fail(step CascadeStep, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failures = append(r.Failures, StepFailure{Step: step, Err: err})
}

func (r *CascadeReport) skip(step CascadeStep) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Skipped = append(r.Skipped, step)
}

func (r *CascadeReport) update(fn func(r *CascadeReport)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r)
}

// CascadeEngine deletes videos and comments together with everything that
// references them. Each store call is atomic; the cascade as a whole is not.
type CascadeEngine struct {
	stores      Stores
	janitor     *AssetJanitor
	concurrency int
}

// NewCascadeEngine creates a CascadeEngine.
func NewCascadeEngine(stores Stores, janitor *AssetJanitor, concurrency int) *CascadeEngine {
	if concurrency <= 0 {
		concurrency = DefaultCascadeConcurrency
	}
	return &CascadeEngine{
		stores:      stores,
		janitor:     janitor,
		concurrency: concurrency,
	}
}

// DeleteVideo removes the video owned by principal along with its assets,
// likes, comments, likes on those comments, playlist entries and watch
// history entries.
func (e *CascadeEngine) DeleteVideo(ctx context.Context, videoID, principal uuid.UUID) (*CascadeReport, error) {
	if videoID == uuid.Nil {
		return nil, invalid(model.ErrInvalidVideoID)
	}

	video, err := e.stores.Videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, classify(err, "failed to load video")
	}
	if !model.IsOwnedBy(video, principal) {
		return nil, apperrors.Forbidden("only the owner can delete this video")
	}

	report := &CascadeReport{EntityID: videoID}

	if failed := e.janitor.Release(ctx, ReasonVideoDeleted, video.AssetIDs()...); failed > 0 {
		e.fail(report, metrics.EntityVideo, StepAssets, fmt.Errorf("%d asset deletes failed", failed))
		report.update(func(r *CascadeReport) { r.AssetsFailed = failed })
	} else {
		recordStep(metrics.EntityVideo, StepAssets, metrics.StatusSuccess)
	}

	if err := e.stores.Videos.Delete(ctx, videoID); err != nil {
		recordStep(metrics.EntityVideo, StepRecord, metrics.StatusError)
		return nil, classify(err, "failed to delete video")
	}
	recordStep(metrics.EntityVideo, StepRecord, metrics.StatusSuccess)

	// The record is gone; dependents are cleaned up even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	g := new(errgroup.Group)
	g.SetLimit(e.concurrency)

	g.Go(func() error {
		n, err := e.stores.Likes.DeleteByTarget(ctx, model.VideoTarget(videoID))
		if err != nil {
			e.fail(report, metrics.EntityVideo, StepVideoLikes, err)
			return nil
		}
		report.update(func(r *CascadeReport) { r.LikesRemoved = n })
		recordStep(metrics.EntityVideo, StepVideoLikes, metrics.StatusSuccess)
		return nil
	})

	g.Go(func() error {
		e.deleteVideoComments(ctx, videoID, report)
		return nil
	})

	g.Go(func() error {
		e.pullFromPlaylists(ctx, videoID, report)
		return nil
	})

	g.Go(func() error {
		e.pullFromWatchHistories(ctx, videoID, report)
		return nil
	})

	_ = g.Wait()

	if err := report.Err(); err != nil {
		slog.Warn("video cascade incomplete",
			"video_id", videoID,
			"skipped", report.Skipped,
			"error", err,
		)
	} else {
		slog.Info("video deleted", "video_id", videoID)
	}

	return report, nil
}

// deleteVideoComments captures the comment ids first so that likes on those
// comments can still be found after the comments are removed.
func (e *CascadeEngine) deleteVideoComments(ctx context.Context, videoID uuid.UUID, report *CascadeReport) {
	commentIDs, err := e.stores.Comments.ListIDsByVideo(ctx, videoID)
	if err != nil {
		e.fail(report, metrics.EntityVideo, StepCommentIDs, err)
		e.skip(report, metrics.EntityVideo, StepCommentLikes)
		e.skip(report, metrics.EntityVideo, StepComments)
		return
	}
	recordStep(metrics.EntityVideo, StepCommentIDs, metrics.StatusSuccess)

	if len(commentIDs) > 0 {
		n, err := e.stores.Likes.DeleteByCommentIDs(ctx, commentIDs)
		if err != nil {
			e.fail(report, metrics.EntityVideo, StepCommentLikes, err)
		} else {
			report.update(func(r *CascadeReport) { r.CommentLikesRemoved = n })
			recordStep(metrics.EntityVideo, StepCommentLikes, metrics.StatusSuccess)
		}
	} else {
		recordStep(metrics.EntityVideo, StepCommentLikes, metrics.StatusSuccess)
	}

	n, err := e.stores.Comments.DeleteByVideo(ctx, videoID)
	if err != nil {
		e.fail(report, metrics.EntityVideo, StepComments, err)
		return
	}
	report.update(func(r *CascadeReport) { r.CommentsRemoved = n })
	recordStep(metrics.EntityVideo, StepComments, metrics.StatusSuccess)
}

func (e *CascadeEngine) pullFromPlaylists(ctx context.Context, videoID uuid.UUID, report *CascadeReport) {
	playlistIDs, err := e.stores.Playlists.FindIDsContainingVideo(ctx, videoID)
	if err != nil {
		e.fail(report, metrics.EntityVideo, StepPlaylists, err)
		return
	}

	updated, err := e.fanOut(ctx, playlistIDs, func(ctx context.Context, playlistID uuid.UUID) error {
		err := e.stores.Playlists.PullVideo(ctx, playlistID, videoID)
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			return nil
		}
		return err
	})
	report.update(func(r *CascadeReport) { r.PlaylistsUpdated = updated })
	if err != nil {
		e.fail(report, metrics.EntityVideo, StepPlaylists, err)
		return
	}
	recordStep(metrics.EntityVideo, StepPlaylists, metrics.StatusSuccess)
}

func (e *CascadeEngine) pullFromWatchHistories(ctx context.Context, videoID uuid.UUID, report *CascadeReport) {
	userIDs, err := e.stores.Users.FindIDsWithWatchedVideo(ctx, videoID)
	if err != nil {
		e.fail(report, metrics.EntityVideo, StepWatchHistory, err)
		return
	}

	updated, err := e.fanOut(ctx, userIDs, func(ctx context.Context, userID uuid.UUID) error {
		err := e.stores.Users.PullWatchHistory(ctx, userID, videoID)
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return err
	})
	report.update(func(r *CascadeReport) { r.WatchHistoriesUpdated = updated })
	if err != nil {
		e.fail(report, metrics.EntityVideo, StepWatchHistory, err)
		return
	}
	recordStep(metrics.EntityVideo, StepWatchHistory, metrics.StatusSuccess)
}

// fanOut applies fn to every id with bounded concurrency. Every id is
// attempted; the returned error joins the individual failures.
func (e *CascadeEngine) fanOut(ctx context.Context, ids []uuid.UUID, fn func(context.Context, uuid.UUID) error) (int, error) {
	var (
		mu        sync.Mutex
		succeeded int
		errs      []error
	)

	g := new(errgroup.Group)
	g.SetLimit(e.concurrency)
	for _, id := range ids {
		g.Go(func() error {
			err := fn(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", id, err))
				return nil
			}
			succeeded++
			return nil
		})
	}
	_ = g.Wait()

	return succeeded, errors.Join(errs...)
}

// DeleteComment removes the comment owned by principal and the likes on it.
func (e *CascadeEngine) DeleteComment(ctx context.Context, commentID, principal uuid.UUID) (*CascadeReport, error) {
	if commentID == uuid.Nil {
		return nil, apperrors.InvalidArgument("comment ID cannot be nil")
	}

	comment, err := e.stores.Comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, classify(err, "failed to load comment")
	}
	if !model.IsOwnedBy(comment, principal) {
		return nil, apperrors.Forbidden("only the owner can delete this comment")
	}

	if err := e.stores.Comments.Delete(ctx, commentID); err != nil {
		recordStep(metrics.EntityComment, StepRecord, metrics.StatusError)
		return nil, classify(err, "failed to delete comment")
	}
	recordStep(metrics.EntityComment, StepRecord, metrics.StatusSuccess)

	report := &CascadeReport{EntityID: commentID}

	n, err := e.stores.Likes.DeleteByTarget(context.WithoutCancel(ctx), model.CommentTarget(commentID))
	if err != nil {
		e.fail(report, metrics.EntityComment, StepCommentLikes, err)
		slog.Warn("comment cascade incomplete",
			"comment_id", commentID,
			"error", err,
		)
		return report, nil
	}
	report.LikesRemoved = n
	recordStep(metrics.EntityComment, StepCommentLikes, metrics.StatusSuccess)

	return report, nil
}

func (e *CascadeEngine) fail(report *CascadeReport, entity string, step CascadeStep, err error) {
	report.fail(step, err)
	recordStep(entity, step, metrics.StatusError)
}

func (e *CascadeEngine) skip(report *CascadeReport, entity string, step CascadeStep) {
	report.skip(step)
	recordStep(entity, step, metrics.StatusSkipped)
}

func recordStep(entity string, step CascadeStep, status string) {
	metrics.CascadeStepsTotal.WithLabelValues(entity, string(step), status).Inc()
}
