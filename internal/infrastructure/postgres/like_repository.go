package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
)

// LikeRepository implements repository.LikeRepository using PostgreSQL.
// A like row sets exactly one of video_id and comment_id.
type LikeRepository struct {
	db DBTX
}

func NewLikeRepository(db DBTX) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) Create(ctx context.Context, like *model.Like) error {
	const query = `
		INSERT INTO likes (id, liked_by, video_id, comment_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	var videoID, commentID *uuid.UUID
	switch like.Target.Kind {
	case model.TargetVideo:
		videoID = &like.Target.ID
	case model.TargetComment:
		commentID = &like.Target.ID
	default:
		return model.ErrInvalidTarget
	}

	_, err := r.db.Exec(ctx, query, like.ID, like.LikedBy, videoID, commentID, like.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateLike
		}
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

func (r *LikeRepository) Delete(ctx context.Context, likedBy uuid.UUID, target model.Target) (bool, error) {
	column, err := targetColumn(target.Kind)
	if err != nil {
		return false, err
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM likes WHERE liked_by = $1 AND `+column+` = $2`, likedBy, target.ID)
	if err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *LikeRepository) DeleteByTarget(ctx context.Context, target model.Target) (int64, error) {
	column, err := targetColumn(target.Kind)
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM likes WHERE `+column+` = $1`, target.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete likes of %s: %w", target.Kind, err)
	}
	return tag.RowsAffected(), nil
}

func (r *LikeRepository) DeleteByCommentIDs(ctx context.Context, commentIDs []uuid.UUID) (int64, error) {
	if len(commentIDs) == 0 {
		return 0, nil
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM likes WHERE comment_id = ANY($1)`, commentIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to delete likes of comments: %w", err)
	}
	return tag.RowsAffected(), nil
}

func targetColumn(kind model.TargetKind) (string, error) {
	switch kind {
	case model.TargetVideo:
		return "video_id", nil
	case model.TargetComment:
		return "comment_id", nil
	default:
		return "", model.ErrInvalidTarget
	}
}

var _ repository.LikeRepository = (*LikeRepository)(nil)
