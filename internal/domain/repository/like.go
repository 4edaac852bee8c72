package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
)

// LikeRepository persists likes on videos and comments.
type LikeRepository interface {
	// Create returns ErrDuplicateLike if likedBy already likes the target.
	Create(ctx context.Context, like *model.Like) error

	// Delete removes likedBy's like on target and reports whether one existed.
	Delete(ctx context.Context, likedBy uuid.UUID, target model.Target) (bool, error)

	// DeleteByTarget removes every like on target.
	DeleteByTarget(ctx context.Context, target model.Target) (int64, error)

	// DeleteByCommentIDs removes every like on any of the comments.
	DeleteByCommentIDs(ctx context.Context, commentIDs []uuid.UUID) (int64, error)
}
