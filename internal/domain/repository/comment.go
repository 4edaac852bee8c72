package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
)

// CommentRepository persists comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error

	// GetByID returns ErrCommentNotFound if the comment does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)

	// UpdateContent replaces the content and returns the stored comment.
	UpdateContent(ctx context.Context, id uuid.UUID, content string) (*model.Comment, error)

	// Delete returns ErrCommentNotFound if nothing was deleted.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListIDsByVideo returns the ids of every comment on the video.
	ListIDsByVideo(ctx context.Context, videoID uuid.UUID) ([]uuid.UUID, error)

	// DeleteByVideo removes every comment on the video and returns how many were removed.
	DeleteByVideo(ctx context.Context, videoID uuid.UUID) (int64, error)

	// ListByVideo returns comments newest first, enriched for viewer.
	// viewer may be uuid.Nil, in which case IsLiked is always false.
	ListByVideo(ctx context.Context, videoID, viewer uuid.UUID, page model.PageRequest) (*model.Page[*model.CommentView], error)
}
