package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/hszk-dev/gotube/internal/apperrors"
	"github.com/hszk-dev/gotube/internal/domain/model"
)

// CommentService defines the interface for comment operations.
type CommentService interface {
	// AddComment creates a comment on an existing video.
	AddComment(ctx context.Context, videoID, principal uuid.UUID, content string) (*model.Comment, error)

	// UpdateComment replaces the content of a comment owned by principal.
	UpdateComment(ctx context.Context, commentID, principal uuid.UUID, content string) (*model.Comment, error)

	// DeleteComment deletes a comment owned by principal and the likes on it.
	DeleteComment(ctx context.Context, commentID, principal uuid.UUID) (*CascadeReport, error)

	// ListVideoComments returns one page of comments, newest first, enriched
	// with owner profile, like count and whether viewer liked each comment.
	ListVideoComments(ctx context.Context, videoID, viewer uuid.UUID, page model.PageRequest) (*model.Page[*model.CommentView], error)
}

type commentService struct {
	stores  Stores
	cascade *CascadeEngine
}

// NewCommentService creates a new CommentService instance.
func NewCommentService(stores Stores, cascade *CascadeEngine) CommentService {
	return &commentService{
		stores:  stores,
		cascade: cascade,
	}
}

func (s *commentService) AddComment(ctx context.Context, videoID, principal uuid.UUID, content string) (*model.Comment, error) {
	comment, err := model.NewComment(videoID, principal, content)
	if err != nil {
		return nil, invalid(err)
	}

	if _, err := s.stores.Videos.GetByID(ctx, videoID); err != nil {
		return nil, classify(err, "failed to load video")
	}

	if err := s.stores.Comments.Create(ctx, comment); err != nil {
		return nil, classify(err, "failed to create comment")
	}
	return comment, nil
}

func (s *commentService) UpdateComment(ctx context.Context, commentID, principal uuid.UUID, content string) (*model.Comment, error) {
	if err := model.ValidateContent(content); err != nil {
		return nil, invalid(err)
	}
	if commentID == uuid.Nil {
		return nil, apperrors.InvalidArgument("comment ID cannot be nil")
	}

	current, err := s.stores.Comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, classify(err, "failed to load comment")
	}
	if !model.IsOwnedBy(current, principal) {
		return nil, apperrors.Forbidden("only the owner can update this comment")
	}

	updated, err := s.stores.Comments.UpdateContent(ctx, commentID, content)
	if err != nil {
		return nil, classify(err, "failed to update comment")
	}
	return updated, nil
}

func (s *commentService) DeleteComment(ctx context.Context, commentID, principal uuid.UUID) (*CascadeReport, error) {
	return s.cascade.DeleteComment(ctx, commentID, principal)
}

// ListVideoComments validates the request before any store access.
func (s *commentService) ListVideoComments(ctx context.Context, videoID, viewer uuid.UUID, page model.PageRequest) (*model.Page[*model.CommentView], error) {
	if videoID == uuid.Nil {
		return nil, invalid(model.ErrInvalidVideoID)
	}
	if err := page.Validate(); err != nil {
		return nil, invalid(err)
	}

	if _, err := s.stores.Videos.GetByID(ctx, videoID); err != nil {
		return nil, classify(err, "failed to load video")
	}

	result, err := s.stores.Comments.ListByVideo(ctx, videoID, viewer, page)
	if err != nil {
		return nil, classify(err, "failed to list comments")
	}
	return result, nil
}
