package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
)

// LikeService defines the interface for like operations.
type LikeService interface {
	// ToggleLike removes principal's like on target if present and adds one
	// otherwise. It returns whether target is liked afterwards.
	ToggleLike(ctx context.Context, principal uuid.UUID, target model.Target) (bool, error)
}

type likeService struct {
	stores Stores
}

// NewLikeService creates a new LikeService instance.
func NewLikeService(stores Stores) LikeService {
	return &likeService{stores: stores}
}

func (s *likeService) ToggleLike(ctx context.Context, principal uuid.UUID, target model.Target) (bool, error) {
	if principal == uuid.Nil {
		return false, invalid(model.ErrInvalidLikedBy)
	}
	if err := target.Validate(); err != nil {
		return false, invalid(err)
	}

	if err := s.ensureTargetExists(ctx, target); err != nil {
		return false, err
	}

	removed, err := s.stores.Likes.Delete(ctx, principal, target)
	if err != nil {
		return false, classify(err, "failed to remove like")
	}
	if removed {
		return false, nil
	}

	like, err := model.NewLike(principal, target)
	if err != nil {
		return false, invalid(err)
	}
	if err := s.stores.Likes.Create(ctx, like); err != nil {
		// A concurrent toggle created the same like first.
		if errors.Is(err, repository.ErrDuplicateLike) {
			return true, nil
		}
		return false, classify(err, "failed to create like")
	}
	return true, nil
}

func (s *likeService) ensureTargetExists(ctx context.Context, target model.Target) error {
	var err error
	switch target.Kind {
	case model.TargetVideo:
		_, err = s.stores.Videos.GetByID(ctx, target.ID)
	case model.TargetComment:
		_, err = s.stores.Comments.GetByID(ctx, target.ID)
	}
	if err != nil {
		return classify(err, "failed to load like target")
	}
	return nil
}
