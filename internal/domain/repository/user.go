package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
)

// UserRepository exposes the parts of the user record owned by this service.
// Accounts themselves are created by the identity service.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// FindIDsWithWatchedVideo returns users whose watch history contains videoID.
	FindIDsWithWatchedVideo(ctx context.Context, videoID uuid.UUID) ([]uuid.UUID, error)

	// PullWatchHistory removes videoID from the user's watch history.
	PullWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error

	// AddToWatchHistory appends videoID unless already present.
	// Returns ErrUserNotFound if the user does not exist.
	AddToWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error

	GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
