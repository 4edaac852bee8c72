package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
)

// PlaylistRepository persists playlists. Only the operations needed to keep
// playlists consistent with video deletion are exposed.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *model.Playlist) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Playlist, error)

	// FindIDsContainingVideo returns the ids of playlists referencing videoID.
	FindIDsContainingVideo(ctx context.Context, videoID uuid.UUID) ([]uuid.UUID, error)

	// PullVideo removes every occurrence of videoID from the playlist.
	PullVideo(ctx context.Context, playlistID, videoID uuid.UUID) error
}
