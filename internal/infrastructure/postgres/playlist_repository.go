package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
)

// PlaylistRepository implements repository.PlaylistRepository using PostgreSQL.
type PlaylistRepository struct {
	db DBTX
}

func NewPlaylistRepository(db DBTX) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

func (r *PlaylistRepository) Create(ctx context.Context, p *model.Playlist) error {
	const query = `
		INSERT INTO playlists (id, owner_id, name, description, video_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	videoIDs := p.VideoIDs
	if videoIDs == nil {
		videoIDs = []uuid.UUID{}
	}

	_, err := r.db.Exec(ctx, query, p.ID, p.OwnerID, p.Name, p.Description, videoIDs, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}
	return nil
}

func (r *PlaylistRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Playlist, error) {
	const query = `
		SELECT id, owner_id, name, description, video_ids, created_at, updated_at
		FROM playlists
		WHERE id = $1
	`

	var p model.Playlist
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.VideoIDs, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrPlaylistNotFound
		}
		return nil, fmt.Errorf("failed to get playlist by ID: %w", err)
	}
	return &p, nil
}

func (r *PlaylistRepository) FindIDsContainingVideo(ctx context.Context, videoID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM playlists WHERE $1 = ANY(video_ids)`, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists by video: %w", err)
	}
	return collectIDs(rows)
}

// PullVideo removes every occurrence of videoID; array_remove is a no-op when absent.
func (r *PlaylistRepository) PullVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	const query = `
		UPDATE playlists
		SET video_ids = array_remove(video_ids, $2), updated_at = $3
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, playlistID, videoID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to pull video from playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrPlaylistNotFound
	}
	return nil
}

var _ repository.PlaylistRepository = (*PlaylistRepository)(nil)
