package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	const query = `
		INSERT INTO users (id, username, avatar_url, watch_history)
		VALUES ($1, $2, $3, $4)
	`

	history := u.WatchHistory
	if history == nil {
		history = []uuid.UUID{}
	}

	if _, err := r.db.Exec(ctx, query, u.ID, u.Username, u.AvatarURL, history); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) FindIDsWithWatchedVideo(ctx context.Context, videoID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM users WHERE $1 = ANY(watch_history)`, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query users by watched video: %w", err)
	}
	return collectIDs(rows)
}

func (r *UserRepository) PullWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error {
	const query = `UPDATE users SET watch_history = array_remove(watch_history, $2) WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, userID, videoID)
	if err != nil {
		return fmt.Errorf("failed to pull video from watch history: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

// AddToWatchHistory appends videoID only when it is not already present.
func (r *UserRepository) AddToWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error {
	const query = `
		UPDATE users
		SET watch_history = CASE
			WHEN $2 = ANY(watch_history) THEN watch_history
			ELSE array_append(watch_history, $2)
		END
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, userID, videoID)
	if err != nil {
		return fmt.Errorf("failed to add video to watch history: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var history []uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT watch_history FROM users WHERE id = $1`, userID).Scan(&history)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get watch history: %w", err)
	}
	return history, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
