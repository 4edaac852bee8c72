package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
)

// DBTX is an interface that abstracts pgxpool.Pool and pgx.Tx for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const uniqueViolation = "23505"

const videoColumns = `id, owner_id, title, description, video_file_url, video_file_id,
		thumbnail_url, thumbnail_id, duration, is_published, created_at, updated_at`

// VideoRepository implements repository.VideoRepository using PostgreSQL.
type VideoRepository struct {
	db DBTX
}

// NewVideoRepository creates a new VideoRepository instance.
func NewVideoRepository(db DBTX) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create persists a new video entity.
func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	const query = `
		INSERT INTO videos (id, owner_id, title, description, video_file_url, video_file_id,
			thumbnail_url, thumbnail_id, duration, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		video.ID,
		video.OwnerID,
		video.Title,
		video.Description,
		video.VideoFile.URL,
		video.VideoFile.ID,
		video.Thumbnail.URL,
		video.Thumbnail.ID,
		video.Duration,
		video.IsPublished,
		video.CreatedAt,
		video.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateVideo
		}
		return fmt.Errorf("failed to create video: %w", err)
	}

	return nil
}

// GetByID retrieves a video by its unique identifier.
func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`

	video, err := scanVideo(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video by ID: %w", err)
	}

	return video, nil
}

// Update applies the non-nil fields of patch in a single statement.
func (r *VideoRepository) Update(ctx context.Context, id uuid.UUID, patch model.VideoPatch) (*model.Video, error) {
	query := `
		UPDATE videos
		SET title = COALESCE($2, title),
			description = COALESCE($3, description),
			thumbnail_url = COALESCE($4, thumbnail_url),
			thumbnail_id = COALESCE($5, thumbnail_id),
			is_published = COALESCE($6, is_published),
			updated_at = $7
		WHERE id = $1
		RETURNING ` + videoColumns

	var thumbURL, thumbID *string
	if patch.Thumbnail != nil {
		thumbURL = &patch.Thumbnail.URL
		thumbID = &patch.Thumbnail.ID
	}

	video, err := scanVideo(r.db.QueryRow(ctx, query,
		id,
		patch.Title,
		patch.Description,
		thumbURL,
		thumbID,
		patch.IsPublished,
		time.Now(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrVideoNotFound
		}
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicateVideo
		}
		return nil, fmt.Errorf("failed to update video: %w", err)
	}

	return video, nil
}

// Delete removes the video row.
func (r *VideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM videos WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrVideoNotFound
	}

	return nil
}

var sortColumns = map[model.VideoSortField]string{
	model.SortByCreatedAt: "created_at",
	model.SortByTitle:     "title",
	model.SortByDuration:  "duration",
}

// Search lists an owner's videos whose title contains filter.Query.
func (r *VideoRepository) Search(ctx context.Context, filter repository.VideoSearchFilter, page model.PageRequest) (*model.Page[*model.Video], error) {
	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	op := "ILIKE"
	if filter.CaseSensitive {
		op = "LIKE"
	}
	where := `WHERE owner_id = $1 AND title ` + op + ` $2 ESCAPE '\'`
	pattern := "%" + escapeLike(filter.Query) + "%"

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM videos `+where, filter.OwnerID, pattern).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count videos: %w", err)
	}
	if total == 0 {
		return model.NewPage[*model.Video](nil, 0, page), nil
	}

	query := `SELECT ` + videoColumns + ` FROM videos ` + where +
		` ORDER BY ` + column + ` ` + direction + `, id ` + direction + ` LIMIT $3 OFFSET $4`

	rows, err := r.db.Query(ctx, query, filter.OwnerID, pattern, page.PageSize, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to search videos: %w", err)
	}
	defer rows.Close()

	videos := make([]*model.Video, 0, page.PageSize)
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}

	return model.NewPage(videos, total, page), nil
}

// scanVideo scans a single row into a Video model. pgx.Rows satisfies pgx.Row.
func scanVideo(row pgx.Row) (*model.Video, error) {
	var video model.Video

	err := row.Scan(
		&video.ID,
		&video.OwnerID,
		&video.Title,
		&video.Description,
		&video.VideoFile.URL,
		&video.VideoFile.ID,
		&video.Thumbnail.URL,
		&video.Thumbnail.ID,
		&video.Duration,
		&video.IsPublished,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &video, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Compile-time verification that VideoRepository implements repository.VideoRepository.
var _ repository.VideoRepository = (*VideoRepository)(nil)
