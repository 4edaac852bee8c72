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

// CommentRepository implements repository.CommentRepository using PostgreSQL.
type CommentRepository struct {
	db DBTX
}

func NewCommentRepository(db DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	const query = `
		INSERT INTO comments (id, video_id, owner_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		comment.ID,
		comment.VideoID,
		comment.OwnerID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	const query = `
		SELECT id, video_id, owner_id, content, created_at, updated_at
		FROM comments
		WHERE id = $1
	`

	comment, err := scanComment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment by ID: %w", err)
	}
	return comment, nil
}

func (r *CommentRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) (*model.Comment, error) {
	const query = `
		UPDATE comments
		SET content = $2, updated_at = $3
		WHERE id = $1
		RETURNING id, video_id, owner_id, content, created_at, updated_at
	`

	comment, err := scanComment(r.db.QueryRow(ctx, query, id, content, time.Now()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return comment, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) ListIDsByVideo(ctx context.Context, videoID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM comments WHERE video_id = $1`, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comment IDs: %w", err)
	}
	return collectIDs(rows)
}

func (r *CommentRepository) DeleteByVideo(ctx context.Context, videoID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE video_id = $1`, videoID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete comments of video: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListByVideo joins each comment with its author's profile and like statistics.
// Comments whose author no longer exists are listed with an empty profile.
func (r *CommentRepository) ListByVideo(ctx context.Context, videoID, viewer uuid.UUID, page model.PageRequest) (*model.Page[*model.CommentView], error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE video_id = $1`, videoID).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	if total == 0 {
		return model.NewPage[*model.CommentView](nil, 0, page), nil
	}

	const query = `
		SELECT c.id, c.content, c.created_at, c.owner_id,
			COALESCE(u.username, ''), COALESCE(u.avatar_url, ''),
			COUNT(l.id), COALESCE(BOOL_OR(l.liked_by = $2), FALSE)
		FROM comments c
		LEFT JOIN users u ON u.id = c.owner_id
		LEFT JOIN likes l ON l.comment_id = c.id
		WHERE c.video_id = $1
		GROUP BY c.id, u.id
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, videoID, viewer, page.PageSize, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	views := make([]*model.CommentView, 0, page.PageSize)
	for rows.Next() {
		var v model.CommentView
		if err := rows.Scan(
			&v.ID,
			&v.Content,
			&v.CreatedAt,
			&v.Owner.ID,
			&v.Owner.Username,
			&v.Owner.AvatarURL,
			&v.LikesCount,
			&v.IsLiked,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return model.NewPage(views, total, page), nil
}

func scanComment(row pgx.Row) (*model.Comment, error) {
	var c model.Comment
	if err := row.Scan(&c.ID, &c.VideoID, &c.OwnerID, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// collectIDs drains a single-column UUID result set and closes rows.
func collectIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating IDs: %w", err)
	}
	return ids, nil
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
