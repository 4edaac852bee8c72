package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/gotube/internal/domain/model"
)

// VideoSearchFilter narrows a video listing to one owner and a title substring.
type VideoSearchFilter struct {
	OwnerID uuid.UUID
	// Query is matched as a literal substring of the title. Empty matches all.
	Query         string
	CaseSensitive bool
	SortBy        model.VideoSortField
	SortDesc      bool
}

// VideoRepository defines the interface for video persistence operations.
// Implementations should be provided by the infrastructure layer (e.g., PostgreSQL).
type VideoRepository interface {
	// Create persists a new video entity.
	// Returns ErrDuplicateVideo if the video or one of its assets already exists.
	Create(ctx context.Context, video *model.Video) error

	// GetByID retrieves a video by its unique identifier.
	// Returns nil and ErrVideoNotFound if the video does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error)

	// Update applies a partial update and returns the stored result.
	// Returns ErrVideoNotFound if the video does not exist.
	Update(ctx context.Context, id uuid.UUID, patch model.VideoPatch) (*model.Video, error)

	// Delete removes the video record only; dependents are left to the caller.
	// Returns ErrVideoNotFound if nothing was deleted.
	Delete(ctx context.Context, id uuid.UUID) error

	// Search returns one page of videos matching filter. An empty page is not an error.
	Search(ctx context.Context, filter VideoSearchFilter, page model.PageRequest) (*model.Page[*model.Video], error)
}
