package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TargetKind identifies what a Like points at.
type TargetKind string

const (
	TargetVideo   TargetKind = "VIDEO"
	TargetComment TargetKind = "COMMENT"
)

func (k TargetKind) IsValid() bool {
	return k == TargetVideo || k == TargetComment
}

func (k TargetKind) String() string {
	return string(k)
}

var (
	ErrInvalidTarget  = errors.New("like target must be a video or a comment with a non-nil ID")
	ErrInvalidLikedBy = errors.New("liked-by user ID cannot be nil")
)

// Target is the likeable entity: exactly one video or one comment.
type Target struct {
	Kind TargetKind
	ID   uuid.UUID
}

func VideoTarget(id uuid.UUID) Target {
	return Target{Kind: TargetVideo, ID: id}
}

func CommentTarget(id uuid.UUID) Target {
	return Target{Kind: TargetComment, ID: id}
}

func (t Target) Validate() error {
	if !t.Kind.IsValid() || t.ID == uuid.Nil {
		return ErrInvalidTarget
	}
	return nil
}

// Like records that a user liked a video or a comment.
type Like struct {
	ID        uuid.UUID
	LikedBy   uuid.UUID
	Target    Target
	CreatedAt time.Time
}

// NewLike creates a Like on target.
func NewLike(likedBy uuid.UUID, target Target) (*Like, error) {
	if likedBy == uuid.Nil {
		return nil, ErrInvalidLikedBy
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	return &Like{
		ID:        uuid.New(),
		LikedBy:   likedBy,
		Target:    target,
		CreatedAt: time.Now(),
	}, nil
}
