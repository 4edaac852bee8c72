package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyContent   = errors.New("comment content cannot be empty")
	ErrInvalidVideoID = errors.New("video ID cannot be nil")
)

// Comment is a user's comment on a video. VideoID and OwnerID never change.
type Comment struct {
	ID        uuid.UUID
	VideoID   uuid.UUID
	OwnerID   uuid.UUID
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewComment creates a Comment. The caller must have verified that the video exists.
func NewComment(videoID, ownerID uuid.UUID, content string) (*Comment, error) {
	if videoID == uuid.Nil {
		return nil, ErrInvalidVideoID
	}
	if ownerID == uuid.Nil {
		return nil, ErrInvalidOwnerID
	}
	if err := ValidateContent(content); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Comment{
		ID:        uuid.New(),
		VideoID:   videoID,
		OwnerID:   ownerID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateContent rejects blank comment bodies.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	return nil
}

// OwnerRef implements Owned.
func (c *Comment) OwnerRef() uuid.UUID {
	if c == nil {
		return uuid.Nil
	}
	return c.OwnerID
}

// CommentView is a comment enriched for display on a video page.
type CommentView struct {
	ID         uuid.UUID
	Content    string
	CreatedAt  time.Time
	Owner      UserProfile
	LikesCount int64
	// IsLiked reports whether the requesting principal liked the comment.
	IsLiked bool
}
