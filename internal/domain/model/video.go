package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Asset references a binary stored in the media store.
type Asset struct {
	URL string
	ID  string
}

// IsZero reports whether the asset reference is empty.
func (a Asset) IsZero() bool {
	return a.URL == "" && a.ID == ""
}

// Video represents a published video entity in the domain.
// OwnerID is a weak reference to a user and never changes after creation.
type Video struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Description string
	VideoFile   Asset
	Thumbnail   Asset
	// Duration is the playback length in seconds as reported by the media probe.
	Duration    float64
	IsPublished bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var (
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrInvalidOwnerID   = errors.New("owner ID cannot be nil")
	ErrTitleTooLong     = errors.New("title exceeds maximum length of 255 characters")
	ErrMissingAsset     = errors.New("video file and thumbnail assets are required")
	ErrDuplicateAssetID = errors.New("video file and thumbnail must be distinct assets")
	ErrEmptyVideoPatch  = errors.New("at least one of title, description or thumbnail must be provided")
	ErrNegativeDuration = errors.New("duration cannot be negative")
)

const maxTitleLength = 255

// NewVideo creates a published Video owned by ownerID.
func NewVideo(ownerID uuid.UUID, title, description string, file, thumbnail Asset, duration float64) (*Video, error) {
	if ownerID == uuid.Nil {
		return nil, ErrInvalidOwnerID
	}
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if strings.TrimSpace(description) == "" {
		return nil, ErrEmptyDescription
	}
	if file.ID == "" || thumbnail.ID == "" {
		return nil, ErrMissingAsset
	}
	if file.ID == thumbnail.ID {
		return nil, ErrDuplicateAssetID
	}
	if duration < 0 {
		return nil, ErrNegativeDuration
	}

	now := time.Now()
	return &Video{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		VideoFile:   file,
		Thumbnail:   thumbnail,
		Duration:    duration,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// OwnerRef implements Owned.
func (v *Video) OwnerRef() uuid.UUID {
	if v == nil {
		return uuid.Nil
	}
	return v.OwnerID
}

// AssetIDs returns the ids of every binary the video references.
func (v *Video) AssetIDs() []string {
	ids := make([]string, 0, 2)
	if v.VideoFile.ID != "" {
		ids = append(ids, v.VideoFile.ID)
	}
	if v.Thumbnail.ID != "" {
		ids = append(ids, v.Thumbnail.ID)
	}
	return ids
}

// VideoPatch is a partial update; nil fields are left untouched.
type VideoPatch struct {
	Title       *string
	Description *string
	Thumbnail   *Asset
	IsPublished *bool
}

// Validate checks the provided fields. It does not require any field so that
// internal callers such as the publish toggle can send single-field patches.
func (p VideoPatch) Validate() error {
	if p.Title != nil {
		if err := validateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return ErrEmptyDescription
	}
	if p.Thumbnail != nil && p.Thumbnail.ID == "" {
		return ErrMissingAsset
	}
	return nil
}

// IsEmpty reports whether the patch changes nothing.
func (p VideoPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Thumbnail == nil && p.IsPublished == nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}
