package model

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyPlaylistName = errors.New("playlist name cannot be empty")

// Playlist is an ordered list of video IDs owned by a user.
type Playlist struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	VideoIDs    []uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPlaylist creates an empty playlist.
func NewPlaylist(ownerID uuid.UUID, name, description string) (*Playlist, error) {
	if ownerID == uuid.Nil {
		return nil, ErrInvalidOwnerID
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyPlaylistName
	}
	now := time.Now()
	return &Playlist{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		VideoIDs:    []uuid.UUID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Contains reports whether videoID is in the playlist.
func (p *Playlist) Contains(videoID uuid.UUID) bool {
	return slices.Contains(p.VideoIDs, videoID)
}

// OwnerRef implements Owned.
func (p *Playlist) OwnerRef() uuid.UUID {
	if p == nil {
		return uuid.Nil
	}
	return p.OwnerID
}
