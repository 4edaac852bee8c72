package model

import (
	"slices"

	"github.com/google/uuid"
)

// UserProfile is the public part of a user shown next to their content.
type UserProfile struct {
	ID        uuid.UUID
	Username  string
	AvatarURL string
}

// User is the slice of the user record this service reads and mutates.
// WatchHistory has set semantics: a video appears at most once.
type User struct {
	UserProfile
	WatchHistory []uuid.UUID
}

// HasWatched reports whether videoID is in the watch history.
func (u *User) HasWatched(videoID uuid.UUID) bool {
	return slices.Contains(u.WatchHistory, videoID)
}
