package repository

import "errors"

var (
	// ErrVideoNotFound is returned when a video cannot be found.
	ErrVideoNotFound = errors.New("video not found")

	// ErrDuplicateVideo is returned when attempting to create a video that already exists.
	ErrDuplicateVideo = errors.New("video already exists")

	ErrCommentNotFound  = errors.New("comment not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrDuplicateLike is returned when the user already likes the target.
	ErrDuplicateLike = errors.New("like already exists")

	// ErrBucketNotFound is returned by the media store when its bucket is missing.
	ErrBucketNotFound = errors.New("bucket not found")
)
