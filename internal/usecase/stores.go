package usecase

import "github.com/hszk-dev/gotube/internal/domain/repository"

// Stores groups the entity collections the services operate on.
type Stores struct {
	Videos    repository.VideoRepository
	Comments  repository.CommentRepository
	Likes     repository.LikeRepository
	Playlists repository.PlaylistRepository
	Users     repository.UserRepository
}
