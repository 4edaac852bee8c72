package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/hszk-dev/gotube/internal/domain/model"
)

type fixture struct {
	store    *memStore
	media    *memMedia
	queue    *memQueue
	engine   *CascadeEngine
	videos   VideoService
	comments CommentService
	likes    LikeService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()
	media := newMemMedia()
	queue := &memQueue{}
	janitor := NewAssetJanitor(media, queue)
	engine := NewCascadeEngine(store.stores(), janitor, 2)

	return &fixture{
		store:    store,
		media:    media,
		queue:    queue,
		engine:   engine,
		videos:   NewVideoService(store.stores(), media, janitor, engine, DefaultVideoServiceConfig()),
		comments: NewCommentService(store.stores(), engine),
		likes:    NewLikeService(store.stores()),
	}
}

func (f *fixture) publish(t *testing.T, owner uuid.UUID, title string) *model.Video {
	t.Helper()
	video, err := f.videos.PublishVideo(context.Background(), PublishVideoInput{
		OwnerID:       owner,
		Title:         title,
		Description:   "description of " + title,
		VideoPath:     "/tmp/upload/video.mp4",
		ThumbnailPath: "/tmp/upload/thumb.png",
	})
	require.NoError(t, err)
	return video
}

func (f *fixture) comment(t *testing.T, videoID, owner uuid.UUID, content string) *model.Comment {
	t.Helper()
	comment, err := f.comments.AddComment(context.Background(), videoID, owner, content)
	require.NoError(t, err)
	return comment
}

func (f *fixture) like(t *testing.T, user uuid.UUID, target model.Target) {
	t.Helper()
	liked, err := f.likes.ToggleLike(context.Background(), user, target)
	require.NoError(t, err)
	require.True(t, liked)
}

func (f *fixture) playlist(t *testing.T, owner uuid.UUID, videoIDs ...uuid.UUID) uuid.UUID {
	t.Helper()
	playlist, err := model.NewPlaylist(owner, "favourites", "")
	require.NoError(t, err)
	playlist.VideoIDs = videoIDs
	require.NoError(t, f.store.stores().Playlists.Create(context.Background(), playlist))
	return playlist.ID
}

func (f *fixture) watch(t *testing.T, user, videoID uuid.UUID) {
	t.Helper()
	_, err := f.videos.GetVideo(context.Background(), videoID, user)
	require.NoError(t, err)
}
