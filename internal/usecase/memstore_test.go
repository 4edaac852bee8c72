package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
)

// memStore is an in-memory implementation of every repository with
// per-operation failure injection and call counting.
type memStore struct {
	mu        sync.Mutex
	videos    map[uuid.UUID]*model.Video
	comments  map[uuid.UUID]*model.Comment
	likes     map[uuid.UUID]*model.Like
	playlists map[uuid.UUID]*model.Playlist
	users     map[uuid.UUID]*model.User
	failures  map[string]error
	calls     map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		videos:    make(map[uuid.UUID]*model.Video),
		comments:  make(map[uuid.UUID]*model.Comment),
		likes:     make(map[uuid.UUID]*model.Like),
		playlists: make(map[uuid.UUID]*model.Playlist),
		users:     make(map[uuid.UUID]*model.User),
		failures:  make(map[string]error),
		calls:     make(map[string]int),
	}
}

func (s *memStore) stores() Stores {
	return Stores{
		Videos:    &memVideos{s},
		Comments:  &memComments{s},
		Likes:     &memLikes{s},
		Playlists: &memPlaylists{s},
		Users:     &memUsers{s},
	}
}

func (s *memStore) failOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *memStore) callCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *memStore) totalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// enter must be called with s.mu held.
func (s *memStore) enter(op string) error {
	s.calls[op]++
	return s.failures[op]
}

func (s *memStore) addUser(username string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.users[id] = &model.User{UserProfile: model.UserProfile{ID: id, Username: username, AvatarURL: "http://avatars/" + username}}
	return id
}

func (s *memStore) watchHistory(userID uuid.UUID) []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID(nil), s.users[userID].WatchHistory...)
}

func (s *memStore) likesOn(target model.Target) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.likes {
		if l.Target == target {
			n++
		}
	}
	return n
}

func (s *memStore) commentsOn(videoID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.comments {
		if c.VideoID == videoID {
			n++
		}
	}
	return n
}

func (s *memStore) playlistVideos(id uuid.UUID) []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID(nil), s.playlists[id].VideoIDs...)
}

type memVideos struct{ *memStore }

func (r *memVideos) Create(ctx context.Context, video *model.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Videos.Create"); err != nil {
		return err
	}
	if _, ok := r.videos[video.ID]; ok {
		return repository.ErrDuplicateVideo
	}
	for _, v := range r.videos {
		for _, id := range v.AssetIDs() {
			if id == video.VideoFile.ID || id == video.Thumbnail.ID {
				return repository.ErrDuplicateVideo
			}
		}
	}
	v := *video
	r.videos[video.ID] = &v
	return nil
}

func (r *memVideos) GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Videos.GetByID"); err != nil {
		return nil, err
	}
	v, ok := r.videos[id]
	if !ok {
		return nil, repository.ErrVideoNotFound
	}
	out := *v
	return &out, nil
}

func (r *memVideos) Update(ctx context.Context, id uuid.UUID, patch model.VideoPatch) (*model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Videos.Update"); err != nil {
		return nil, err
	}
	v, ok := r.videos[id]
	if !ok {
		return nil, repository.ErrVideoNotFound
	}
	if patch.Title != nil {
		v.Title = *patch.Title
	}
	if patch.Description != nil {
		v.Description = *patch.Description
	}
	if patch.Thumbnail != nil {
		v.Thumbnail = *patch.Thumbnail
	}
	if patch.IsPublished != nil {
		v.IsPublished = *patch.IsPublished
	}
	v.UpdatedAt = time.Now()
	out := *v
	return &out, nil
}

func (r *memVideos) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Videos.Delete"); err != nil {
		return err
	}
	if _, ok := r.videos[id]; !ok {
		return repository.ErrVideoNotFound
	}
	delete(r.videos, id)
	return nil
}

func (r *memVideos) Search(ctx context.Context, filter repository.VideoSearchFilter, page model.PageRequest) (*model.Page[*model.Video], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Videos.Search"); err != nil {
		return nil, err
	}

	var matched []*model.Video
	for _, v := range r.videos {
		if v.OwnerID != filter.OwnerID {
			continue
		}
		title, query := v.Title, filter.Query
		if !filter.CaseSensitive {
			title, query = strings.ToLower(title), strings.ToLower(query)
		}
		if !strings.Contains(title, query) {
			continue
		}
		out := *v
		matched = append(matched, &out)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if filter.SortDesc {
			a, b = b, a
		}
		switch filter.SortBy {
		case model.SortByTitle:
			return a.Title < b.Title
		case model.SortByDuration:
			return a.Duration < b.Duration
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	total := int64(len(matched))
	start := min(page.Offset(), len(matched))
	end := min(start+page.PageSize, len(matched))
	return model.NewPage(matched[start:end], total, page), nil
}

type memComments struct{ *memStore }

func (r *memComments) Create(ctx context.Context, comment *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Comments.Create"); err != nil {
		return err
	}
	c := *comment
	r.comments[comment.ID] = &c
	return nil
}

func (r *memComments) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Comments.GetByID"); err != nil {
		return nil, err
	}
	c, ok := r.comments[id]
	if !ok {
		return nil, repository.ErrCommentNotFound
	}
	out := *c
	return &out, nil
}

func (r *memComments) UpdateContent(ctx context.Context, id uuid.UUID, content string) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Comments.UpdateContent"); err != nil {
		return nil, err
	}
	c, ok := r.comments[id]
	if !ok {
		return nil, repository.ErrCommentNotFound
	}
	c.Content = content
	c.UpdatedAt = time.Now()
	out := *c
	return &out, nil
}

func (r *memComments) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Comments.Delete"); err != nil {
		return err
	}
	if _, ok := r.comments[id]; !ok {
		return repository.ErrCommentNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *memComments) ListIDsByVideo(ctx context.Context, videoID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Comments.ListIDsByVideo"); err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	for id, c := range r.comments {
		if c.VideoID == videoID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *memComments) DeleteByVideo(ctx context.Context, videoID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Comments.DeleteByVideo"); err != nil {
		return 0, err
	}
	var n int64
	for id, c := range r.comments {
		if c.VideoID == videoID {
			delete(r.comments, id)
			n++
		}
	}
	return n, nil
}

func (r *memComments) ListByVideo(ctx context.Context, videoID, viewer uuid.UUID, page model.PageRequest) (*model.Page[*model.CommentView], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Comments.ListByVideo"); err != nil {
		return nil, err
	}

	var matched []*model.Comment
	for _, c := range r.comments {
		if c.VideoID == videoID {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := min(page.Offset(), len(matched))
	end := min(start+page.PageSize, len(matched))

	views := make([]*model.CommentView, 0, end-start)
	for _, c := range matched[start:end] {
		view := &model.CommentView{ID: c.ID, Content: c.Content, CreatedAt: c.CreatedAt}
		if u, ok := r.users[c.OwnerID]; ok {
			view.Owner = u.UserProfile
		}
		for _, l := range r.likes {
			if l.Target == model.CommentTarget(c.ID) {
				view.LikesCount++
				if viewer != uuid.Nil && l.LikedBy == viewer {
					view.IsLiked = true
				}
			}
		}
		views = append(views, view)
	}
	return model.NewPage(views, total, page), nil
}

type memLikes struct{ *memStore }

func (r *memLikes) Create(ctx context.Context, like *model.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Likes.Create"); err != nil {
		return err
	}
	for _, l := range r.likes {
		if l.LikedBy == like.LikedBy && l.Target == like.Target {
			return repository.ErrDuplicateLike
		}
	}
	l := *like
	r.likes[like.ID] = &l
	return nil
}

func (r *memLikes) Delete(ctx context.Context, likedBy uuid.UUID, target model.Target) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Likes.Delete"); err != nil {
		return false, err
	}
	for id, l := range r.likes {
		if l.LikedBy == likedBy && l.Target == target {
			delete(r.likes, id)
			return true, nil
		}
	}
	return false, nil
}

func (r *memLikes) DeleteByTarget(ctx context.Context, target model.Target) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Likes.DeleteByTarget"); err != nil {
		return 0, err
	}
	var n int64
	for id, l := range r.likes {
		if l.Target == target {
			delete(r.likes, id)
			n++
		}
	}
	return n, nil
}

func (r *memLikes) DeleteByCommentIDs(ctx context.Context, commentIDs []uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Likes.DeleteByCommentIDs"); err != nil {
		return 0, err
	}
	wanted := make(map[uuid.UUID]bool, len(commentIDs))
	for _, id := range commentIDs {
		wanted[id] = true
	}
	var n int64
	for id, l := range r.likes {
		if l.Target.Kind == model.TargetComment && wanted[l.Target.ID] {
			delete(r.likes, id)
			n++
		}
	}
	return n, nil
}

type memPlaylists struct{ *memStore }

func (r *memPlaylists) Create(ctx context.Context, playlist *model.Playlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Playlists.Create"); err != nil {
		return err
	}
	p := *playlist
	p.VideoIDs = append([]uuid.UUID(nil), playlist.VideoIDs...)
	r.playlists[playlist.ID] = &p
	return nil
}

func (r *memPlaylists) GetByID(ctx context.Context, id uuid.UUID) (*model.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Playlists.GetByID"); err != nil {
		return nil, err
	}
	p, ok := r.playlists[id]
	if !ok {
		return nil, repository.ErrPlaylistNotFound
	}
	out := *p
	out.VideoIDs = append([]uuid.UUID(nil), p.VideoIDs...)
	return &out, nil
}

func (r *memPlaylists) FindIDsContainingVideo(ctx context.Context, videoID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Playlists.FindIDsContainingVideo"); err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	for id, p := range r.playlists {
		if p.Contains(videoID) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *memPlaylists) PullVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Playlists.PullVideo"); err != nil {
		return err
	}
	p, ok := r.playlists[playlistID]
	if !ok {
		return repository.ErrPlaylistNotFound
	}
	p.VideoIDs = without(p.VideoIDs, videoID)
	return nil
}

type memUsers struct{ *memStore }

func (r *memUsers) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Users.Create"); err != nil {
		return err
	}
	u := *user
	r.users[user.ID] = &u
	return nil
}

func (r *memUsers) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Users.Exists"); err != nil {
		return false, err
	}
	_, ok := r.users[id]
	return ok, nil
}

func (r *memUsers) FindIDsWithWatchedVideo(ctx context.Context, videoID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Users.FindIDsWithWatchedVideo"); err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	for id, u := range r.users {
		if u.HasWatched(videoID) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *memUsers) PullWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Users.PullWatchHistory"); err != nil {
		return err
	}
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.WatchHistory = without(u.WatchHistory, videoID)
	return nil
}

func (r *memUsers) AddToWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Users.AddToWatchHistory"); err != nil {
		return err
	}
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	if !u.HasWatched(videoID) {
		u.WatchHistory = append(u.WatchHistory, videoID)
	}
	return nil
}

func (r *memUsers) GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter("Users.GetWatchHistory"); err != nil {
		return nil, err
	}
	u, ok := r.users[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return append([]uuid.UUID(nil), u.WatchHistory...), nil
}

func without(ids []uuid.UUID, drop uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}

// memMedia is an in-memory MediaStore that tracks the assets currently held.
type memMedia struct {
	mu        sync.Mutex
	assets    map[string]bool
	storeErrs map[string]error
	deleteErr error
	stores    int
	deletes   int
}

func newMemMedia() *memMedia {
	return &memMedia{
		assets:    make(map[string]bool),
		storeErrs: make(map[string]error),
	}
}

func (m *memMedia) Store(ctx context.Context, localPath string) (*repository.StoredAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores++
	if err := m.storeErrs[localPath]; err != nil {
		return nil, err
	}
	id := "assets/" + uuid.NewString() + filepath.Ext(localPath)
	m.assets[id] = true

	var duration float64
	if filepath.Ext(localPath) == ".mp4" {
		duration = 12.5
	}
	return &repository.StoredAsset{URL: "http://media/" + id, AssetID: id, Duration: duration}, nil
}

func (m *memMedia) Delete(ctx context.Context, assetID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	if m.deleteErr != nil {
		return false, m.deleteErr
	}
	if !m.assets[assetID] {
		return false, nil
	}
	delete(m.assets, assetID)
	return true, nil
}

func (m *memMedia) live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.assets)
}

func (m *memMedia) holds(assetID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assets[assetID]
}

func (m *memMedia) storeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stores
}

// memQueue records published cleanup tasks.
type memQueue struct {
	mu         sync.Mutex
	tasks      []repository.AssetCleanupTask
	publishErr error
}

func (q *memQueue) PublishAssetCleanup(ctx context.Context, task repository.AssetCleanupTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.publishErr != nil {
		return q.publishErr
	}
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *memQueue) ConsumeAssetCleanupTasks(ctx context.Context, handler func(task repository.AssetCleanupTask) error) error {
	return fmt.Errorf("not supported")
}

func (q *memQueue) Close() error {
	return nil
}

func (q *memQueue) published() []repository.AssetCleanupTask {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]repository.AssetCleanupTask(nil), q.tasks...)
}
