//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/domain/repository"
	"github.com/hszk-dev/gotube/internal/infrastructure/postgres"
	"github.com/hszk-dev/gotube/internal/usecase"
)

// setupTestDB starts PostgreSQL in a container and applies the embedded migrations.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("gotube_test"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, postgres.MigrateUp(dsn))

	version, dirty, err := postgres.MigrationVersion(dsn)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.NotZero(t, version)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

// discardMedia accepts every delete; the integration test only exercises the database.
type discardMedia struct {
	mu      sync.Mutex
	deleted []string
}

func (m *discardMedia) Store(ctx context.Context, localPath string) (*repository.StoredAsset, error) {
	id := "assets/" + uuid.NewString()
	return &repository.StoredAsset{URL: "http://media/" + id, AssetID: id}, nil
}

func (m *discardMedia) Delete(ctx context.Context, assetID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, assetID)
	return true, nil
}

func stores(repos postgres.Repositories) usecase.Stores {
	return usecase.Stores{
		Videos:    repos.Videos,
		Comments:  repos.Comments,
		Likes:     repos.Likes,
		Playlists: repos.Playlists,
		Users:     repos.Users,
	}
}

func createUser(t *testing.T, ctx context.Context, repos postgres.Repositories, username string) uuid.UUID {
	t.Helper()
	u := &model.User{UserProfile: model.UserProfile{ID: uuid.New(), Username: username}}
	require.NoError(t, repos.Users.Create(ctx, u))
	return u.ID
}

func createVideo(t *testing.T, ctx context.Context, repos postgres.Repositories, owner uuid.UUID, title string) *model.Video {
	t.Helper()
	v, err := model.NewVideo(owner, title, "description of "+title,
		model.Asset{URL: "http://media/" + title + ".mp4", ID: title + ".mp4"},
		model.Asset{URL: "http://media/" + title + ".png", ID: title + ".png"},
		42)
	require.NoError(t, err)
	require.NoError(t, repos.Videos.Create(ctx, v))
	return v
}

func like(t *testing.T, ctx context.Context, repos postgres.Repositories, by uuid.UUID, target model.Target) {
	t.Helper()
	l, err := model.NewLike(by, target)
	require.NoError(t, err)
	require.NoError(t, repos.Likes.Create(ctx, l))
}

func TestCascadeDeleteVideo_Integration(t *testing.T) {
	pool := setupTestDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repos := postgres.NewRepositories(pool)
	media := &discardMedia{}
	engine := usecase.NewCascadeEngine(stores(repos), usecase.NewAssetJanitor(media, nil), 4)

	owner := createUser(t, ctx, repos, "owner")
	alice := createUser(t, ctx, repos, "alice")
	bob := createUser(t, ctx, repos, "bob")

	v := createVideo(t, ctx, repos, owner, "doomed")
	w := createVideo(t, ctx, repos, owner, "survivor")

	c1, err := model.NewComment(v.ID, alice, "first")
	require.NoError(t, err)
	require.NoError(t, repos.Comments.Create(ctx, c1))
	c2, err := model.NewComment(v.ID, bob, "second")
	require.NoError(t, err)
	require.NoError(t, repos.Comments.Create(ctx, c2))
	cw, err := model.NewComment(w.ID, bob, "on the survivor")
	require.NoError(t, err)
	require.NoError(t, repos.Comments.Create(ctx, cw))

	like(t, ctx, repos, alice, model.VideoTarget(v.ID))
	like(t, ctx, repos, bob, model.VideoTarget(v.ID))
	like(t, ctx, repos, bob, model.CommentTarget(c1.ID))
	like(t, ctx, repos, alice, model.CommentTarget(c2.ID))
	like(t, ctx, repos, alice, model.VideoTarget(w.ID))
	like(t, ctx, repos, alice, model.CommentTarget(cw.ID))

	p, err := model.NewPlaylist(alice, "mix", "")
	require.NoError(t, err)
	p.VideoIDs = []uuid.UUID{w.ID, v.ID, w.ID, v.ID}
	require.NoError(t, repos.Playlists.Create(ctx, p))

	require.NoError(t, repos.Users.AddToWatchHistory(ctx, alice, v.ID))
	require.NoError(t, repos.Users.AddToWatchHistory(ctx, alice, w.ID))
	require.NoError(t, repos.Users.AddToWatchHistory(ctx, bob, v.ID))

	t.Run("non-owner is rejected", func(t *testing.T) {
		_, err := engine.DeleteVideo(ctx, v.ID, alice)
		require.Error(t, err)

		_, err = repos.Videos.GetByID(ctx, v.ID)
		require.NoError(t, err, "video must survive a rejected delete")
	})

	t.Run("owner delete cascades", func(t *testing.T) {
		report, err := engine.DeleteVideo(ctx, v.ID, owner)
		require.NoError(t, err)
		require.True(t, report.Complete(), "report: %+v", report.Failures)

		assert.Equal(t, int64(2), report.LikesRemoved)
		assert.Equal(t, int64(2), report.CommentLikesRemoved)
		assert.Equal(t, int64(2), report.CommentsRemoved)
		assert.Equal(t, 1, report.PlaylistsUpdated)
		assert.Equal(t, 2, report.WatchHistoriesUpdated)
		assert.ElementsMatch(t, []string{"doomed.mp4", "doomed.png"}, media.deleted)

		_, err = repos.Videos.GetByID(ctx, v.ID)
		assert.ErrorIs(t, err, repository.ErrVideoNotFound)

		ids, err := repos.Comments.ListIDsByVideo(ctx, v.ID)
		require.NoError(t, err)
		assert.Empty(t, ids)

		removed, err := repos.Likes.DeleteByTarget(ctx, model.VideoTarget(v.ID))
		require.NoError(t, err)
		assert.Zero(t, removed, "no likes on the deleted video may remain")

		got, err := repos.Playlists.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{w.ID, w.ID}, got.VideoIDs)

		history, err := repos.Users.GetWatchHistory(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{w.ID}, history)
		history, err = repos.Users.GetWatchHistory(ctx, bob)
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("other video is untouched", func(t *testing.T) {
		_, err := repos.Videos.GetByID(ctx, w.ID)
		require.NoError(t, err)

		ids, err := repos.Comments.ListIDsByVideo(ctx, w.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{cw.ID}, ids)

		page, err := repos.Comments.ListByVideo(ctx, w.ID, alice, model.PageRequest{Page: 1, PageSize: 10})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, int64(1), page.Items[0].LikesCount)
		assert.True(t, page.Items[0].IsLiked)
		assert.Equal(t, "bob", page.Items[0].Owner.Username)
	})

	t.Run("second delete reports not found", func(t *testing.T) {
		_, err := engine.DeleteVideo(ctx, v.ID, owner)
		require.Error(t, err)
	})
}

func TestCascadeDeleteComment_Integration(t *testing.T) {
	pool := setupTestDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repos := postgres.NewRepositories(pool)
	engine := usecase.NewCascadeEngine(stores(repos), usecase.NewAssetJanitor(&discardMedia{}, nil), 2)

	owner := createUser(t, ctx, repos, "owner")
	alice := createUser(t, ctx, repos, "alice")
	v := createVideo(t, ctx, repos, owner, "clip")

	c, err := model.NewComment(v.ID, alice, "hello")
	require.NoError(t, err)
	require.NoError(t, repos.Comments.Create(ctx, c))
	like(t, ctx, repos, owner, model.CommentTarget(c.ID))
	like(t, ctx, repos, owner, model.VideoTarget(v.ID))

	_, err = engine.DeleteComment(ctx, c.ID, owner)
	require.Error(t, err, "the video owner does not own the comment")

	report, err := engine.DeleteComment(ctx, c.ID, alice)
	require.NoError(t, err)
	assert.True(t, report.Complete())
	assert.Equal(t, int64(1), report.LikesRemoved)

	_, err = repos.Comments.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, repository.ErrCommentNotFound)

	removed, err := repos.Likes.DeleteByTarget(ctx, model.VideoTarget(v.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed, "the video like is not part of the comment cascade")
}
