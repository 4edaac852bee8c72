package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/hszk-dev/gotube/internal/domain/repository"
)

func TestDefaultAssetCleanupServiceConfig(t *testing.T) {
	cfg := DefaultAssetCleanupServiceConfig()

	if cfg.MaxRetries != DefaultMaxRetries {
		t.Errorf("MaxRetries: got %d, expected %d", cfg.MaxRetries, DefaultMaxRetries)
	}
}

func TestAssetCleanupService_ProcessTask(t *testing.T) {
	tests := []struct {
		name        string
		task        repository.AssetCleanupTask
		seedAsset   bool
		deleteErr   error
		wantErr     bool
		wantInvalid bool
		wantDeletes int
		wantLive    int
	}{
		{
			name:        "deletes the asset",
			task:        repository.AssetCleanupTask{AssetID: "assets/a.mp4", Reason: ReasonVideoDeleted},
			seedAsset:   true,
			wantDeletes: 1,
		},
		{
			name:        "already absent asset is acked",
			task:        repository.AssetCleanupTask{AssetID: "assets/a.mp4"},
			wantDeletes: 1,
		},
		{
			name:        "transient failure is retried",
			task:        repository.AssetCleanupTask{AssetID: "assets/a.mp4", RetryCount: 1},
			seedAsset:   true,
			deleteErr:   errors.New("connection reset"),
			wantErr:     true,
			wantDeletes: 1,
			wantLive:    1,
		},
		{
			name:      "max retries exceeded gives up without deleting",
			task:      repository.AssetCleanupTask{AssetID: "assets/a.mp4", RetryCount: DefaultMaxRetries},
			seedAsset: true,
			wantLive:  1,
		},
		{
			name:        "task without asset id is permanent",
			task:        repository.AssetCleanupTask{},
			wantErr:     true,
			wantInvalid: true,
		},
		{
			name:        "escaping asset id is never deleted",
			task:        repository.AssetCleanupTask{AssetID: "../other-bucket/secret"},
			seedAsset:   true,
			wantErr:     true,
			wantInvalid: true,
			wantLive:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			media := newMemMedia()
			if tt.seedAsset {
				media.assets[tt.task.AssetID] = true
			}
			media.deleteErr = tt.deleteErr

			svc := NewAssetCleanupService(media, DefaultAssetCleanupServiceConfig())
			err := svc.ProcessTask(context.Background(), tt.task)

			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := errors.Is(err, repository.ErrInvalidCleanupTask); got != tt.wantInvalid {
				t.Errorf("permanent failure: got %v, expected %v (err = %v)", got, tt.wantInvalid, err)
			}
			if media.deletes != tt.wantDeletes {
				t.Errorf("deletes: got %d, expected %d", media.deletes, tt.wantDeletes)
			}
			if media.live() != tt.wantLive {
				t.Errorf("live assets: got %d, expected %d", media.live(), tt.wantLive)
			}
		})
	}
}

func TestAssetJanitor_Release(t *testing.T) {
	t.Run("skips empty ids and counts failures", func(t *testing.T) {
		media := newMemMedia()
		media.deleteErr = errors.New("unavailable")
		queue := &memQueue{}
		janitor := NewAssetJanitor(media, queue)

		failed := janitor.Release(context.Background(), ReasonCompensation, "", "assets/a.png", "assets/b.png")

		if failed != 2 {
			t.Errorf("failed: got %d, expected 2", failed)
		}
		if got := len(queue.published()); got != 2 {
			t.Errorf("published tasks: got %d, expected 2", got)
		}
	})

	t.Run("enqueue failure is tolerated", func(t *testing.T) {
		media := newMemMedia()
		media.deleteErr = errors.New("unavailable")
		queue := &memQueue{publishErr: errors.New("broker down")}
		janitor := NewAssetJanitor(media, queue)

		if failed := janitor.Release(context.Background(), ReasonCompensation, "assets/a.png"); failed != 1 {
			t.Errorf("failed: got %d, expected 1", failed)
		}
	})

	t.Run("works without a queue", func(t *testing.T) {
		media := newMemMedia()
		media.assets["assets/a.png"] = true
		janitor := NewAssetJanitor(media, nil)

		if failed := janitor.Release(context.Background(), ReasonCompensation, "assets/a.png", "assets/missing.png"); failed != 0 {
			t.Errorf("failed: got %d, expected 0", failed)
		}
		if media.live() != 0 {
			t.Errorf("live assets: got %d, expected 0", media.live())
		}
	})
}
