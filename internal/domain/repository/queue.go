package repository

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode"
)

// ErrInvalidCleanupTask marks a task that no number of retries can complete.
var ErrInvalidCleanupTask = errors.New("invalid asset cleanup task")

// AssetCleanupTask asks the worker to retry deleting an asset the API could not remove.
type AssetCleanupTask struct {
	AssetID    string `json:"asset_id"`
	Reason     string `json:"reason"`
	RetryCount int    `json:"retry_count"`
	// LastError is the failure that caused the most recent retry.
	LastError string `json:"last_error,omitempty"`
}

// Validate rejects tasks whose asset id could never name a stored object:
// empty, absolute, containing whitespace, or escaping its prefix with "..".
func (t AssetCleanupTask) Validate() error {
	id := t.AssetID
	switch {
	case id == "":
		return fmt.Errorf("%w: no asset ID", ErrInvalidCleanupTask)
	case strings.IndexFunc(id, unicode.IsSpace) >= 0:
		return fmt.Errorf("%w: asset ID %q contains whitespace", ErrInvalidCleanupTask, id)
	case strings.HasPrefix(id, "/"), path.Clean(id) != id, id == ".", id == "..", strings.HasPrefix(id, "../"):
		return fmt.Errorf("%w: asset ID %q is not a clean relative key", ErrInvalidCleanupTask, id)
	case t.RetryCount < 0:
		return fmt.Errorf("%w: negative retry count", ErrInvalidCleanupTask)
	}
	return nil
}

// AssetCleanupQueue defines the interface for message queue operations.
// Implementations should be provided by the infrastructure layer (e.g., RabbitMQ).
type AssetCleanupQueue interface {
	// PublishAssetCleanup enqueues a deferred asset deletion.
	PublishAssetCleanup(ctx context.Context, task AssetCleanupTask) error

	// ConsumeAssetCleanupTasks blocks delivering tasks to handler until ctx is done.
	// Tasks that fail Validate never reach handler. A handler error wrapping
	// ErrInvalidCleanupTask drops the task; any other error schedules a retry.
	// Used by the worker service.
	ConsumeAssetCleanupTasks(ctx context.Context, handler func(task AssetCleanupTask) error) error

	// Close gracefully closes the connection to the message queue.
	Close() error
}
