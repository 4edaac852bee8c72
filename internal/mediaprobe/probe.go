package mediaprobe

import "context"

// Prober extracts playback metadata from a local media file.
type Prober interface {
	// Duration returns the container duration in seconds.
	Duration(ctx context.Context, path string) (float64, error)
}
