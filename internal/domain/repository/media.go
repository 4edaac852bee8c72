package repository

import "context"

// StoredAsset describes a binary accepted by the media store.
type StoredAsset struct {
	URL     string
	AssetID string
	// Duration in seconds; zero for non-video assets.
	Duration float64
}

// MediaStore stores and removes binary assets.
// Implementations should be provided by the infrastructure layer (e.g., MinIO, S3).
type MediaStore interface {
	// Store uploads the local file and returns its public reference.
	Store(ctx context.Context, localPath string) (*StoredAsset, error)

	// Delete removes the asset. It reports false with a nil error when the
	// asset was already absent or was never issued by this store.
	Delete(ctx context.Context, assetID string) (bool, error)
}
