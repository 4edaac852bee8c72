package storage

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hszk-dev/gotube/internal/domain/repository"
	"github.com/hszk-dev/gotube/internal/mediaprobe"
)

const assetPrefix = "assets/"

// minioClient defines the subset of MinIO operations the media store needs.
// *minio.Client satisfies this interface.
type minioClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// ClientConfig holds configuration for the MinIO client.
type ClientConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL prefixes asset URLs handed to clients, e.g. "https://cdn.example.com".
	// Defaults to the endpoint.
	PublicBaseURL string
}

// Client wraps a MinIO client and implements repository.MediaStore.
// Asset ids are object keys inside the bucket.
type Client struct {
	client  minioClient
	bucket  string
	baseURL string
	prober  mediaprobe.Prober
}

// NewClient creates a new MinIO client.
// It verifies the bucket exists during initialization to fail fast on misconfiguration.
// prober may be nil, in which case stored videos report a zero duration.
func NewClient(ctx context.Context, cfg ClientConfig, prober mediaprobe.Prober) (*Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = scheme + "://" + cfg.Endpoint
	}

	return newClientWithMinioClient(ctx, client, cfg.Bucket, baseURL, prober)
}

// newClientWithMinioClient creates a Client with a given minioClient implementation.
// This is used for dependency injection in tests.
func newClientWithMinioClient(ctx context.Context, client minioClient, bucket, baseURL string, prober mediaprobe.Prober) (*Client, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", repository.ErrBucketNotFound, bucket)
	}

	return &Client{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		prober:  prober,
	}, nil
}

// Store uploads the local file under a fresh key. Videos are probed for their
// duration first so that a file ffprobe rejects is never uploaded.
func (c *Client) Store(ctx context.Context, localPath string) (*repository.StoredAsset, error) {
	ext := strings.ToLower(filepath.Ext(localPath))
	contentType := contentTypeFor(ext)

	var duration float64
	if c.prober != nil && strings.HasPrefix(contentType, "video/") {
		d, err := c.prober.Duration(ctx, localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to probe media: %w", err)
		}
		duration = d
	}

	key := assetPrefix + uuid.NewString() + ext
	_, err := c.client.FPutObject(ctx, c.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object: %w", err)
	}

	slog.Debug("asset stored", "asset_id", key, "content_type", contentType)

	return &repository.StoredAsset{
		URL:      c.URL(key),
		AssetID:  key,
		Duration: duration,
	}, nil
}

// Delete removes an asset. A missing object reports (false, nil), and so does
// an id this store never issued: there is nothing of ours to remove.
func (c *Client) Delete(ctx context.Context, assetID string) (bool, error) {
	if !strings.HasPrefix(assetID, assetPrefix) {
		slog.Warn("ignoring delete of foreign asset id", "asset_id", assetID)
		return false, nil
	}

	_, err := c.client.StatObject(ctx, c.bucket, assetID, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}

	if err := c.client.RemoveObject(ctx, c.bucket, assetID, minio.RemoveObjectOptions{}); err != nil {
		return false, fmt.Errorf("failed to delete object: %w", err)
	}
	return true, nil
}

// URL returns the public URL of an object key.
func (c *Client) URL(key string) string {
	return c.baseURL + "/" + c.bucket + "/" + key
}

// Ping verifies the MinIO connection is alive by checking bucket access.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to ping minio: %w", err)
	}
	return nil
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// Go's builtin mime table lacks most video types.
var contentTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

func contentTypeFor(ext string) string {
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

var _ repository.MediaStore = (*Client)(nil)
