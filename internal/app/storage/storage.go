package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	apperrors "github.com/AbbasKothari1552/StreamShield/internal/app/errors"
	"github.com/AbbasKothari1552/StreamShield/internal/app/logging"
	"github.com/AbbasKothari1552/StreamShield/internal/config"
)

// ArtifactStore keeps copies of files produced while processing an input,
// such as extracted audio tracks.
type ArtifactStore interface {
	Upload(ctx context.Context, localPath string) (string, error)
	URL(key string) string
}

// bucketTimeout bounds the bucket check made before the first upload.
const bucketTimeout = 30 * time.Second

type bucketAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
}

// MinioStore implements ArtifactStore using MinIO
type MinioStore struct {
	client   *minio.Client
	buckets  bucketAPI
	bucket   string
	endpoint string
	useSSL   bool
	logger   *zap.Logger

	bucketMu    sync.Mutex
	bucketReady bool
}

// NewArtifactStore returns a MinIO backed store when storage is enabled, or nil.
func NewArtifactStore(cfg config.StorageConfig, logger *zap.Logger) (ArtifactStore, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	store, err := NewMinioStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewMinioStore creates a MinIO client. The bucket is created on first upload.
func NewMinioStore(cfg config.StorageConfig, logger *zap.Logger) (*MinioStore, error) {
	if cfg.Endpoint == "" {
		return nil, apperrors.RequiredField("storage endpoint")
	}
	if cfg.Bucket == "" {
		return nil, apperrors.RequiredField("storage bucket")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinioStore{
		client:   client,
		buckets:  client,
		bucket:   cfg.Bucket,
		endpoint: cfg.Endpoint,
		useSSL:   cfg.UseSSL,
		logger:   logging.OrNop(logger),
	}, nil
}

// ensureBucket creates the bucket if needed. Only success is remembered, so a
// failed check is retried on the next upload.
func (s *MinioStore) ensureBucket(ctx context.Context) error {
	s.bucketMu.Lock()
	defer s.bucketMu.Unlock()
	if s.bucketReady {
		return nil
	}

	// the bucket outlives the request that happens to create it
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), bucketTimeout)
	defer cancel()

	exists, err := s.buckets.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.buckets.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		s.logger.Info("bucket created", zap.String("bucket", s.bucket))
	}

	s.bucketReady = true
	return nil
}

// Upload copies a local file into the bucket and returns its object key.
func (s *MinioStore) Upload(ctx context.Context, localPath string) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}

	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open artifact: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat artifact: %w", err)
	}

	now := time.Now()
	key := ObjectKey(localPath, now, uuid.New())

	_, err = s.client.PutObject(ctx, s.bucket, key, file, info.Size(), minio.PutObjectOptions{
		ContentType: ContentType(localPath),
		UserMetadata: map[string]string{
			"original-name": filepath.Base(localPath),
			"uploaded-at":   now.Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to MinIO: %w", err)
	}

	s.logger.Info("artifact uploaded", zap.String("bucket", s.bucket), zap.String("key", key), zap.Int64("size", info.Size()))
	return key, nil
}

// URL returns the URL for accessing an object
func (s *MinioStore) URL(key string) string {
	protocol := "http"
	if s.useSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.endpoint, s.bucket, key)
}

// ObjectKey builds artifacts/<yyyy>/<mm>/<dd>/<unix>-<id8><ext>.
func ObjectKey(localPath string, now time.Time, id uuid.UUID) string {
	return fmt.Sprintf("artifacts/%s/%d-%s%s",
		now.UTC().Format("2006/01/02"), now.Unix(), id.String()[:8], filepath.Ext(localPath))
}

// ContentType guesses the MIME type from the file extension.
func ContentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
