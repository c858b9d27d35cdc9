package s3

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/commercialspace/backend/internal/app/config"
	"github.com/commercialspace/backend/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// PhotoStorage uploads listing photos and avatars and hands back a public
// object URL.
type PhotoStorage interface {
	Upload(ctx context.Context, originalFileName string, contentType string, data []byte) (string, error)
}

type s3Storage struct {
	client *minio.Client
	bucket string
	log    logger.Logger
}

func NewPhotoStorage(cfg config.StorageConfig, log logger.Logger) (PhotoStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	err = client.MakeBucket(context.Background(), cfg.Bucket, minio.MakeBucketOptions{})
	if err != nil {
		exists, existsErr := client.BucketExists(context.Background(), cfg.Bucket)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &s3Storage{client: client, bucket: cfg.Bucket, log: log}, nil
}

func (s *s3Storage) Upload(ctx context.Context, originalFileName, contentType string, data []byte) (string, error) {
	ext := filepath.Ext(originalFileName)
	objectKey := fmt.Sprintf("photos/%s%s", uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		s.log.Errorf("Failed to upload object %s to bucket %s: %v", objectKey, s.bucket, err)
		return "", fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey)
	s.log.Infof("Uploaded object %s (%d bytes)", objectKey, len(data))
	return url, nil
}
