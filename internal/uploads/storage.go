package uploads

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Storage persists an uploaded image and returns its object path and the
// public URL to reach it.
type Storage interface {
	PutImage(ctx context.Context, fileName, contentType string, file io.Reader, size int64) (string, string, error)
}

type MinioStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

func NewMinioStorage(cfg MinioConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	publicURL := strings.TrimSuffix(cfg.PublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Endpoint
	}

	return &MinioStorage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
	}, nil
}

// PutImage stores the file under a year/month prefix with a random name, so
// repeated uploads of the same filename never collide.
func (s *MinioStorage) PutImage(ctx context.Context, fileName, contentType string, file io.Reader, size int64) (string, string, error) {
	ext := strings.ToLower(path.Ext(fileName))
	now := time.Now()
	objectName := fmt.Sprintf("images/%d/%02d/%s%s", now.Year(), now.Month(), uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", "", fmt.Errorf("minio upload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectName)
	return objectName, url, nil
}
