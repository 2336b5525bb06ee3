package storage

import (
	"context"
	"fmt"
	"io"

	"document-approval-server/config"
	"document-approval-server/internal/util"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioStore struct {
	client *minio.Client
	bucket string
	region string
}

func NewMinioStore(ctx context.Context, cfg *config.MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, util.LogError("[MinioStore] ошибка инициализации клиента", err)
	}

	store := &MinioStore{client: client, bucket: cfg.Bucket, region: cfg.Region}
	if err := store.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *MinioStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return util.LogError("[MinioStore] ошибка проверки бакета", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return util.LogError("[MinioStore] ошибка создания бакета", err)
		}
	}
	return nil
}

func (s *MinioStore) Save(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (string, error) {
	key := objectKey(name)
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, s.bucket, key, reader, size, opts); err != nil {
		return "", util.LogError("[MinioStore] не удалось загрузить объект", err)
	}
	return key, nil
}

func (s *MinioStore) Open(ctx context.Context, fileURL string) (io.ReadCloser, error) {
	if _, err := s.client.StatObject(ctx, s.bucket, fileURL, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("[MinioStore] объект %s: %w", fileURL, util.ErrNotFound)
		}
		return nil, util.LogError("[MinioStore] ошибка проверки объекта", err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, fileURL, minio.GetObjectOptions{})
	if err != nil {
		return nil, util.LogError("[MinioStore] не удалось получить объект", err)
	}
	return obj, nil
}

// DeleteIfExists : RemoveObject идемпотентен для отсутствующего ключа
func (s *MinioStore) DeleteIfExists(ctx context.Context, fileURL string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, fileURL, minio.RemoveObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil
		}
		return util.LogError("[MinioStore] не удалось удалить объект", err)
	}
	return nil
}
