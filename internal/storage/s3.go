package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"document-approval-server/config"
	"document-approval-server/internal/util"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

type S3Store struct {
	client *s3.Client
	bucket string
}

func NewS3Store(ctx context.Context, cfg *config.S3Config) (*S3Store, error) {
	var client *s3.Client

	if cfg.Local {
		client = s3.New(s3.Options{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				"minioadmin",
				"minioadmin",
				"",
			),
			BaseEndpoint: aws.String(cfg.Endpoint),
			UsePathStyle: true,
		})

		if err := createBucketIfNotExists(ctx, client, cfg.Bucket); err != nil {
			return nil, util.LogError("[S3Store] ошибка создания бакета", err)
		}
	} else {
		awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, util.LogError("[S3Store] ошибка загрузки AWS config", err)
		}
		client = s3.NewFromConfig(awsCfg)
	}

	return &S3Store{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// createBucketIfNotExists создает бакет если он не существует
func createBucketIfNotExists(ctx context.Context, client *s3.Client, bucket string) error {
	_, err := client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err == nil {
		return nil
	}

	_, err = client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return util.LogError("[S3Store] ошибка создания бакета", err)
	}

	zap.L().Info("[S3Store] бакет создан", zap.String("bucket", bucket))
	return nil
}

func (s *S3Store) Save(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (string, error) {
	key := objectKey(name)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String(contentType),
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", util.LogError("[S3Store] не удалось загрузить объект", err)
	}
	return key, nil
}

func (s *S3Store) Open(ctx context.Context, fileURL string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fileURL),
	})
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return nil, fmt.Errorf("[S3Store] объект %s: %w", fileURL, util.ErrNotFound)
	}
	if err != nil {
		return nil, util.LogError("[S3Store] не удалось получить объект", err)
	}
	return out.Body, nil
}

// DeleteIfExists : S3 DeleteObject не возвращает ошибку для отсутствующего ключа
func (s *S3Store) DeleteIfExists(ctx context.Context, fileURL string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fileURL),
	})
	if err != nil {
		return util.LogError("[S3Store] не удалось удалить объект", err)
	}
	return nil
}
