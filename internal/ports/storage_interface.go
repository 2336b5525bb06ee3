package ports

import (
	"context"
	"io"
)

// FileStore : хранилище файлов по непрозрачному имени (local, S3, MinIO)
type FileStore interface {
	Save(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, fileURL string) (io.ReadCloser, error)
	// DeleteIfExists не возвращает ошибку, если файла уже нет
	DeleteIfExists(ctx context.Context, fileURL string) error
}

// CleanupQueue : отложенные повторные попытки удаления файлов
type CleanupQueue interface {
	EnqueueCleanup(ctx context.Context, fileURL string) error
}

// FileCleaner : удаление файлов после коммита. Возвращает предупреждение, если что-то не удалилось
type FileCleaner interface {
	Cleanup(ctx context.Context, fileURLs ...string) string
}
