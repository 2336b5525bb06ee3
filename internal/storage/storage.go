// Package storage хранит файлы документов. fileUrl в БД это ключ объекта,
// одинаковый для всех бэкендов.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"document-approval-server/config"
	"document-approval-server/internal/ports"
	"document-approval-server/internal/util"

	"github.com/google/uuid"
)

const (
	BackendLocal = "local"
	BackendS3    = "s3"
	BackendMinio = "minio"
)

// New : выбирает реализацию по storage.backend
func New(ctx context.Context, cfg *config.StorageConfig) (ports.FileStore, error) {
	switch cfg.Backend {
	case BackendLocal, "":
		return NewLocalStore(cfg.LocalDir)
	case BackendS3:
		return NewS3Store(ctx, &cfg.S3)
	case BackendMinio:
		return NewMinioStore(ctx, &cfg.Minio)
	default:
		return nil, fmt.Errorf("неизвестный backend хранилища %q: %w", cfg.Backend, util.ErrInvalidInput)
	}
}

// objectKey : уникальное имя объекта с расширением исходного файла
func objectKey(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) > 16 || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}
	return uuid.New().String() + ext
}

// validKey : ключ всегда один сегмент пути, без выхода за пределы хранилища
func validKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("недопустимое имя файла %q: %w", key, util.ErrInvalidInput)
	}
	return nil
}
