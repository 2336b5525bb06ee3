package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"document-approval-server/internal/util"

	"go.uber.org/zap"
)

// LocalStore : файлы на локальном диске в одном каталоге
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, util.LogError("[LocalStore] не удалось создать каталог", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (string, error) {
	key := objectKey(name)

	file, err := os.OpenFile(filepath.Join(s.dir, key), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", util.LogError("[LocalStore] не удалось создать файл", err)
	}

	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", util.LogError("[LocalStore] не удалось записать файл", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", util.LogError("[LocalStore] не удалось закрыть файл", err)
	}

	return key, nil
}

func (s *LocalStore) Open(ctx context.Context, fileURL string) (io.ReadCloser, error) {
	if err := validKey(fileURL); err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.dir, fileURL))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("[LocalStore] файл %s: %w", fileURL, util.ErrNotFound)
	}
	if err != nil {
		return nil, util.LogError("[LocalStore] не удалось открыть файл", err)
	}
	return file, nil
}

func (s *LocalStore) DeleteIfExists(ctx context.Context, fileURL string) error {
	if err := validKey(fileURL); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.dir, fileURL))
	if errors.Is(err, os.ErrNotExist) {
		zap.L().Debug("[LocalStore] файл уже удалён", zap.String("file", fileURL))
		return nil
	}
	if err != nil {
		return util.LogError("[LocalStore] не удалось удалить файл", err)
	}
	return nil
}
