package service

import (
	"context"
	"fmt"
	"strings"

	"document-approval-server/internal/ports"
	"document-approval-server/internal/util"

	"go.uber.org/zap"
)

// FileCleaner : удаление файлов после коммита. Ошибки не откатывают операцию:
// файл ставится в очередь повторов (если она есть), вызывающий получает предупреждение.
type FileCleaner struct {
	store ports.FileStore
	queue ports.CleanupQueue
}

// NewFileCleaner : queue может быть nil, тогда неудачи только логируются
func NewFileCleaner(store ports.FileStore, queue ports.CleanupQueue) *FileCleaner {
	return &FileCleaner{store: store, queue: queue}
}

func (c *FileCleaner) Cleanup(ctx context.Context, fileURLs ...string) string {
	var failed []string

	for _, fileURL := range fileURLs {
		if fileURL == "" {
			continue
		}

		err := c.store.DeleteIfExists(ctx, fileURL)
		if err == nil {
			zap.L().Debug("[FileCleaner] файл удалён", zap.String("file", fileURL))
			continue
		}

		util.LogWarn("[FileCleaner] не удалось удалить файл после коммита", err, zap.String("file", fileURL))
		failed = append(failed, fileURL)

		if c.queue != nil {
			if err := c.queue.EnqueueCleanup(ctx, fileURL); err != nil {
				util.LogWarn("[FileCleaner] не удалось отложить удаление файла", err, zap.String("file", fileURL))
			}
		}
	}

	if len(failed) == 0 {
		return ""
	}
	return fmt.Sprintf("изменения сохранены, но файлы не удалены: %s", strings.Join(failed, ", "))
}
