package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"document-approval-server/internal/ports"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Processor : обработчик задач для asynq worker
type Processor struct {
	store ports.FileStore
}

func NewProcessor(store ports.FileStore) *Processor {
	return &Processor{store: store}
}

func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(FileCleanupTask, p.HandleCleanup)
	return mux
}

// HandleCleanup : ошибка возвращается в asynq, который повторит задачу
func (p *Processor) HandleCleanup(ctx context.Context, task *asynq.Task) error {
	var payload CleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.FileURL == "" {
		return fmt.Errorf("пустое имя файла: %w", asynq.SkipRetry)
	}

	if err := p.store.DeleteIfExists(ctx, payload.FileURL); err != nil {
		zap.L().Warn("[CleanupWorker] повторное удаление не удалось",
			zap.String("file", payload.FileURL),
			zap.Error(err),
		)
		return err
	}

	zap.L().Info("[CleanupWorker] файл удалён", zap.String("file", payload.FileURL))
	return nil
}
