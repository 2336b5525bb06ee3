package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"document-approval-server/internal/util"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	// FileCleanupTask ставится, когда удаление файла после коммита не удалось
	FileCleanupTask = "file:cleanup"
)

type CleanupPayload struct {
	FileURL string `json:"file_url"`
}

func NewCleanupTask(fileURL string) (*asynq.Task, error) {
	data, err := json.Marshal(CleanupPayload{FileURL: fileURL})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(FileCleanupTask, data), nil
}

// Enqueuer : минимальная часть asynq.Client, нужная для постановки задач
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type CleanupQueue struct {
	client   Enqueuer
	maxRetry int
}

func NewCleanupQueue(client Enqueuer, maxRetry int) *CleanupQueue {
	return &CleanupQueue{client: client, maxRetry: maxRetry}
}

func (q *CleanupQueue) EnqueueCleanup(ctx context.Context, fileURL string) error {
	task, err := NewCleanupTask(fileURL)
	if err != nil {
		return util.LogError("[CleanupQueue] не удалось сформировать задачу", err)
	}

	info, err := q.client.EnqueueContext(ctx, task, asynq.MaxRetry(q.maxRetry))
	if err != nil {
		return util.LogError("[CleanupQueue] не удалось поставить задачу в очередь", err)
	}

	zap.L().Info("[CleanupQueue] удаление файла отложено",
		zap.String("file", fileURL),
		zap.String("task_id", info.ID),
	)
	return nil
}
