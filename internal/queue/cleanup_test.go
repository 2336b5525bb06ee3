package queue_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"document-approval-server/internal/queue"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEnqueuer struct{ mock.Mock }

func (m *MockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task, opts)
	if info, ok := args.Get(0).(*asynq.TaskInfo); ok {
		return info, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockFileStore struct{ mock.Mock }

func (m *MockFileStore) Save(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, name, reader, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockFileStore) Open(ctx context.Context, fileURL string) (io.ReadCloser, error) {
	args := m.Called(ctx, fileURL)
	if rc, ok := args.Get(0).(io.ReadCloser); ok {
		return rc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFileStore) DeleteIfExists(ctx context.Context, fileURL string) error {
	return m.Called(ctx, fileURL).Error(0)
}

func TestCleanupQueue_EnqueueCleanup(t *testing.T) {
	ctx := context.Background()

	t.Run("task carries file name", func(t *testing.T) {
		enqueuer := new(MockEnqueuer)
		enqueuer.On("EnqueueContext", ctx, mock.MatchedBy(func(task *asynq.Task) bool {
			var payload queue.CleanupPayload
			return task.Type() == queue.FileCleanupTask &&
				json.Unmarshal(task.Payload(), &payload) == nil &&
				payload.FileURL == "old.pdf"
		}), mock.Anything).Return(&asynq.TaskInfo{ID: "task-1"}, nil)

		err := queue.NewCleanupQueue(enqueuer, 3).EnqueueCleanup(ctx, "old.pdf")

		assert.NoError(t, err)
		enqueuer.AssertExpectations(t)
	})

	t.Run("redis unavailable", func(t *testing.T) {
		enqueuer := new(MockEnqueuer)
		enqueuer.On("EnqueueContext", ctx, mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: refused"))

		err := queue.NewCleanupQueue(enqueuer, 3).EnqueueCleanup(ctx, "old.pdf")

		assert.Error(t, err)
	})
}

func TestProcessor_HandleCleanup(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		payload    []byte
		setupMocks func(store *MockFileStore)
		wantErr    bool
		skipRetry  bool
	}{
		{
			name:    "deleted",
			payload: []byte(`{"file_url":"old.pdf"}`),
			setupMocks: func(store *MockFileStore) {
				store.On("DeleteIfExists", ctx, "old.pdf").Return(nil)
			},
		},
		{
			name:    "store error is retried",
			payload: []byte(`{"file_url":"old.pdf"}`),
			setupMocks: func(store *MockFileStore) {
				store.On("DeleteIfExists", ctx, "old.pdf").Return(errors.New("disk busy"))
			},
			wantErr: true,
		},
		{
			name:       "broken payload is not retried",
			payload:    []byte(`{`),
			setupMocks: func(store *MockFileStore) {},
			wantErr:    true,
			skipRetry:  true,
		},
		{
			name:       "empty file name is not retried",
			payload:    []byte(`{}`),
			setupMocks: func(store *MockFileStore) {},
			wantErr:    true,
			skipRetry:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockFileStore)
			tt.setupMocks(store)

			err := queue.NewProcessor(store).HandleCleanup(ctx, asynq.NewTask(queue.FileCleanupTask, tt.payload))

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.skipRetry, errors.Is(err, asynq.SkipRetry))
			} else {
				assert.NoError(t, err)
			}
			store.AssertExpectations(t)
		})
	}
}
