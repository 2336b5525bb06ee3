package service_test

import (
	"context"
	"database/sql"
	"io"

	"document-approval-server/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

// ===== MOCKS =====

type MockDocumentRepository struct{ mock.Mock }

func (m *MockDocumentRepository) Create(ctx context.Context, exec sqlx.ExtContext, doc *model.Document) error {
	return m.Called(ctx, exec, doc).Error(0)
}

func (m *MockDocumentRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, documentUUID string) (*model.Document, error) {
	args := m.Called(ctx, exec, documentUUID)
	if doc, ok := args.Get(0).(*model.Document); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, exec sqlx.ExtContext, ownerUUID string, query model.DocumentListQuery) ([]model.Document, int, error) {
	args := m.Called(ctx, exec, ownerUUID, query)
	docs, _ := args.Get(0).([]model.Document)
	return docs, args.Int(1), args.Error(2)
}

func (m *MockDocumentRepository) CompareAndSetStatus(ctx context.Context, exec sqlx.ExtContext, documentUUID string, from, to model.DocumentStatus) error {
	return m.Called(ctx, exec, documentUUID, from, to).Error(0)
}

func (m *MockDocumentRepository) UpdateMetadata(ctx context.Context, exec sqlx.ExtContext, documentUUID string, metadata model.DocumentMetadata) error {
	return m.Called(ctx, exec, documentUUID, metadata).Error(0)
}

func (m *MockDocumentRepository) AdoptFile(ctx context.Context, exec sqlx.ExtContext, documentUUID string, from model.DocumentStatus, fileURL string) error {
	return m.Called(ctx, exec, documentUUID, from, fileURL).Error(0)
}

func (m *MockDocumentRepository) DeleteIfStatus(ctx context.Context, exec sqlx.ExtContext, documentUUID string, status model.DocumentStatus) error {
	return m.Called(ctx, exec, documentUUID, status).Error(0)
}

func (m *MockDocumentRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	args := m.Called(ctx)
	exec, _ := args.Get(0).(sqlx.ExtContext)
	rollback, _ := args.Get(1).(func() error)
	commit, _ := args.Get(2).(func() error)
	return exec, rollback, commit, args.Error(3)
}

type MockRequestRepository struct{ mock.Mock }

func (m *MockRequestRepository) Create(ctx context.Context, exec sqlx.ExtContext, request *model.PermissionRequest) error {
	return m.Called(ctx, exec, request).Error(0)
}

func (m *MockRequestRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, requestUUID string) (*model.PermissionRequest, error) {
	args := m.Called(ctx, exec, requestUUID)
	if request, ok := args.Get(0).(*model.PermissionRequest); ok {
		return request, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRequestRepository) ListPending(ctx context.Context, exec sqlx.ExtContext) ([]model.PendingRequest, error) {
	args := m.Called(ctx, exec)
	pending, _ := args.Get(0).([]model.PendingRequest)
	return pending, args.Error(1)
}

func (m *MockRequestRepository) ListByDocument(ctx context.Context, exec sqlx.ExtContext, documentUUID string, limit int) ([]model.PermissionRequest, error) {
	args := m.Called(ctx, exec, documentUUID, limit)
	requests, _ := args.Get(0).([]model.PermissionRequest)
	return requests, args.Error(1)
}

func (m *MockRequestRepository) Resolve(ctx context.Context, exec sqlx.ExtContext, requestUUID string, status model.RequestStatus) error {
	return m.Called(ctx, exec, requestUUID, status).Error(0)
}

type MockCacheRepository struct{ mock.Mock }

func (m *MockCacheRepository) SetDocument(ctx context.Context, doc *model.Document) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockCacheRepository) GetDocument(ctx context.Context, uuid string) (*model.Document, error) {
	args := m.Called(ctx, uuid)
	if doc, ok := args.Get(0).(*model.Document); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCacheRepository) DeleteDocument(ctx context.Context, uuid string) error {
	return m.Called(ctx, uuid).Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, exec sqlx.ExtContext, userUUID string, message string) error {
	return m.Called(ctx, exec, userUUID, message).Error(0)
}

func (m *MockNotifier) NotifyAdmins(ctx context.Context, exec sqlx.ExtContext, message string) error {
	return m.Called(ctx, exec, message).Error(0)
}

type MockFileCleaner struct{ mock.Mock }

func (m *MockFileCleaner) Cleanup(ctx context.Context, fileURLs ...string) string {
	return m.Called(ctx, fileURLs).String(0)
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

type MockCleanupQueue struct{ mock.Mock }

func (m *MockCleanupQueue) EnqueueCleanup(ctx context.Context, fileURL string) error {
	return m.Called(ctx, fileURL).Error(0)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) error {
	return m.Called(ctx, exec, user).Error(0)
}

func (m *MockUserRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.User, error) {
	args := m.Called(ctx, exec, uuid)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error) {
	args := m.Called(ctx, exec, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, exec sqlx.ExtContext, uuid string, role model.Role) error {
	return m.Called(ctx, exec, uuid, role).Error(0)
}

func (m *MockUserRepository) ListAdminUUIDs(ctx context.Context, exec sqlx.ExtContext) ([]string, error) {
	args := m.Called(ctx, exec)
	admins, _ := args.Get(0).([]string)
	return admins, args.Error(1)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Create(ctx context.Context, exec sqlx.ExtContext, notification *model.Notification) error {
	return m.Called(ctx, exec, notification).Error(0)
}

func (m *MockNotificationRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, notificationUUID string) (*model.Notification, error) {
	args := m.Called(ctx, exec, notificationUUID)
	if n, ok := args.Get(0).(*model.Notification); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, exec sqlx.ExtContext, userUUID string) ([]model.Notification, error) {
	args := m.Called(ctx, exec, userUUID)
	notifications, _ := args.Get(0).([]model.Notification)
	return notifications, args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, exec sqlx.ExtContext, notificationUUID string) error {
	return m.Called(ctx, exec, notificationUUID).Error(0)
}

type MockTokenIssuer struct{ mock.Mock }

func (m *MockTokenIssuer) GenerateAccessToken(user *model.User) (*model.AccessToken, error) {
	args := m.Called(user)
	if token, ok := args.Get(0).(*model.AccessToken); ok {
		return token, args.Error(1)
	}
	return nil, args.Error(1)
}

// ===== fakeTx : sqlx.ExtContext без БД =====

type fakeTx struct{}

func (f *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (f *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}
func (f *fakeTx) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	return nil, nil
}
func (f *fakeTx) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	return nil
}
func (f *fakeTx) BindNamed(query string, arg interface{}) (string, []interface{}, error) {
	return query, nil, nil
}
func (f *fakeTx) DriverName() string         { return "fake" }
func (f *fakeTx) Rebind(query string) string { return query }

// txState : фиксирует, был ли коммит
type txState struct {
	committed bool
}

func (s *txState) commit() error   { s.committed = true; return nil }
func (s *txState) rollback() error { return nil }
