package ports

import (
	"context"

	"document-approval-server/internal/model"

	"github.com/jmoiron/sqlx"
)

// DocumentRepository : SQL слой документов
type DocumentRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, document *model.Document) error
	GetByUUID(ctx context.Context, exec sqlx.ExtContext, documentUUID string) (*model.Document, error)
	List(ctx context.Context, exec sqlx.ExtContext, ownerUUID string, query model.DocumentListQuery) ([]model.Document, int, error)
	CompareAndSetStatus(ctx context.Context, exec sqlx.ExtContext, documentUUID string, from, to model.DocumentStatus) error
	UpdateMetadata(ctx context.Context, exec sqlx.ExtContext, documentUUID string, metadata model.DocumentMetadata) error
	AdoptFile(ctx context.Context, exec sqlx.ExtContext, documentUUID string, from model.DocumentStatus, fileURL string) error
	DeleteIfStatus(ctx context.Context, exec sqlx.ExtContext, documentUUID string, status model.DocumentStatus) error
	BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error)
}

// PermissionRequestRepository : SQL слой запросов на удаление/замену
type PermissionRequestRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, request *model.PermissionRequest) error
	GetByUUID(ctx context.Context, exec sqlx.ExtContext, requestUUID string) (*model.PermissionRequest, error)
	ListPending(ctx context.Context, exec sqlx.ExtContext) ([]model.PendingRequest, error)
	ListByDocument(ctx context.Context, exec sqlx.ExtContext, documentUUID string, limit int) ([]model.PermissionRequest, error)
	Resolve(ctx context.Context, exec sqlx.ExtContext, requestUUID string, status model.RequestStatus) error
}

type DocumentService interface {
	Create(ctx context.Context, actor model.Actor, metadata model.DocumentMetadata, fileURL string) (*model.Document, error)
	Get(ctx context.Context, actor model.Actor, documentUUID string) (*model.DocumentDetails, error)
	List(ctx context.Context, actor model.Actor, query model.DocumentListQuery) (*model.DocumentPage, error)
	RequestDelete(ctx context.Context, actor model.Actor, documentUUID string) (*model.Outcome, error)
	RequestReplace(ctx context.Context, actor model.Actor, documentUUID string, candidateFileURL string, metadata model.DocumentMetadata) (*model.Outcome, error)
}

type ApprovalService interface {
	ListPending(ctx context.Context, actor model.Actor) ([]model.PendingRequest, error)
	Resolve(ctx context.Context, actor model.Actor, requestUUID string, decision model.Decision) (*model.Outcome, error)
}
