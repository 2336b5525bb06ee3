package ports

import (
	"context"

	"document-approval-server/internal/model"

	"github.com/jmoiron/sqlx"
)

type NotificationRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, notification *model.Notification) error
	GetByUUID(ctx context.Context, exec sqlx.ExtContext, notificationUUID string) (*model.Notification, error)
	ListByUser(ctx context.Context, exec sqlx.ExtContext, userUUID string) ([]model.Notification, error)
	MarkRead(ctx context.Context, exec sqlx.ExtContext, notificationUUID string) error
}

// Notifier : уведомление пишется в той же транзакции, что и изменения, которые его вызвали
type Notifier interface {
	Notify(ctx context.Context, exec sqlx.ExtContext, userUUID string, message string) error
	NotifyAdmins(ctx context.Context, exec sqlx.ExtContext, message string) error
}

type NotificationService interface {
	ListMine(ctx context.Context, actor model.Actor) ([]model.Notification, error)
	MarkRead(ctx context.Context, actor model.Actor, notificationUUID string) (*model.Notification, error)
}
