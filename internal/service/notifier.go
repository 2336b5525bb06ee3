package service

import (
	"context"
	"time"

	"document-approval-server/internal/model"
	"document-approval-server/internal/ports"
	"document-approval-server/internal/util"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// LedgerNotifier : уведомления пишутся строками в notifications через переданный exec,
// то есть в транзакции вызывающего
type LedgerNotifier struct {
	notificationRepository ports.NotificationRepository
	userRepository         ports.UserRepository
}

func NewLedgerNotifier(notificationRepository ports.NotificationRepository, userRepository ports.UserRepository) *LedgerNotifier {
	return &LedgerNotifier{
		notificationRepository: notificationRepository,
		userRepository:         userRepository,
	}
}

func (n *LedgerNotifier) Notify(ctx context.Context, exec sqlx.ExtContext, userUUID string, message string) error {
	notification := &model.Notification{
		UUID:      uuid.New().String(),
		UserUUID:  userUUID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := n.notificationRepository.Create(ctx, exec, notification); err != nil {
		return util.LogError("[Notifier] не удалось создать уведомление", err)
	}
	return nil
}

func (n *LedgerNotifier) NotifyAdmins(ctx context.Context, exec sqlx.ExtContext, message string) error {
	admins, err := n.userRepository.ListAdminUUIDs(ctx, exec)
	if err != nil {
		return util.LogError("[Notifier] не удалось получить администраторов", err)
	}

	for _, adminUUID := range admins {
		if err := n.Notify(ctx, exec, adminUUID, message); err != nil {
			return err
		}
	}
	return nil
}
