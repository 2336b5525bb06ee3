package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"document-approval-server/config"
	"document-approval-server/internal/model"
	"document-approval-server/internal/util"

	"github.com/jmoiron/sqlx"
)

type NotificationRepository struct {
	*config.Database
}

func NewNotificationRepository(database *config.Database) *NotificationRepository {
	return &NotificationRepository{database}
}

func (r *NotificationRepository) Create(ctx context.Context, exec sqlx.ExtContext, notification *model.Notification) error {
	query := exec.Rebind(`
		INSERT INTO notifications (uuid, user_uuid, message, is_read, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	_, err := exec.ExecContext(ctx, query,
		notification.UUID,
		notification.UserUUID,
		notification.Message,
		notification.IsRead,
		notification.CreatedAt,
	)
	if err != nil {
		return util.LogError("[NotificationRepo] не удалось сохранить уведомление", err)
	}
	return nil
}

func (r *NotificationRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, notificationUUID string) (*model.Notification, error) {
	query := exec.Rebind(`SELECT uuid, user_uuid, message, is_read, created_at FROM notifications WHERE uuid = ?`)

	var notification model.Notification
	err := sqlx.GetContext(ctx, exec, &notification, query, notificationUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("[NotificationRepo] уведомление %s: %w", notificationUUID, util.ErrNotFound)
	}
	if err != nil {
		return nil, util.LogError("[NotificationRepo] не удалось получить уведомление", err)
	}
	return &notification, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, exec sqlx.ExtContext, userUUID string) ([]model.Notification, error) {
	query := exec.Rebind(`
		SELECT uuid, user_uuid, message, is_read, created_at
		FROM notifications
		WHERE user_uuid = ?
		ORDER BY created_at DESC
	`)

	notifications := []model.Notification{}
	if err := sqlx.SelectContext(ctx, exec, &notifications, query, userUUID); err != nil {
		return nil, util.LogError("[NotificationRepo] не удалось получить уведомления", err)
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, exec sqlx.ExtContext, notificationUUID string) error {
	query := exec.Rebind(`UPDATE notifications SET is_read = ? WHERE uuid = ?`)
	if _, err := exec.ExecContext(ctx, query, true, notificationUUID); err != nil {
		return util.LogError("[NotificationRepo] не удалось отметить уведомление", err)
	}
	return nil
}
