package service

import (
	"context"
	"fmt"

	"document-approval-server/internal/model"
	"document-approval-server/internal/ports"
	"document-approval-server/internal/util"

	"github.com/jmoiron/sqlx"
)

type NotificationService struct {
	db                     sqlx.ExtContext
	notificationRepository ports.NotificationRepository
}

func NewNotificationService(db sqlx.ExtContext, notificationRepository ports.NotificationRepository) *NotificationService {
	return &NotificationService{db: db, notificationRepository: notificationRepository}
}

func (s *NotificationService) ListMine(ctx context.Context, actor model.Actor) ([]model.Notification, error) {
	if actor.UUID == "" {
		return nil, util.ErrUnauthorized
	}
	return s.notificationRepository.ListByUser(ctx, s.db, actor.UUID)
}

func (s *NotificationService) MarkRead(ctx context.Context, actor model.Actor, notificationUUID string) (*model.Notification, error) {
	if actor.UUID == "" {
		return nil, util.ErrUnauthorized
	}

	notification, err := s.notificationRepository.GetByUUID(ctx, s.db, notificationUUID)
	if err != nil {
		return nil, err
	}
	if notification.UserUUID != actor.UUID {
		return nil, fmt.Errorf("[NotificationService] уведомление %s: %w", notificationUUID, util.ErrForbidden)
	}

	if !notification.IsRead {
		if err := s.notificationRepository.MarkRead(ctx, s.db, notificationUUID); err != nil {
			return nil, err
		}
		notification.IsRead = true
	}
	return notification, nil
}
