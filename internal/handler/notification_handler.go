package handler

import (
	"net/http"

	"document-approval-server/internal/model/requestresponse"
	"document-approval-server/internal/ports"
	"document-approval-server/internal/util"

	"github.com/go-chi/chi/v5"
)

type NotificationHandler struct {
	ports.NotificationService
}

func NewNotificationHandler(notificationService ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService}
}

// ListNotifications godoc
// @Summary Мои уведомления
// @Tags Notifications
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.NotificationsResponse "Уведомления, новые сверху"
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Router /api/notifications [get]
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	notifications, err := h.NotificationService.ListMine(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.NotificationsResponse{Data: notifications})
}

// MarkRead godoc
// @Summary Отметить уведомление прочитанным
// @Tags Notifications
// @Produce json
// @Param id path string true "UUID уведомления"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.NotificationResponse "Уведомление"
// @Failure 403 {object} requestresponse.ErrorResponse "Чужое уведомление"
// @Failure 404 {object} requestresponse.ErrorResponse "Уведомление не найдено"
// @Router /api/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	notification, err := h.NotificationService.MarkRead(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.NotificationResponse{Data: *notification})
}
