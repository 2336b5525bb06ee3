package handler

import (
	"net/http"

	"document-approval-server/internal/model"
	"document-approval-server/internal/model/requestresponse"
	"document-approval-server/internal/ports"
	"document-approval-server/internal/util"

	"github.com/go-chi/chi/v5"
)

type ApprovalHandler struct {
	ports.ApprovalService
}

func NewApprovalHandler(approvalService ports.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService}
}

// ListPending godoc
// @Summary Запросы, ожидающие решения
// @Description Только для администратора. Новые сверху, с данными документа и автора запроса.
// @Tags Approvals
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.PendingRequestsResponse "Список запросов"
// @Failure 403 {object} requestresponse.ErrorResponse "Нет доступа"
// @Router /api/approvals/requests [get]
func (h *ApprovalHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	requests, err := h.ApprovalService.ListPending(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.PendingRequestsResponse{Data: requests})
}

// Approve godoc
// @Summary Одобрить запрос
// @Description Удаление: документ удаляется. Замена: файл-кандидат становится текущим, версия +1.
// @Description Если запрос уже обработан, ok=false и код 200.
// @Tags Approvals
// @Produce json
// @Param id path string true "UUID запроса"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.OutcomeResponse "Решение принято"
// @Failure 403 {object} requestresponse.ErrorResponse "Нет доступа"
// @Failure 404 {object} requestresponse.ErrorResponse "Запрос не найден"
// @Failure 409 {object} requestresponse.ErrorResponse "Документ в неожиданном состоянии"
// @Failure 500 {object} requestresponse.ErrorResponse "Нарушение целостности данных"
// @Router /api/approvals/requests/{id}/approve [post]
func (h *ApprovalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, model.DecisionApprove)
}

// Reject godoc
// @Summary Отклонить запрос
// @Description Документ разблокируется, файл-кандидат (для замены) удаляется.
// @Description Если запрос уже обработан, ok=false и код 200.
// @Tags Approvals
// @Produce json
// @Param id path string true "UUID запроса"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.OutcomeResponse "Решение принято"
// @Failure 403 {object} requestresponse.ErrorResponse "Нет доступа"
// @Failure 404 {object} requestresponse.ErrorResponse "Запрос не найден"
// @Failure 409 {object} requestresponse.ErrorResponse "Документ в неожиданном состоянии"
// @Router /api/approvals/requests/{id}/reject [post]
func (h *ApprovalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, model.DecisionReject)
}

func (h *ApprovalHandler) resolve(w http.ResponseWriter, r *http.Request, decision model.Decision) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	outcome, err := h.ApprovalService.Resolve(r.Context(), actor, chi.URLParam(r, "id"), decision)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.OutcomeResponse{Data: *outcome})
}
