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

const requestColumns = `uuid, type, status, document_uuid, requested_by_uuid, replace_file_url, created_at`

type PermissionRequestRepository struct {
	*config.Database
}

func NewPermissionRequestRepository(database *config.Database) *PermissionRequestRepository {
	return &PermissionRequestRepository{database}
}

func (r *PermissionRequestRepository) Create(ctx context.Context, exec sqlx.ExtContext, request *model.PermissionRequest) error {
	query := exec.Rebind(`
		INSERT INTO permission_requests (uuid, type, status, document_uuid, requested_by_uuid, replace_file_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := exec.ExecContext(ctx, query,
		request.UUID,
		request.Type,
		request.Status,
		request.DocumentUUID,
		request.RequestedByUUID,
		request.ReplaceFileURL,
		request.CreatedAt,
	)
	if err != nil {
		return util.LogError("[RequestRepo] не удалось сохранить запрос", err)
	}
	return nil
}

func (r *PermissionRequestRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, requestUUID string) (*model.PermissionRequest, error) {
	query := exec.Rebind(`SELECT ` + requestColumns + ` FROM permission_requests WHERE uuid = ?`)

	var request model.PermissionRequest
	err := sqlx.GetContext(ctx, exec, &request, query, requestUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("[RequestRepo] запрос %s: %w", requestUUID, util.ErrNotFound)
	}
	if err != nil {
		return nil, util.LogError("[RequestRepo] не удалось получить запрос", err)
	}
	return &request, nil
}

// ListPending : ожидающие запросы, новые первыми, вместе с документом и автором
func (r *PermissionRequestRepository) ListPending(ctx context.Context, exec sqlx.ExtContext) ([]model.PendingRequest, error) {
	query := exec.Rebind(`
		SELECT r.uuid, r.type, r.status, r.document_uuid, r.requested_by_uuid, r.replace_file_url, r.created_at,
		       d.title AS document_title, d.status AS document_status,
		       d.file_url AS document_file_url, d.version AS document_version,
		       u.email AS requester_email, u.role AS requester_role
		FROM permission_requests AS r
		INNER JOIN documents AS d ON d.uuid = r.document_uuid
		INNER JOIN users AS u ON u.uuid = r.requested_by_uuid
		WHERE r.status = ?
		ORDER BY r.created_at DESC
	`)

	pending := []model.PendingRequest{}
	if err := sqlx.SelectContext(ctx, exec, &pending, query, model.RequestPending); err != nil {
		return nil, util.LogError("[RequestRepo] не удалось получить ожидающие запросы", err)
	}
	return pending, nil
}

func (r *PermissionRequestRepository) ListByDocument(ctx context.Context, exec sqlx.ExtContext, documentUUID string, limit int) ([]model.PermissionRequest, error) {
	query := exec.Rebind(`
		SELECT ` + requestColumns + `
		FROM permission_requests
		WHERE document_uuid = ?
		ORDER BY created_at DESC
		LIMIT ?
	`)

	requests := []model.PermissionRequest{}
	if err := sqlx.SelectContext(ctx, exec, &requests, query, documentUUID, limit); err != nil {
		return nil, util.LogError("[RequestRepo] не удалось получить запросы документа", err)
	}
	return requests, nil
}

// Resolve : переводит PENDING запрос в итоговый статус и очищает файл-кандидат
func (r *PermissionRequestRepository) Resolve(ctx context.Context, exec sqlx.ExtContext, requestUUID string, status model.RequestStatus) error {
	query := exec.Rebind(`
		UPDATE permission_requests
		SET status = ?, replace_file_url = NULL
		WHERE uuid = ? AND status = ?
	`)
	result, err := exec.ExecContext(ctx, query, status, requestUUID, model.RequestPending)
	if err != nil {
		return util.LogError("[RequestRepo] не удалось обновить статус запроса", err)
	}
	return expectOneRow(result, fmt.Errorf("[RequestRepo] запрос %s: %w", requestUUID, util.ErrAlreadyProcessed))
}
