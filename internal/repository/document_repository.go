package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"document-approval-server/config"
	"document-approval-server/internal/model"
	"document-approval-server/internal/util"

	"github.com/jmoiron/sqlx"
)

const documentColumns = `uuid, title, description, document_type, file_url, version, status, owner_uuid, created_at`

type DocumentRepository struct {
	*config.Database
}

func NewDocumentRepository(database *config.Database) *DocumentRepository {
	return &DocumentRepository{database}
}

// Create : сохраняем новый документ
func (r *DocumentRepository) Create(ctx context.Context, exec sqlx.ExtContext, document *model.Document) error {
	query := exec.Rebind(`
		INSERT INTO documents (uuid, title, description, document_type, file_url, version, status, owner_uuid, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := exec.ExecContext(
		ctx,
		query,
		document.UUID,
		document.Title,
		document.Description,
		document.DocumentType,
		document.FileURL,
		document.Version,
		document.Status,
		document.OwnerUUID,
		document.CreatedAt,
	)
	if err != nil {
		return util.LogError("[DocumentRepo] не удалось сохранить документ", err)
	}

	return nil
}

func (r *DocumentRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, documentUUID string) (*model.Document, error) {
	query := exec.Rebind(`SELECT ` + documentColumns + ` FROM documents WHERE uuid = ?`)

	var document model.Document
	err := sqlx.GetContext(ctx, exec, &document, query, documentUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("[DocumentRepo] документ %s: %w", documentUUID, util.ErrNotFound)
	}
	if err != nil {
		return nil, util.LogError("[DocumentRepo] не удалось получить документ", err)
	}

	return &document, nil
}

// List : страница документов (новые первыми). ownerUUID пустой -> документы всех пользователей
func (r *DocumentRepository) List(ctx context.Context, exec sqlx.ExtContext, ownerUUID string, query model.DocumentListQuery) ([]model.Document, int, error) {
	var conditions []string
	var args []interface{}

	if ownerUUID != "" {
		conditions = append(conditions, "owner_uuid = ?")
		args = append(args, ownerUUID)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		conditions = append(conditions, "(LOWER(title) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ? OR LOWER(document_type) LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := sqlx.GetContext(ctx, exec, &total, exec.Rebind(`SELECT COUNT(*) FROM documents`+where), args...); err != nil {
		return nil, 0, util.LogError("[DocumentRepo] не удалось посчитать документы", err)
	}

	listQuery := exec.Rebind(`SELECT ` + documentColumns + ` FROM documents` + where + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`)
	args = append(args, query.Limit, (query.Page-1)*query.Limit)

	docs := []model.Document{}
	if err := sqlx.SelectContext(ctx, exec, &docs, listQuery, args...); err != nil {
		return nil, 0, util.LogError("[DocumentRepo] не удалось получить список документов", err)
	}

	return docs, total, nil
}

// CompareAndSetStatus : меняет статус, только если он всё ещё равен from
func (r *DocumentRepository) CompareAndSetStatus(ctx context.Context, exec sqlx.ExtContext, documentUUID string, from, to model.DocumentStatus) error {
	query := exec.Rebind(`UPDATE documents SET status = ? WHERE uuid = ? AND status = ?`)
	result, err := exec.ExecContext(ctx, query, to, documentUUID, from)
	if err != nil {
		return util.LogError("[DocumentRepo] не удалось обновить статус документа", err)
	}
	return expectOneRow(result, fmt.Errorf("[DocumentRepo] статус документа %s уже не %s: %w", documentUUID, from, util.ErrInvalidState))
}

// UpdateMetadata : обновляет только непустые поля
func (r *DocumentRepository) UpdateMetadata(ctx context.Context, exec sqlx.ExtContext, documentUUID string, metadata model.DocumentMetadata) error {
	var sets []string
	var args []interface{}

	if metadata.Title != "" {
		sets = append(sets, "title = ?")
		args = append(args, metadata.Title)
	}
	if metadata.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *metadata.Description)
	}
	if metadata.DocumentType != "" {
		sets = append(sets, "document_type = ?")
		args = append(args, metadata.DocumentType)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, documentUUID)
	query := exec.Rebind(`UPDATE documents SET ` + strings.Join(sets, ", ") + ` WHERE uuid = ?`)
	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return util.LogError("[DocumentRepo] не удалось обновить метаданные документа", err)
	}
	return nil
}

// AdoptFile : принимает файл-кандидат, увеличивает версию и снимает блокировку
func (r *DocumentRepository) AdoptFile(ctx context.Context, exec sqlx.ExtContext, documentUUID string, from model.DocumentStatus, fileURL string) error {
	query := exec.Rebind(`
		UPDATE documents
		SET file_url = ?, version = version + 1, status = ?
		WHERE uuid = ? AND status = ?
	`)
	result, err := exec.ExecContext(ctx, query, fileURL, model.DocumentActive, documentUUID, from)
	if err != nil {
		return util.LogError("[DocumentRepo] не удалось заменить файл документа", err)
	}
	return expectOneRow(result, fmt.Errorf("[DocumentRepo] статус документа %s уже не %s: %w", documentUUID, from, util.ErrInvalidState))
}

// DeleteIfStatus : удаляет документ (запросы удаляются каскадно)
func (r *DocumentRepository) DeleteIfStatus(ctx context.Context, exec sqlx.ExtContext, documentUUID string, status model.DocumentStatus) error {
	query := exec.Rebind(`DELETE FROM documents WHERE uuid = ? AND status = ?`)
	result, err := exec.ExecContext(ctx, query, documentUUID, status)
	if err != nil {
		return util.LogError("[DocumentRepo] не удалось удалить документ", err)
	}
	return expectOneRow(result, fmt.Errorf("[DocumentRepo] статус документа %s уже не %s: %w", documentUUID, status, util.ErrInvalidState))
}

func (r *DocumentRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	return tx, tx.Rollback, tx.Commit, nil
}

func expectOneRow(result sql.Result, notMatched error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[Repository] не удалось проверить число изменённых строк", err)
	}
	if rowsAffected == 0 {
		return notMatched
	}
	return nil
}
