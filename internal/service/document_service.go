package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"document-approval-server/internal/model"
	"document-approval-server/internal/ports"
	"document-approval-server/internal/util"
	"document-approval-server/internal/workflow"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	defaultPage         = 1
	defaultLimit        = 10
	maxLimit            = 100
	recentRequestsLimit = 10
)

type DocumentService struct {
	db                 sqlx.ExtContext
	documentRepository ports.DocumentRepository
	requestRepository  ports.PermissionRequestRepository
	cacheRepository    ports.CacheRepository
	notifier           ports.Notifier
	authorizer         ports.Authorizer
}

// NewDocumentService : cacheRepository может быть nil (без Redis)
func NewDocumentService(
	db sqlx.ExtContext,
	documentRepository ports.DocumentRepository,
	requestRepository ports.PermissionRequestRepository,
	cacheRepository ports.CacheRepository,
	notifier ports.Notifier,
	authorizer ports.Authorizer,
) *DocumentService {
	return &DocumentService{
		db:                 db,
		documentRepository: documentRepository,
		requestRepository:  requestRepository,
		cacheRepository:    cacheRepository,
		notifier:           notifier,
		authorizer:         authorizer,
	}
}

// Create : регистрирует уже сохранённый файл как новый документ (ACTIVE, версия 1)
func (s *DocumentService) Create(ctx context.Context, actor model.Actor, metadata model.DocumentMetadata, fileURL string) (*model.Document, error) {
	if actor.UUID == "" {
		return nil, util.ErrUnauthorized
	}

	title := strings.TrimSpace(metadata.Title)
	documentType := strings.TrimSpace(metadata.DocumentType)
	if title == "" || documentType == "" {
		return nil, fmt.Errorf("[DocumentService] название и тип документа обязательны: %w", util.ErrInvalidInput)
	}
	if fileURL == "" {
		return nil, fmt.Errorf("[DocumentService] файл не загружен: %w", util.ErrInvalidInput)
	}

	document := &model.Document{
		UUID:         uuid.New().String(),
		Title:        title,
		Description:  metadata.Description,
		DocumentType: documentType,
		FileURL:      fileURL,
		Version:      1,
		Status:       model.DocumentActive,
		OwnerUUID:    actor.UUID,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.documentRepository.Create(ctx, s.db, document); err != nil {
		return nil, util.LogError("[DocumentService] не удалось сохранить документ в БД", err)
	}

	zap.L().Info("[DocumentService] документ создан",
		zap.String("document", document.UUID),
		zap.String("owner", actor.UUID),
	)
	return document, nil
}

// Get : документ вместе с последними запросами. Читается через кэш
func (s *DocumentService) Get(ctx context.Context, actor model.Actor, documentUUID string) (*model.DocumentDetails, error) {
	document, err := s.load(ctx, documentUUID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.Authorize(actor, model.ActionReadDocument, document.OwnerUUID); err != nil {
		return nil, fmt.Errorf("[DocumentService] документ %s: %w", documentUUID, err)
	}

	requests, err := s.RecentRequests(ctx, documentUUID)
	if err != nil {
		return nil, err
	}

	return &model.DocumentDetails{Document: document, Requests: requests}, nil
}

func (s *DocumentService) RecentRequests(ctx context.Context, documentUUID string) ([]model.PermissionRequest, error) {
	requests, err := s.requestRepository.ListByDocument(ctx, s.db, documentUUID, recentRequestsLimit)
	if err != nil {
		return nil, util.LogError("[DocumentService] не удалось получить запросы документа", err)
	}
	return requests, nil
}

// List : USER видит свои документы, ADMIN все
func (s *DocumentService) List(ctx context.Context, actor model.Actor, query model.DocumentListQuery) (*model.DocumentPage, error) {
	if actor.UUID == "" {
		return nil, util.ErrUnauthorized
	}

	if query.Page < 1 {
		query.Page = defaultPage
	}
	if query.Limit < 1 {
		query.Limit = defaultLimit
	}
	if query.Limit > maxLimit {
		query.Limit = maxLimit
	}

	ownerUUID := actor.UUID
	if s.authorizer.Authorize(actor, model.ActionListDocuments, "") == nil {
		ownerUUID = ""
	}

	documents, total, err := s.documentRepository.List(ctx, s.db, ownerUUID, query)
	if err != nil {
		return nil, util.LogError("[DocumentService] не удалось получить список документов", err)
	}

	return &model.DocumentPage{
		Page:       query.Page,
		Limit:      query.Limit,
		Total:      total,
		TotalPages: (total + query.Limit - 1) / query.Limit,
		Items:      documents,
	}, nil
}

func (s *DocumentService) RequestDelete(ctx context.Context, actor model.Actor, documentUUID string) (*model.Outcome, error) {
	return s.createRequest(ctx, actor, documentUUID, model.RequestDelete, "", model.DocumentMetadata{})
}

// RequestReplace : файл-кандидат уже сохранён вызывающим. Метаданные применяются сразу,
// файл только после одобрения
func (s *DocumentService) RequestReplace(ctx context.Context, actor model.Actor, documentUUID string, candidateFileURL string, metadata model.DocumentMetadata) (*model.Outcome, error) {
	if strings.TrimSpace(candidateFileURL) == "" {
		return nil, fmt.Errorf("[DocumentService] файл для замены не загружен: %w", util.ErrInvalidInput)
	}
	metadata.Title = strings.TrimSpace(metadata.Title)
	metadata.DocumentType = strings.TrimSpace(metadata.DocumentType)

	return s.createRequest(ctx, actor, documentUUID, model.RequestReplace, candidateFileURL, metadata)
}

func (s *DocumentService) createRequest(
	ctx context.Context,
	actor model.Actor,
	documentUUID string,
	requestType model.RequestType,
	candidateFileURL string,
	metadata model.DocumentMetadata,
) (*model.Outcome, error) {
	action := model.ActionRequestDelete
	if requestType == model.RequestReplace {
		action = model.ActionRequestReplace
	}

	exec, rollback, commit, err := s.documentRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[DocumentService] не удалось начать транзакцию", err)
	}
	defer rollback()

	document, err := s.documentRepository.GetByUUID(ctx, exec, documentUUID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.Authorize(actor, action, document.OwnerUUID); err != nil {
		return nil, fmt.Errorf("[DocumentService] документ %s: %w", documentUUID, err)
	}

	locked, err := workflow.Lock(document, requestType, candidateFileURL)
	if err != nil {
		return nil, fmt.Errorf("[DocumentService] документ %s: %w", documentUUID, err)
	}

	if err := s.documentRepository.CompareAndSetStatus(ctx, exec, documentUUID, document.Status, locked); err != nil {
		return nil, err
	}

	if requestType == model.RequestReplace {
		if err := s.documentRepository.UpdateMetadata(ctx, exec, documentUUID, metadata); err != nil {
			return nil, err
		}
	}

	request := &model.PermissionRequest{
		UUID:            uuid.New().String(),
		Type:            requestType,
		Status:          model.RequestPending,
		DocumentUUID:    documentUUID,
		RequestedByUUID: actor.UUID,
		CreatedAt:       time.Now().UTC(),
	}
	if candidateFileURL != "" {
		request.ReplaceFileURL = &candidateFileURL
	}

	if err := s.requestRepository.Create(ctx, exec, request); err != nil {
		return nil, err
	}

	title := document.Title
	if metadata.Title != "" {
		title = metadata.Title
	}
	if err := s.notifier.NotifyAdmins(ctx, exec, newRequestMessage(requestType, title)); err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[DocumentService] не удалось закоммитить транзакцию", err)
	}

	s.invalidate(ctx, documentUUID)

	zap.L().Info("[DocumentService] создан запрос",
		zap.String("request", request.UUID),
		zap.String("type", string(requestType)),
		zap.String("document", documentUUID),
	)

	return &model.Outcome{
		OK:               true,
		Message:          "запрос отправлен на согласование",
		RequestUUID:      request.UUID,
		CandidateFileURL: candidateFileURL,
	}, nil
}

func (s *DocumentService) load(ctx context.Context, documentUUID string) (*model.Document, error) {
	if s.cacheRepository != nil {
		document, err := s.cacheRepository.GetDocument(ctx, documentUUID)
		if err != nil {
			util.LogWarn("[DocumentService] ошибка чтения кэша", err)
		}
		if document != nil {
			return document, nil
		}
	}

	document, err := s.documentRepository.GetByUUID(ctx, s.db, documentUUID)
	if err != nil {
		return nil, err
	}

	if s.cacheRepository != nil {
		if err := s.cacheRepository.SetDocument(ctx, document); err != nil {
			util.LogWarn("[DocumentService] ошибка кэширования документа", err)
		}
	}
	return document, nil
}

func (s *DocumentService) invalidate(ctx context.Context, documentUUID string) {
	invalidateDocument(ctx, s.cacheRepository, documentUUID)
}

func invalidateDocument(ctx context.Context, cache ports.CacheRepository, documentUUID string) {
	if cache == nil {
		return
	}
	if err := cache.DeleteDocument(ctx, documentUUID); err != nil {
		util.LogWarn("[Cache] не удалось сбросить кэш документа", err, zap.String("document", documentUUID))
	}
}

func newRequestMessage(requestType model.RequestType, title string) string {
	if requestType == model.RequestDelete {
		return fmt.Sprintf("Новый запрос на удаление документа «%s»", title)
	}
	return fmt.Sprintf("Новый запрос на замену файла документа «%s»", title)
}
