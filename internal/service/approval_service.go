package service

import (
	"context"
	"errors"
	"fmt"

	"document-approval-server/internal/model"
	"document-approval-server/internal/ports"
	"document-approval-server/internal/util"
	"document-approval-server/internal/workflow"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type ApprovalService struct {
	db                 sqlx.ExtContext
	documentRepository ports.DocumentRepository
	requestRepository  ports.PermissionRequestRepository
	cacheRepository    ports.CacheRepository
	notifier           ports.Notifier
	authorizer         ports.Authorizer
	cleaner            ports.FileCleaner
}

func NewApprovalService(
	db sqlx.ExtContext,
	documentRepository ports.DocumentRepository,
	requestRepository ports.PermissionRequestRepository,
	cacheRepository ports.CacheRepository,
	notifier ports.Notifier,
	authorizer ports.Authorizer,
	cleaner ports.FileCleaner,
) *ApprovalService {
	return &ApprovalService{
		db:                 db,
		documentRepository: documentRepository,
		requestRepository:  requestRepository,
		cacheRepository:    cacheRepository,
		notifier:           notifier,
		authorizer:         authorizer,
		cleaner:            cleaner,
	}
}

func (s *ApprovalService) ListPending(ctx context.Context, actor model.Actor) ([]model.PendingRequest, error) {
	if err := s.authorizer.Authorize(actor, model.ActionListPending, ""); err != nil {
		return nil, fmt.Errorf("[ApprovalService] список запросов: %w", err)
	}

	pending, err := s.requestRepository.ListPending(ctx, s.db)
	if err != nil {
		return nil, util.LogError("[ApprovalService] не удалось получить ожидающие запросы", err)
	}
	return pending, nil
}

// Resolve : применяет решение администратора в одной транзакции, файлы удаляются после коммита.
// Повторное решение по уже обработанному запросу возвращает Outcome{OK: false} без ошибки.
func (s *ApprovalService) Resolve(ctx context.Context, actor model.Actor, requestUUID string, decision model.Decision) (*model.Outcome, error) {
	if err := s.authorizer.Authorize(actor, model.ActionResolve, ""); err != nil {
		return nil, fmt.Errorf("[ApprovalService] решение по запросу: %w", err)
	}
	if decision != model.DecisionApprove && decision != model.DecisionReject {
		return nil, fmt.Errorf("[ApprovalService] неизвестное решение %q: %w", decision, util.ErrInvalidInput)
	}

	exec, rollback, commit, err := s.documentRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[ApprovalService] не удалось начать транзакцию", err)
	}
	defer rollback()

	request, err := s.requestRepository.GetByUUID(ctx, exec, requestUUID)
	if err != nil {
		return nil, err
	}
	if request.Status != model.RequestPending {
		return alreadyProcessed(request.Status), nil
	}

	document, err := s.documentRepository.GetByUUID(ctx, exec, request.DocumentUUID)
	if err != nil {
		return nil, err
	}

	plan, err := workflow.Resolve(document, request, decision)
	if errors.Is(err, util.ErrIntegrity) {
		return nil, s.unlockBrokenReplace(ctx, exec, commit, document, request, err)
	}
	if err != nil {
		return nil, fmt.Errorf("[ApprovalService] запрос %s: %w", requestUUID, err)
	}

	resolved := model.RequestRejected
	if decision == model.DecisionApprove {
		resolved = model.RequestApproved
	}

	// строка запроса меняется первой: конкурентное решение упрётся в неё и получит мягкий отказ
	if err := s.requestRepository.Resolve(ctx, exec, request.UUID, resolved); err != nil {
		if errors.Is(err, util.ErrAlreadyProcessed) {
			return alreadyProcessed(resolved), nil
		}
		return nil, err
	}

	switch {
	case plan.Remove:
		err = s.documentRepository.DeleteIfStatus(ctx, exec, document.UUID, plan.From)
	case plan.AdoptCandidate != "":
		err = s.documentRepository.AdoptFile(ctx, exec, document.UUID, plan.From, plan.AdoptCandidate)
	default:
		err = s.documentRepository.CompareAndSetStatus(ctx, exec, document.UUID, plan.From, plan.To)
	}
	if err != nil {
		return nil, err
	}

	if err := s.notifier.Notify(ctx, exec, request.RequestedByUUID, resolvedMessage(request.Type, resolved, document.Title)); err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[ApprovalService] не удалось закоммитить транзакцию", err)
	}

	invalidateDocument(ctx, s.cacheRepository, document.UUID)

	zap.L().Info("[ApprovalService] запрос обработан",
		zap.String("request", request.UUID),
		zap.String("type", string(request.Type)),
		zap.String("decision", string(decision)),
		zap.String("document", document.UUID),
		zap.String("admin", actor.UUID),
	)

	outcome := &model.Outcome{
		OK:          true,
		Message:     outcomeMessage(resolved),
		RequestUUID: request.UUID,
	}
	outcome.Warning = s.cleaner.Cleanup(ctx, plan.Cleanup...)

	return outcome, nil
}

// unlockBrokenReplace : одобрение замены без файла-кандидата. Документ возвращается в ACTIVE,
// запрос отклоняется, изменения коммитятся, вызывающий получает ErrIntegrity
func (s *ApprovalService) unlockBrokenReplace(
	ctx context.Context,
	exec sqlx.ExtContext,
	commit func() error,
	document *model.Document,
	request *model.PermissionRequest,
	cause error,
) error {
	if err := s.requestRepository.Resolve(ctx, exec, request.UUID, model.RequestRejected); err != nil {
		return err
	}
	if err := s.documentRepository.CompareAndSetStatus(ctx, exec, document.UUID, document.Status, model.DocumentActive); err != nil {
		return err
	}
	message := fmt.Sprintf("Запрос на замену файла документа «%s» отклонён: файл для замены не найден", document.Title)
	if err := s.notifier.Notify(ctx, exec, request.RequestedByUUID, message); err != nil {
		return err
	}
	if err := commit(); err != nil {
		return util.LogError("[ApprovalService] не удалось закоммитить разблокировку документа", err)
	}

	invalidateDocument(ctx, s.cacheRepository, document.UUID)

	return util.LogError(fmt.Sprintf("[ApprovalService] запрос %s: документ %s разблокирован", request.UUID, document.UUID), cause)
}

func alreadyProcessed(status model.RequestStatus) *model.Outcome {
	return &model.Outcome{
		OK:      false,
		Message: fmt.Sprintf("запрос уже обработан (%s)", status),
	}
}

func outcomeMessage(status model.RequestStatus) string {
	if status == model.RequestApproved {
		return "запрос одобрен"
	}
	return "запрос отклонён"
}

func resolvedMessage(requestType model.RequestType, status model.RequestStatus, title string) string {
	action := "удаление"
	if requestType == model.RequestReplace {
		action = "замену файла"
	}
	verdict := "отклонён"
	if status == model.RequestApproved {
		verdict = "одобрен"
	}
	return fmt.Sprintf("Ваш запрос на %s документа «%s» %s", action, title, verdict)
}
