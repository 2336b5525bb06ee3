// Package workflow содержит правила переходов статуса документа.
//
// Документ блокируется статусом PENDING_* на время жизни запроса, поэтому для одного документа
// одновременно существует не больше одного PENDING запроса. Пакет не ходит в БД: сервисы
// применяют полученный план внутри транзакции, сравнивая статус (compare-and-swap).
package workflow

import (
	"fmt"

	"document-approval-server/internal/model"
	"document-approval-server/internal/util"
)

type Event string

const (
	EventRequestDelete  Event = "REQUEST_DELETE"
	EventRequestReplace Event = "REQUEST_REPLACE"
	EventApprove        Event = "APPROVE"
	EventReject         Event = "REJECT"
)

// StatusRemoved : документ удалён, переходов из него нет
const StatusRemoved model.DocumentStatus = "REMOVED"

var transitions = map[model.DocumentStatus]map[Event]model.DocumentStatus{
	model.DocumentActive: {
		EventRequestDelete:  model.DocumentPendingDelete,
		EventRequestReplace: model.DocumentPendingReplace,
	},
	model.DocumentPendingDelete: {
		EventApprove: StatusRemoved,
		EventReject:  model.DocumentActive,
	},
	model.DocumentPendingReplace: {
		EventApprove: model.DocumentActive,
		EventReject:  model.DocumentActive,
	},
}

// Next : следующий статус или ErrInvalidState, если событие недопустимо в статусе from
func Next(from model.DocumentStatus, event Event) (model.DocumentStatus, error) {
	to, ok := transitions[from][event]
	if !ok {
		return "", fmt.Errorf("переход %s из статуса %s запрещён: %w", event, from, util.ErrInvalidState)
	}
	return to, nil
}

func IsValidStatus(status model.DocumentStatus) bool {
	_, ok := transitions[status]
	return ok
}

// PendingStatus : статус блокировки, соответствующий типу запроса
func PendingStatus(requestType model.RequestType) (model.DocumentStatus, error) {
	switch requestType {
	case model.RequestDelete:
		return model.DocumentPendingDelete, nil
	case model.RequestReplace:
		return model.DocumentPendingReplace, nil
	default:
		return "", fmt.Errorf("неизвестный тип запроса %q: %w", requestType, util.ErrInvalidInput)
	}
}

func requestEvent(requestType model.RequestType) (Event, error) {
	switch requestType {
	case model.RequestDelete:
		return EventRequestDelete, nil
	case model.RequestReplace:
		return EventRequestReplace, nil
	default:
		return "", fmt.Errorf("неизвестный тип запроса %q: %w", requestType, util.ErrInvalidInput)
	}
}

// Lock : проверяет, что документ можно заблокировать запросом, и возвращает статус блокировки
func Lock(document *model.Document, requestType model.RequestType, candidateFileURL string) (model.DocumentStatus, error) {
	event, err := requestEvent(requestType)
	if err != nil {
		return "", err
	}
	if requestType == model.RequestReplace && candidateFileURL == "" {
		return "", fmt.Errorf("для замены нужен уже сохранённый файл: %w", util.ErrInvalidInput)
	}

	to, err := Next(document.Status, event)
	if err != nil {
		return "", fmt.Errorf("документ заблокирован запросом, текущий статус %s: %w", document.Status, util.ErrInvalidState)
	}
	return to, nil
}

// Resolution : план применения решения администратора.
// Cleanup заполняется до транзакции: транзакция обнуляет replace_file_url.
type Resolution struct {
	From           model.DocumentStatus
	To             model.DocumentStatus
	Remove         bool
	AdoptCandidate string
	Cleanup        []string
}

// Resolve : проверяет, что статус документа соответствует типу запроса, и строит план.
// Запрос должен быть PENDING: повторную обработку вызывающий отсекает сам как мягкий отказ.
// Для APPROVE+REPLACE без кандидата возвращается ErrIntegrity вместе с планом разблокировки.
func Resolve(document *model.Document, request *model.PermissionRequest, decision model.Decision) (Resolution, error) {
	if request.Status != model.RequestPending {
		return Resolution{}, fmt.Errorf("запрос уже в статусе %s: %w", request.Status, util.ErrInvalidState)
	}

	expected, err := PendingStatus(request.Type)
	if err != nil {
		return Resolution{}, err
	}
	if document.Status != expected {
		return Resolution{}, fmt.Errorf("статус документа %s не подходит для %s запроса %s: %w",
			document.Status, decision, request.Type, util.ErrInvalidState)
	}

	var event Event
	switch decision {
	case model.DecisionApprove:
		event = EventApprove
	case model.DecisionReject:
		event = EventReject
	default:
		return Resolution{}, fmt.Errorf("неизвестное решение %q: %w", decision, util.ErrInvalidInput)
	}

	to, err := Next(document.Status, event)
	if err != nil {
		return Resolution{}, err
	}

	plan := Resolution{From: document.Status, To: to, Remove: to == StatusRemoved}

	switch {
	case decision == model.DecisionApprove && request.Type == model.RequestDelete:
		plan.Cleanup = []string{document.FileURL}
	case decision == model.DecisionApprove && request.Type == model.RequestReplace:
		if request.ReplaceFileURL == nil || *request.ReplaceFileURL == "" {
			return Resolution{From: document.Status, To: model.DocumentActive},
				fmt.Errorf("у запроса на замену нет файла-кандидата: %w", util.ErrIntegrity)
		}
		plan.AdoptCandidate = *request.ReplaceFileURL
		plan.Cleanup = []string{document.FileURL}
	case decision == model.DecisionReject && request.Type == model.RequestReplace:
		if request.ReplaceFileURL != nil && *request.ReplaceFileURL != "" {
			plan.Cleanup = []string{*request.ReplaceFileURL}
		}
	}

	return plan, nil
}
