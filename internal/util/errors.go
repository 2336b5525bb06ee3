package util

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrNotFound     = errors.New("не найдено")
	ErrForbidden    = errors.New("доступ запрещён")
	ErrUnauthorized = errors.New("пользователь не авторизован")
	ErrInvalidState = errors.New("недопустимое состояние")
	ErrIntegrity    = errors.New("нарушение целостности данных")
	ErrInvalidInput = errors.New("неверные входные данные")

	// ErrAlreadyProcessed : запрос уже разрешён другим вызовом (мягкий отказ)
	ErrAlreadyProcessed = errors.New("запрос уже обработан")
)

// StatusCode : HTTP-код для ошибки сервиса
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrAlreadyProcessed):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage : текст ошибки для клиента. Для 4xx без префикса компонента,
// для 5xx без внутренних подробностей
func PublicMessage(err error) string {
	if errors.Is(err, ErrIntegrity) {
		return ErrIntegrity.Error()
	}
	if StatusCode(err) >= http.StatusInternalServerError {
		return "внутренняя ошибка сервера"
	}
	message := err.Error()
	if strings.HasPrefix(message, "[") {
		if end := strings.Index(message, "] "); end > 0 {
			message = message[end+2:]
		}
	}
	return message
}
