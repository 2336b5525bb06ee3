package requestresponse

import "document-approval-server/internal/model"

// ErrorResponse : формат ошибки, который пишет util.HandleError
type ErrorResponse struct {
	Error   string `json:"error" example:"Conflict"`
	Message string `json:"message" example:"недопустимое состояние"`
	Code    int    `json:"code" example:"409"`
}

// DocumentResponse : документ вместе с последними запросами по нему
type DocumentResponse struct {
	Data model.DocumentDetails `json:"data"`
}

type CreateDocumentResponse struct {
	Data model.Document `json:"data"`
}

type ListDocumentsResponse = model.DocumentPage

// OutcomeResponse : результат создания запроса или решения по нему.
// ok=false без ошибки означает, что запрос уже обработан
type OutcomeResponse struct {
	Data model.Outcome `json:"data"`
}

type PendingRequestsResponse struct {
	Data []model.PendingRequest `json:"data"`
}

type NotificationsResponse struct {
	Data []model.Notification `json:"data"`
}

type NotificationResponse struct {
	Data model.Notification `json:"data"`
}
