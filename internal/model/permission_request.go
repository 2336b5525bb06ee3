package model

import "time"

type RequestType string

const (
	RequestDelete  RequestType = "DELETE"
	RequestReplace RequestType = "REPLACE"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

type PermissionRequest struct {
	UUID            string        `db:"uuid" json:"uuid"`
	Type            RequestType   `db:"type" json:"type"`
	Status          RequestStatus `db:"status" json:"status"`
	DocumentUUID    string        `db:"document_uuid" json:"document_uuid"`
	RequestedByUUID string        `db:"requested_by_uuid" json:"requested_by_uuid"`
	ReplaceFileURL  *string       `db:"replace_file_url" json:"replace_file_url,omitempty"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
}

// PendingRequest : строка списка ожидающих запросов вместе с документом и автором
type PendingRequest struct {
	PermissionRequest
	DocumentTitle   string         `db:"document_title" json:"document_title"`
	DocumentStatus  DocumentStatus `db:"document_status" json:"document_status"`
	DocumentFileURL string         `db:"document_file_url" json:"document_file_url"`
	DocumentVersion int            `db:"document_version" json:"document_version"`
	RequesterEmail  string         `db:"requester_email" json:"requester_email"`
	RequesterRole   Role           `db:"requester_role" json:"requester_role"`
}

// Outcome : результат create/resolve. OK=false без ошибки означает мягкий отказ ("уже обработан")
type Outcome struct {
	OK               bool   `json:"ok"`
	Message          string `json:"message"`
	RequestUUID      string `json:"requestId,omitempty"`
	CandidateFileURL string `json:"replaceFileUrl,omitempty"`
	Warning          string `json:"warning,omitempty"`
}
