package model

import "time"

type DocumentStatus string

const (
	DocumentActive         DocumentStatus = "ACTIVE"
	DocumentPendingDelete  DocumentStatus = "PENDING_DELETE"
	DocumentPendingReplace DocumentStatus = "PENDING_REPLACE"
)

type Document struct {
	UUID         string         `db:"uuid" json:"uuid"`
	Title        string         `db:"title" json:"title"`
	Description  *string        `db:"description" json:"description,omitempty"`
	DocumentType string         `db:"document_type" json:"document_type"`
	FileURL      string         `db:"file_url" json:"file_url"`
	Version      int            `db:"version" json:"version"`
	Status       DocumentStatus `db:"status" json:"status"`
	OwnerUUID    string         `db:"owner_uuid" json:"owner_uuid"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

// DocumentMetadata : редактируемые поля документа. Для replace пустые поля не меняются
type DocumentMetadata struct {
	Title        string
	Description  *string
	DocumentType string
}

type DocumentListQuery struct {
	Search string
	Page   int
	Limit  int
}

type DocumentPage struct {
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	Total      int        `json:"total"`
	TotalPages int        `json:"totalPages"`
	Items      []Document `json:"items"`
}

type DocumentDetails struct {
	Document *Document          `json:"document"`
	Requests []PermissionRequest `json:"requests"`
}
