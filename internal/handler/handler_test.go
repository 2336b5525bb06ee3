package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"document-approval-server/internal/handler"
	"document-approval-server/internal/model"
	"document-approval-server/internal/security"
	"document-approval-server/internal/storage"
	"document-approval-server/internal/util"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ===== MOCKS =====

type MockDocumentService struct{ mock.Mock }

func (m *MockDocumentService) Create(ctx context.Context, actor model.Actor, metadata model.DocumentMetadata, fileURL string) (*model.Document, error) {
	args := m.Called(ctx, actor, metadata, fileURL)
	document, _ := args.Get(0).(*model.Document)
	return document, args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, actor model.Actor, documentUUID string) (*model.DocumentDetails, error) {
	args := m.Called(ctx, actor, documentUUID)
	details, _ := args.Get(0).(*model.DocumentDetails)
	return details, args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, actor model.Actor, query model.DocumentListQuery) (*model.DocumentPage, error) {
	args := m.Called(ctx, actor, query)
	page, _ := args.Get(0).(*model.DocumentPage)
	return page, args.Error(1)
}

func (m *MockDocumentService) RequestDelete(ctx context.Context, actor model.Actor, documentUUID string) (*model.Outcome, error) {
	args := m.Called(ctx, actor, documentUUID)
	outcome, _ := args.Get(0).(*model.Outcome)
	return outcome, args.Error(1)
}

func (m *MockDocumentService) RequestReplace(ctx context.Context, actor model.Actor, documentUUID string, candidateFileURL string, metadata model.DocumentMetadata) (*model.Outcome, error) {
	args := m.Called(ctx, actor, documentUUID, candidateFileURL, metadata)
	outcome, _ := args.Get(0).(*model.Outcome)
	return outcome, args.Error(1)
}

type MockApprovalService struct{ mock.Mock }

func (m *MockApprovalService) ListPending(ctx context.Context, actor model.Actor) ([]model.PendingRequest, error) {
	args := m.Called(ctx, actor)
	requests, _ := args.Get(0).([]model.PendingRequest)
	return requests, args.Error(1)
}

func (m *MockApprovalService) Resolve(ctx context.Context, actor model.Actor, requestUUID string, decision model.Decision) (*model.Outcome, error) {
	args := m.Called(ctx, actor, requestUUID, decision)
	outcome, _ := args.Get(0).(*model.Outcome)
	return outcome, args.Error(1)
}

type MockAuthenticationService struct{ mock.Mock }

func (m *MockAuthenticationService) Login(ctx context.Context, email, password string) (*model.AccessToken, error) {
	args := m.Called(ctx, email, password)
	token, _ := args.Get(0).(*model.AccessToken)
	return token, args.Error(1)
}

// ===== HELPERS =====

var (
	owner = model.Actor{UUID: "user-1", Role: model.RoleUser}
	admin = model.Actor{UUID: "admin-1", Role: model.RoleAdmin}
)

func withActor(req *http.Request, actor model.Actor) *http.Request {
	claims := &security.Claims{UserUUID: actor.UUID, Role: actor.Role}
	return req.WithContext(security.ContextWithClaims(req.Context(), claims))
}

func multipartBody(t *testing.T, fields map[string]string, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func newDocumentRouter(t *testing.T, service *MockDocumentService) (*chi.Mux, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	h := handler.NewDocumentHandler(service, store, 1)
	router := chi.NewRouter()
	router.Post("/api/documents", h.CreateDocument)
	router.Get("/api/documents", h.ListDocuments)
	router.Get("/api/documents/{id}/download", h.DownloadDocument)
	router.Post("/api/documents/{id}/request-replace", h.RequestReplace)

	return router, dir
}

func storedFiles(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

// ===== TESTS =====

func TestCreateDocument_Success(t *testing.T) {
	service := new(MockDocumentService)
	router, dir := newDocumentRouter(t, service)

	metadata := model.DocumentMetadata{Title: "Договор", DocumentType: "contract"}
	service.On("Create", mock.Anything, owner, metadata, mock.AnythingOfType("string")).
		Return(&model.Document{UUID: "doc-1", Title: "Договор", Status: model.DocumentActive, Version: 1}, nil)

	body, contentType := multipartBody(t, map[string]string{"title": "Договор", "documentType": "contract"}, "contract.PDF", "pdf-bytes")
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, withActor(req, owner))

	assert.Equal(t, http.StatusCreated, rec.Code)
	files := storedFiles(t, dir)
	require.Len(t, files, 1)
	assert.True(t, strings.HasSuffix(files[0], ".pdf"))

	fileURL := service.Calls[0].Arguments.String(3)
	assert.Equal(t, files[0], fileURL)
}

func TestCreateDocument_ServiceFailureRemovesUpload(t *testing.T) {
	service := new(MockDocumentService)
	router, dir := newDocumentRouter(t, service)

	service.On("Create", mock.Anything, owner, mock.Anything, mock.AnythingOfType("string")).
		Return(nil, fmt.Errorf("[DocumentService] название и тип документа обязательны: %w", util.ErrInvalidInput))

	body, contentType := multipartBody(t, map[string]string{"title": ""}, "a.txt", "text")
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, withActor(req, owner))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "название и тип документа обязательны")
	assert.Empty(t, storedFiles(t, dir))
}

func TestCreateDocument_WithoutFile(t *testing.T) {
	service := new(MockDocumentService)
	router, _ := newDocumentRouter(t, service)

	body, contentType := multipartBody(t, map[string]string{"title": "x", "documentType": "y"}, "", "")
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, withActor(req, owner))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateDocument_Unauthorized(t *testing.T) {
	service := new(MockDocumentService)
	router, _ := newDocumentRouter(t, service)

	req := httptest.NewRequest(http.MethodPost, "/api/documents", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestReplace_LockedDocumentRemovesCandidate(t *testing.T) {
	service := new(MockDocumentService)
	router, dir := newDocumentRouter(t, service)

	description := "новая редакция"
	metadata := model.DocumentMetadata{Description: &description}
	service.On("RequestReplace", mock.Anything, owner, "doc-1", mock.AnythingOfType("string"), metadata).
		Return(nil, fmt.Errorf("[DocumentService] документ doc-1: %w", util.ErrInvalidState))

	body, contentType := multipartBody(t, map[string]string{"description": "новая редакция"}, "v2.docx", "docx")
	req := httptest.NewRequest(http.MethodPost, "/api/documents/doc-1/request-replace", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, withActor(req, owner))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, storedFiles(t, dir))
	service.AssertExpectations(t)
}

func TestRequestReplace_Success(t *testing.T) {
	service := new(MockDocumentService)
	router, dir := newDocumentRouter(t, service)

	service.On("RequestReplace", mock.Anything, owner, "doc-1", mock.AnythingOfType("string"), model.DocumentMetadata{}).
		Return(&model.Outcome{OK: true, Message: "запрос отправлен на согласование", RequestUUID: "req-1"}, nil)

	body, contentType := multipartBody(t, nil, "v2.docx", "docx")
	req := httptest.NewRequest(http.MethodPost, "/api/documents/doc-1/request-replace", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, withActor(req, owner))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, storedFiles(t, dir), 1)

	var response struct {
		Data model.Outcome `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Data.OK)
	assert.Equal(t, "req-1", response.Data.RequestUUID)
}

func TestDownloadDocument(t *testing.T) {
	service := new(MockDocumentService)
	router, dir := newDocumentRouter(t, service)

	require.NoError(t, os.WriteFile(dir+"/stored.pdf", []byte("pdf-bytes"), 0o644))
	service.On("Get", mock.Anything, owner, "doc-1").Return(&model.DocumentDetails{
		Document: &model.Document{UUID: "doc-1", Title: "Годовой отчёт 2024", FileURL: "stored.pdf", Version: 3},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/documents/doc-1/download", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, withActor(req, owner))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pdf-bytes", rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "_v3.pdf")
}

func TestDownloadDocument_Forbidden(t *testing.T) {
	service := new(MockDocumentService)
	router, _ := newDocumentRouter(t, service)

	service.On("Get", mock.Anything, owner, "doc-1").Return(nil, fmt.Errorf("document:read: %w", util.ErrForbidden))

	req := httptest.NewRequest(http.MethodGet, "/api/documents/doc-1/download", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, withActor(req, owner))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListDocuments_QueryParams(t *testing.T) {
	service := new(MockDocumentService)
	router, _ := newDocumentRouter(t, service)

	query := model.DocumentListQuery{Search: "отчёт", Page: 2, Limit: 5}
	service.On("List", mock.Anything, admin, query).
		Return(&model.DocumentPage{Page: 2, Limit: 5, Total: 7, TotalPages: 2}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/documents?q=%D0%BE%D1%82%D1%87%D1%91%D1%82&page=2&limit=5", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, withActor(req, admin))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalPages":2`)
	service.AssertExpectations(t)
}

func TestApprovalHandler_Resolve(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		decision   model.Decision
		outcome    *model.Outcome
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "approve",
			path:       "/api/approvals/requests/req-1/approve",
			decision:   model.DecisionApprove,
			outcome:    &model.Outcome{OK: true, Message: "запрос одобрен"},
			wantStatus: http.StatusOK,
			wantBody:   `"ok":true`,
		},
		{
			name:       "already processed is not an error",
			path:       "/api/approvals/requests/req-1/reject",
			decision:   model.DecisionReject,
			outcome:    &model.Outcome{OK: false, Message: "запрос уже обработан (APPROVED)"},
			wantStatus: http.StatusOK,
			wantBody:   `"ok":false`,
		},
		{
			name:       "integrity fault",
			path:       "/api/approvals/requests/req-1/approve",
			decision:   model.DecisionApprove,
			err:        fmt.Errorf("[ApprovalService] нет файла для замены: %w", util.ErrIntegrity),
			wantStatus: http.StatusInternalServerError,
			wantBody:   util.ErrIntegrity.Error(),
		},
		{
			name:       "not found",
			path:       "/api/approvals/requests/req-1/reject",
			decision:   model.DecisionReject,
			err:        fmt.Errorf("[ApprovalService] запрос req-1: %w", util.ErrNotFound),
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockApprovalService)
			service.On("Resolve", mock.Anything, admin, "req-1", tt.decision).Return(tt.outcome, tt.err)

			h := handler.NewApprovalHandler(service)
			router := chi.NewRouter()
			router.Post("/api/approvals/requests/{id}/approve", h.Approve)
			router.Post("/api/approvals/requests/{id}/reject", h.Reject)

			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, withActor(req, admin))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
			service.AssertExpectations(t)
		})
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(m *MockAuthenticationService)
		wantStatus int
	}{
		{
			name:       "bad json",
			body:       "{",
			setup:      func(m *MockAuthenticationService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty fields",
			body:       `{"email":""}`,
			setup:      func(m *MockAuthenticationService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "wrong password",
			body: `{"email":"user@example.com","password":"bad"}`,
			setup: func(m *MockAuthenticationService) {
				m.On("Login", mock.Anything, "user@example.com", "bad").
					Return(nil, fmt.Errorf("[AuthenticationService] неверный email или пароль: %w", util.ErrUnauthorized))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "ok",
			body: `{"email":"user@example.com","password":"passw0rd"}`,
			setup: func(m *MockAuthenticationService) {
				m.On("Login", mock.Anything, "user@example.com", "passw0rd").
					Return(&model.AccessToken{AccessToken: "token"}, nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockAuthenticationService)
			tt.setup(service)

			h := handler.NewAuthenticationHandler(service)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Login(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			service.AssertExpectations(t)
		})
	}
}
