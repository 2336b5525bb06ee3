package handler

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"document-approval-server/internal/model"
	"document-approval-server/internal/model/requestresponse"
	"document-approval-server/internal/ports"
	"document-approval-server/internal/util"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	ports.DocumentService
	store          ports.FileStore
	maxUploadBytes int64
}

func NewDocumentHandler(documentService ports.DocumentService, store ports.FileStore, maxUploadMB int) *DocumentHandler {
	return &DocumentHandler{
		DocumentService: documentService,
		store:           store,
		maxUploadBytes:  int64(maxUploadMB) << 20,
	}
}

// CreateDocument godoc
// @Summary Загрузка нового документа
// @Description Принимает файл и мета-данные (multipart/form-data). Документ создаётся в статусе ACTIVE, версия 1.
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Название документа"
// @Param description formData string false "Описание"
// @Param documentType formData string true "Тип документа"
// @Param file formData file true "Файл документа"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.CreateDocumentResponse "Документ создан"
// @Failure 400 {object} requestresponse.ErrorResponse "Неверный формат запроса или мета-данных"
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/documents [post]
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	file, header, ok := h.parseUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	fileURL, err := h.store.Save(ctx, header.Filename, file, header.Size, util.ContentType(header.Filename))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	document, err := h.DocumentService.Create(ctx, actor, metadataFromForm(r), fileURL)
	if err != nil {
		h.discardUpload(ctx, fileURL)
		writeServiceError(w, r, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, requestresponse.CreateDocumentResponse{Data: *document})
}

// ListDocuments godoc
// @Summary Список документов
// @Description Пользователь видит свои документы, администратор все. Поиск без учёта регистра по названию, описанию и типу.
// @Tags Documents
// @Produce json
// @Param q query string false "Строка поиска"
// @Param page query int false "Номер страницы" default(1)
// @Param limit query int false "Размер страницы (макс. 100)" default(10)
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListDocumentsResponse "Страница документов"
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/documents [get]
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	query := model.DocumentListQuery{
		Search: strings.TrimSpace(r.URL.Query().Get("q")),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	}

	page, err := h.DocumentService.List(r.Context(), actor, query)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, page)
}

// GetDocument godoc
// @Summary Получение документа
// @Description Документ и последние 10 запросов по нему. Доступно владельцу и администратору.
// @Tags Documents
// @Produce json
// @Param id path string true "UUID документа"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.DocumentResponse "Документ"
// @Failure 403 {object} requestresponse.ErrorResponse "Нет доступа"
// @Failure 404 {object} requestresponse.ErrorResponse "Документ не найден"
// @Router /api/documents/{id} [get]
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	details, err := h.DocumentService.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.DocumentResponse{Data: *details})
}

// DownloadDocument godoc
// @Summary Скачивание текущей версии файла
// @Description Имя файла в ответе: <название>_v<версия><расширение>
// @Tags Documents
// @Produce octet-stream
// @Param id path string true "UUID документа"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {file} file "Содержимое файла"
// @Failure 403 {object} requestresponse.ErrorResponse "Нет доступа"
// @Failure 404 {object} requestresponse.ErrorResponse "Документ или файл не найден"
// @Router /api/documents/{id}/download [get]
func (h *DocumentHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	details, err := h.DocumentService.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	document := details.Document

	reader, err := h.store.Open(r.Context(), document.FileURL)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer reader.Close()

	filename := downloadName(document)
	w.Header().Set("Content-Type", util.ContentType(filename))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, reader); err != nil {
		zap.L().Warn("[DocumentHandler] передача файла прервана",
			zap.String("document", document.UUID),
			zap.Error(err),
		)
	}
}

// RequestDelete godoc
// @Summary Запрос на удаление документа
// @Description Документ блокируется (PENDING_DELETE) до решения администратора
// @Tags Documents
// @Produce json
// @Param id path string true "UUID документа"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.OutcomeResponse "Запрос создан"
// @Failure 403 {object} requestresponse.ErrorResponse "Нет доступа"
// @Failure 404 {object} requestresponse.ErrorResponse "Документ не найден"
// @Failure 409 {object} requestresponse.ErrorResponse "Документ уже заблокирован другим запросом"
// @Router /api/documents/{id}/request-delete [post]
func (h *DocumentHandler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	outcome, err := h.DocumentService.RequestDelete(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, requestresponse.OutcomeResponse{Data: *outcome})
}

// RequestReplace godoc
// @Summary Запрос на замену файла документа
// @Description Новый файл хранится как кандидат до решения администратора. Мета-данные применяются сразу.
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "UUID документа"
// @Param file formData file true "Новый файл"
// @Param title formData string false "Новое название"
// @Param description formData string false "Новое описание"
// @Param documentType formData string false "Новый тип"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.OutcomeResponse "Запрос создан"
// @Failure 400 {object} requestresponse.ErrorResponse "Файл не передан"
// @Failure 403 {object} requestresponse.ErrorResponse "Нет доступа"
// @Failure 404 {object} requestresponse.ErrorResponse "Документ не найден"
// @Failure 409 {object} requestresponse.ErrorResponse "Документ уже заблокирован другим запросом"
// @Router /api/documents/{id}/request-replace [post]
func (h *DocumentHandler) RequestReplace(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	file, header, ok := h.parseUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	candidateURL, err := h.store.Save(ctx, header.Filename, file, header.Size, util.ContentType(header.Filename))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	outcome, err := h.DocumentService.RequestReplace(ctx, actor, chi.URLParam(r, "id"), candidateURL, metadataFromForm(r))
	if err != nil {
		h.discardUpload(ctx, candidateURL)
		writeServiceError(w, r, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, requestresponse.OutcomeResponse{Data: *outcome})
}

func (h *DocumentHandler) parseUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	if err := r.ParseMultipartForm(1 << 20); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return nil, nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		util.HandleError(w, "файл не найден в запросе", http.StatusBadRequest)
		return nil, nil, false
	}

	return file, header, true
}

// discardUpload : файл уже сохранён, а запрос не прошёл
func (h *DocumentHandler) discardUpload(ctx context.Context, fileURL string) {
	if err := h.store.DeleteIfExists(context.WithoutCancel(ctx), fileURL); err != nil {
		util.LogWarn("[DocumentHandler] не удалось удалить загруженный файл", err, zap.String("file", fileURL))
	}
}

func metadataFromForm(r *http.Request) model.DocumentMetadata {
	metadata := model.DocumentMetadata{
		Title:        strings.TrimSpace(r.FormValue("title")),
		DocumentType: strings.TrimSpace(r.FormValue("documentType")),
	}
	if _, ok := r.MultipartForm.Value["description"]; ok {
		description := strings.TrimSpace(r.FormValue("description"))
		metadata.Description = &description
	}
	return metadata
}

func queryInt(r *http.Request, key string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return value
}

func downloadName(document *model.Document) string {
	title := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, strings.TrimSpace(document.Title))
	if title == "" {
		title = "document"
	}

	return title + "_v" + strconv.Itoa(document.Version) + strings.ToLower(filepath.Ext(document.FileURL))
}
