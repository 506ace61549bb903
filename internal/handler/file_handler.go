package handler

import (
	"context"
	"crm-file-server/internal/model"
	"crm-file-server/internal/model/requestresponse"
	"crm-file-server/internal/ports"
	"crm-file-server/internal/util"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type FileHandler struct {
	ports.FileRegistry
	accessBroker ports.AccessBroker
}

func NewFileHandler(fileRegistry ports.FileRegistry, accessBroker ports.AccessBroker) *FileHandler {
	return &FileHandler{fileRegistry, accessBroker}
}

// CreateFile godoc
// @Summary Создание документа и выдача ссылки на загрузку
// @Description Создаёт запись документа (версия 1) и возвращает pre-signed URL,
// по которому клиент сам загружает байты в хранилище.
// @Tags Files
// @Accept json
// @Produce json
// @Param request body requestresponse.CreateFileRequest true "Мета-данные документа"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.CreateFileResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Неверные мета-данные"
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} requestresponse.ErrorResponse "Ошибка хранилища или БД"
// @Router /api/files [post]
func (h *FileHandler) CreateFile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req requestresponse.CreateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	result, err := h.FileRegistry.CreateFile(ctx, &model.CreateFileInput{
		Title:            req.Title,
		FilenameOriginal: req.OriginalFilename,
		DocType:          req.DocType,
		MimeType:         req.MimeType,
		SizeBytes:        req.SizeBytes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := requestresponse.CreateFileResponse{
		FileID:     result.FileUUID,
		UploadURL:  result.Handle.URL,
		Token:      result.Handle.Token,
		StorageKey: result.Handle.StorageKey,
		ExpiresIn:  result.Handle.ExpiresIn,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// CreateNewVersion godoc
// @Summary Создание новой версии документа
// @Description Создаёт очередную версию: наследует заголовок и тип документа,
// привязки корня копируются на новую версию автоматически.
// @Tags Files
// @Accept json
// @Produce json
// @Param file_id path string true "UUID любого файла цепочки"
// @Param request body requestresponse.NewVersionRequest true "Мета-данные новой версии"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.NewVersionResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Неверные мета-данные"
// @Failure 404 {object} requestresponse.ErrorResponse "Файл не найден"
// @Failure 409 {object} requestresponse.ErrorResponse "Гонка за номер версии, повторите запрос"
// @Failure 500 {object} requestresponse.ErrorResponse "Ошибка хранилища или БД"
// @Router /api/files/{file_id}/versions [post]
func (h *FileHandler) CreateNewVersion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	fileUUID := chi.URLParam(r, "file_id")

	var req requestresponse.NewVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	result, err := h.FileRegistry.CreateNewVersion(ctx, fileUUID, &model.NewVersionInput{
		FilenameOriginal: req.OriginalFilename,
		MimeType:         req.MimeType,
		SizeBytes:        req.SizeBytes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := requestresponse.NewVersionResponse{
		NewFileID:     result.FileUUID,
		VersionNumber: result.Version,
		ParentFileID:  result.RootUUID,
		UploadURL:     result.Handle.URL,
		Token:         result.Handle.Token,
		StorageKey:    result.Handle.StorageKey,
		ExpiresIn:     result.Handle.ExpiresIn,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// UpdateFile godoc
// @Summary Частичное обновление мета-данных документа
// @Tags Files
// @Accept json
// @Produce json
// @Param file_id path string true "UUID файла"
// @Param request body requestresponse.UpdateFileRequest true "Обновляемые поля"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.UpdateFileResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Нет валидных полей"
// @Failure 404 {object} requestresponse.ErrorResponse "Файл не найден"
// @Router /api/files/{file_id} [patch]
func (h *FileHandler) UpdateFile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	fileUUID := chi.URLParam(r, "file_id")

	var req requestresponse.UpdateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	updated, err := h.FileRegistry.UpdateMetadata(ctx, fileUUID, req.Title, req.DocType)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := requestresponse.UpdateFileResponse{
		ID:        updated.UUID,
		Title:     updated.Title,
		DocType:   updated.DocType,
		UpdatedAt: updated.UpdatedAt,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// DeleteFile godoc
// @Summary Мягкое удаление документа
// @Description Строка остаётся в БД с отметкой удаления. Удалить может
// только загрузивший файл пользователь или админ организации.
// @Tags Files
// @Produce json
// @Param file_id path string true "UUID файла"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.DeleteFileResponse
// @Failure 403 {object} requestresponse.ErrorResponse "Не загрузивший и не админ"
// @Failure 404 {object} requestresponse.ErrorResponse "Файл не найден или уже удалён"
// @Router /api/files/{file_id} [delete]
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	fileUUID := chi.URLParam(r, "file_id")

	deleted, err := h.FileRegistry.SoftDelete(ctx, fileUUID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := requestresponse.DeleteFileResponse{
		ID:        deleted.UUID,
		IsDeleted: deleted.IsDeleted,
		DeletedAt: deleted.DeletedAt,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ListVersions godoc
// @Summary Цепочка версий документа
// @Description Возвращает все живые версии цепочки, к которой относится
// указанный файл, по возрастанию номера версии.
// @Tags Files
// @Produce json
// @Param file_id path string true "UUID любого файла цепочки"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListVersionsResponse
// @Failure 404 {object} requestresponse.ErrorResponse "Файл не найден"
// @Router /api/files/{file_id}/versions [get]
func (h *FileHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	fileUUID := chi.URLParam(r, "file_id")

	versions, err := h.FileRegistry.ListVersions(ctx, fileUUID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requestresponse.ListVersionsResponse{Versions: versions})
}

// GetViewURL godoc
// @Summary Выдача ссылки на просмотр документа
// @Description Перепроверяет организацию и живость файла и возвращает
// pre-signed GET URL на 5 минут.
// @Tags Files
// @Produce json
// @Param file_id path string true "UUID файла"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} model.ViewHandle
// @Failure 404 {object} requestresponse.ErrorResponse "Файл не найден"
// @Failure 409 {object} requestresponse.ErrorResponse "Байты ещё не загружены, повторите позже"
// @Failure 500 {object} requestresponse.ErrorResponse "Ошибка хранилища"
// @Router /api/files/{file_id}/view-url [get]
func (h *FileHandler) GetViewURL(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	fileUUID := chi.URLParam(r, "file_id")

	handle, err := h.accessBroker.IssueViewHandle(ctx, fileUUID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handle)
}
