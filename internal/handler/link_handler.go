package handler

import (
	"context"
	"crm-file-server/internal/model/requestresponse"
	"crm-file-server/internal/ports"
	"crm-file-server/internal/util"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type LinkHandler struct {
	ports.LinkResolver
}

func NewLinkHandler(linkResolver ports.LinkResolver) *LinkHandler {
	return &LinkHandler{linkResolver}
}

// CreateLink godoc
// @Summary Привязка файла к сущности CRM
// @Description Привязывает существующий файл к сделке, компании или контакту.
// Повторная привязка той же тройки — конфликт.
// @Tags Links
// @Accept json
// @Produce json
// @Param request body requestresponse.CreateLinkRequest true "Файл и сущность"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 201 {object} model.FileLink
// @Failure 400 {object} requestresponse.ErrorResponse "Недопустимый тип сущности"
// @Failure 404 {object} requestresponse.ErrorResponse "Файл или сущность не найдены"
// @Failure 409 {object} requestresponse.ErrorResponse "Файл уже привязан к сущности"
// @Router /api/links [post]
func (h *LinkHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req requestresponse.CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	link, err := h.LinkResolver.CreateLink(ctx, req.FileID, req.EntityType, req.EntityID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(link)
}

// ListLinksForEntity godoc
// @Summary Файлы, привязанные к сущности напрямую
// @Description Возвращает файлы сущности с цепочками версий,
// без обхода связей CRM. Новые файлы — первыми.
// @Tags Links
// @Produce json
// @Param entity_type path string true "Тип сущности" Enums(deal, company, contact)
// @Param entity_id path string true "UUID сущности"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.EntityFilesResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Недопустимый тип сущности"
// @Router /api/links/{entity_type}/{entity_id} [get]
func (h *LinkHandler) ListLinksForEntity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	entityType := chi.URLParam(r, "entity_type")
	entityUUID := chi.URLParam(r, "entity_id")

	files, err := h.LinkResolver.ListLinksForEntity(ctx, entityType, entityUUID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := requestresponse.EntityFilesResponse{
		Files: make([]requestresponse.EntityFileResponse, 0, len(files)),
	}
	for i := range files {
		response.Files = append(response.Files, requestresponse.EntityFileResponseFromModel(&files[i]))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// RelatedFiles godoc
// @Summary Все файлы, относящиеся к компании или контакту
// @Description Транзитивная выдача: прямые привязки плюс файлы сделок компании
// (для контакта — сделок его компании). Каждый файл несёт список связей,
// по которым он был найден.
// @Tags Links
// @Produce json
// @Param company_id query string false "UUID компании"
// @Param contact_id query string false "UUID контакта"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.RelatedFilesResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Не указан ни company_id, ни contact_id"
// @Router /api/files/related [get]
func (h *LinkHandler) RelatedFiles(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	companyUUID := r.URL.Query().Get("company_id")
	contactUUID := r.URL.Query().Get("contact_id")

	files, err := h.LinkResolver.ResolveRelatedFiles(ctx, companyUUID, contactUUID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := requestresponse.RelatedFilesResponse{
		Files: make([]requestresponse.RelatedFileResponse, 0, len(files)),
	}
	for i := range files {
		response.Files = append(response.Files, requestresponse.RelatedFileResponseFromModel(&files[i]))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
