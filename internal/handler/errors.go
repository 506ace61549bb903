package handler

import (
	"crm-file-server/internal/service"
	"crm-file-server/internal/util"
	"errors"
	"log"
	"net/http"
)

// writeServiceError : превращает ошибку сервисного слоя в HTTP-ответ.
// Гонка версий и незавершённая загрузка помечаются как повторяемые.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		util.HandleError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrNotFound):
		util.HandleError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrPermission):
		util.HandleError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, service.ErrConflict):
		util.HandleRetryableError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrUploadPending):
		util.HandleRetryableError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrStorage):
		util.HandleError(w, "ошибка хранилища", http.StatusInternalServerError)
	default:
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
	}
}
