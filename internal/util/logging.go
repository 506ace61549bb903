package util

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

func LogError(message string, err error) error {
	log.Printf("%s: %v", message, err)
	return fmt.Errorf("%s: %w", message, err)
}

func HandleError(w http.ResponseWriter, message string, statusCode int) {
	writeError(w, message, statusCode, false)
}

// HandleRetryableError : как HandleError, но помечает ответ как повторяемый.
// Используется для гонки номеров версий и для ещё не завершённой загрузки.
func HandleRetryableError(w http.ResponseWriter, message string, statusCode int) {
	writeError(w, message, statusCode, true)
}

func writeError(w http.ResponseWriter, message string, statusCode int, retryable bool) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := struct {
		Error     string `json:"error"`
		Message   string `json:"message"`
		Code      int    `json:"code"`
		Retryable bool   `json:"retryable,omitempty"`
	}{
		Error:     http.StatusText(statusCode),
		Message:   message,
		Code:      statusCode,
		Retryable: retryable,
	}

	json.NewEncoder(w).Encode(errorResponse)
}
