package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrUniqueViolation : нарушение уникального ограничения (код 23505).
// Сервисный слой превращает его в конфликт для клиента.
var ErrUniqueViolation = errors.New("нарушение уникальности")

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
