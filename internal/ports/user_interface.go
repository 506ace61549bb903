package ports

import (
	"context"
	"github.com/jmoiron/sqlx"
)

// UserRepository : справочник пользователей (только чтение имён)
type UserRepository interface {
	GetDisplayNames(ctx context.Context, exec sqlx.ExtContext, userUUIDs []string) (map[string]string, error)
}
