package repository

import (
	"context"
	"crm-file-server/config"
	"crm-file-server/internal/util"

	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	database *config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database: database}
}

// GetDisplayNames : имена пользователей по списку uuid.
// Отсутствующие пользователи в карту не попадают — вызывающий подставляет "Unknown".
func (r *UserRepository) GetDisplayNames(ctx context.Context, exec sqlx.ExtContext, userUUIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(userUUIDs))
	if len(userUUIDs) == 0 {
		return names, nil
	}

	query, args, err := sqlx.In(`
		SELECT uuid, display_name
		FROM users
		WHERE uuid IN (?)
	`, userUUIDs)
	if err != nil {
		return nil, util.LogError("[UserRepo] не удалось подготовить запрос", err)
	}

	rows := []struct {
		UUID        string `db:"uuid"`
		DisplayName string `db:"display_name"`
	}{}
	if err := sqlx.SelectContext(ctx, exec, &rows, exec.Rebind(query), args...); err != nil {
		return nil, util.LogError("[UserRepo] не удалось получить имена пользователей", err)
	}

	for _, row := range rows {
		names[row.UUID] = row.DisplayName
	}
	return names, nil
}
