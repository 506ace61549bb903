package repository

import (
	"context"
	"crm-file-server/config"
	"crm-file-server/internal/model"
	"crm-file-server/internal/util"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type LinkRepository struct {
	database *config.Database
}

func NewLinkRepository(database *config.Database) *LinkRepository {
	return &LinkRepository{database: database}
}

// Create : сохраняет привязку; дубликат тройки (file, entity_type, entity_id)
// отбивается уникальным ограничением и превращается в ErrUniqueViolation
func (r *LinkRepository) Create(ctx context.Context, exec sqlx.ExtContext, link *model.FileLink) error {
	query := `
		INSERT INTO file_links (uuid, org_uuid, file_uuid, entity_type, entity_uuid, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := exec.ExecContext(
		ctx,
		query,
		link.UUID,
		link.OrgUUID,
		link.FileUUID,
		link.EntityType,
		link.EntityUUID,
		link.CreatedBy)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("файл уже привязан к этой сущности: %w", ErrUniqueViolation)
		}
		return util.LogError("[LinkRepo] не удалось сохранить привязку", err)
	}
	return nil
}

// ListByFile : все привязки файла
func (r *LinkRepository) ListByFile(ctx context.Context, exec sqlx.ExtContext, orgUUID, fileUUID string) ([]model.FileLink, error) {
	query := `
		SELECT uuid, org_uuid, file_uuid, entity_type, entity_uuid, created_by, created_at
		FROM file_links
		WHERE org_uuid = $1 AND file_uuid = $2
	`

	links := []model.FileLink{}
	if err := sqlx.SelectContext(ctx, exec, &links, query, orgUUID, fileUUID); err != nil {
		return nil, util.LogError("[LinkRepo] не удалось получить привязки файла", err)
	}
	return links, nil
}

// ListByEntity : все привязки одной сущности
func (r *LinkRepository) ListByEntity(ctx context.Context, exec sqlx.ExtContext, orgUUID, entityType, entityUUID string) ([]model.FileLink, error) {
	query := `
		SELECT uuid, org_uuid, file_uuid, entity_type, entity_uuid, created_by, created_at
		FROM file_links
		WHERE org_uuid = $1 AND entity_type = $2 AND entity_uuid = $3
	`

	links := []model.FileLink{}
	if err := sqlx.SelectContext(ctx, exec, &links, query, orgUUID, entityType, entityUUID); err != nil {
		return nil, util.LogError("[LinkRepo] не удалось получить привязки сущности", err)
	}
	return links, nil
}

// ListByEntityIDs : привязки набора сущностей одного типа (обход сделок компании)
func (r *LinkRepository) ListByEntityIDs(ctx context.Context, exec sqlx.ExtContext, orgUUID, entityType string, entityUUIDs []string) ([]model.FileLink, error) {
	if len(entityUUIDs) == 0 {
		return []model.FileLink{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT uuid, org_uuid, file_uuid, entity_type, entity_uuid, created_by, created_at
		FROM file_links
		WHERE org_uuid = ? AND entity_type = ? AND entity_uuid IN (?)
	`, orgUUID, entityType, entityUUIDs)
	if err != nil {
		return nil, util.LogError("[LinkRepo] не удалось подготовить запрос", err)
	}

	links := []model.FileLink{}
	if err := sqlx.SelectContext(ctx, exec, &links, exec.Rebind(query), args...); err != nil {
		return nil, util.LogError("[LinkRepo] не удалось получить привязки сущностей", err)
	}
	return links, nil
}

// DeleteByFile : жёсткое удаление привязок файла.
// Только компенсация при неудавшейся выдаче ссылки на загрузку новой версии.
func (r *LinkRepository) DeleteByFile(ctx context.Context, exec sqlx.ExtContext, fileUUID string) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM file_links WHERE file_uuid = $1`, fileUUID); err != nil {
		return util.LogError("[LinkRepo] не удалось удалить привязки файла", err)
	}
	return nil
}
