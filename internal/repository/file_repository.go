package repository

import (
	"context"
	"crm-file-server/config"
	"crm-file-server/internal/model"
	"crm-file-server/internal/util"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const fileColumns = `uuid, org_uuid, uploaded_by, title, filename_original, doc_type, mime_type,
	       size_bytes, bucket, storage_key, version, parent_uuid,
	       created_at, updated_at, is_deleted, deleted_at, deleted_by`

type FileRepository struct {
	*config.Database
}

func NewFileRepository(database *config.Database) *FileRepository {
	return &FileRepository{database}
}

// Create : сохраняет новую строку файла (корень или версию)
func (r *FileRepository) Create(ctx context.Context, exec sqlx.ExtContext, file *model.File) error {
	query := `
		INSERT INTO files (uuid, org_uuid, uploaded_by, title, filename_original, doc_type,
		                   mime_type, size_bytes, bucket, storage_key, version, parent_uuid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := exec.ExecContext(
		ctx,
		query,
		file.UUID,
		file.OrgUUID,
		file.UploadedBy,
		file.Title,
		file.FilenameOriginal,
		file.DocType,
		file.MimeType,
		file.SizeBytes,
		file.Bucket,
		file.StorageKey,
		file.Version,
		file.ParentUUID)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("версия уже существует: %w", ErrUniqueViolation)
		}
		return util.LogError("[FileRepo] не удалось сохранить файл", err)
	}
	return nil
}

// GetByUUID : файл организации, мягко удалённые строки невидимы
func (r *FileRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, orgUUID, fileUUID string) (*model.File, error) {
	query := `
		SELECT ` + fileColumns + `
		FROM files
		WHERE uuid = $1 AND org_uuid = $2 AND is_deleted = FALSE
	`

	var file model.File
	if err := sqlx.GetContext(ctx, exec, &file, query, fileUUID, orgUUID); err != nil {
		return nil, err
	}
	return &file, nil
}

// GetAnyByUUID : как GetByUUID, но возвращает и мягко удалённые строки
func (r *FileRepository) GetAnyByUUID(ctx context.Context, exec sqlx.ExtContext, orgUUID, fileUUID string) (*model.File, error) {
	query := `
		SELECT ` + fileColumns + `
		FROM files
		WHERE uuid = $1 AND org_uuid = $2
	`

	var file model.File
	if err := sqlx.GetContext(ctx, exec, &file, query, fileUUID, orgUUID); err != nil {
		return nil, err
	}
	return &file, nil
}

// NextVersion : следующий номер версии цепочки.
// Удалённые строки учитываются: номера не переиспользуются.
func (r *FileRepository) NextVersion(ctx context.Context, exec sqlx.ExtContext, orgUUID, rootUUID string) (int, error) {
	query := `
		SELECT COALESCE(MAX(version), 0) + 1
		FROM files
		WHERE org_uuid = $1 AND (uuid = $2 OR parent_uuid = $2)
	`

	var next int
	if err := sqlx.GetContext(ctx, exec, &next, query, orgUUID, rootUUID); err != nil {
		return 0, util.LogError("[FileRepo] не удалось вычислить номер версии", err)
	}
	return next, nil
}

// ListChain : все живые версии цепочки по возрастанию номера.
// Цепочка плоская: достаточно одного запроса uuid = root OR parent_uuid = root.
func (r *FileRepository) ListChain(ctx context.Context, exec sqlx.ExtContext, orgUUID, rootUUID string) ([]model.File, error) {
	query := `
		SELECT ` + fileColumns + `
		FROM files
		WHERE org_uuid = $1 AND (uuid = $2 OR parent_uuid = $2) AND is_deleted = FALSE
		ORDER BY version ASC
	`

	files := []model.File{}
	if err := sqlx.SelectContext(ctx, exec, &files, query, orgUUID, rootUUID); err != nil {
		return nil, util.LogError("[FileRepo] не удалось получить цепочку версий", err)
	}
	return files, nil
}

// ListByUUIDs : живые файлы по списку идентификаторов, новые сверху
func (r *FileRepository) ListByUUIDs(ctx context.Context, exec sqlx.ExtContext, orgUUID string, fileUUIDs []string) ([]model.File, error) {
	if len(fileUUIDs) == 0 {
		return []model.File{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT `+fileColumns+`
		FROM files
		WHERE org_uuid = ? AND uuid IN (?) AND is_deleted = FALSE
		ORDER BY created_at DESC
	`, orgUUID, fileUUIDs)
	if err != nil {
		return nil, util.LogError("[FileRepo] не удалось подготовить запрос", err)
	}

	files := []model.File{}
	if err := sqlx.SelectContext(ctx, exec, &files, exec.Rebind(query), args...); err != nil {
		return nil, util.LogError("[FileRepo] не удалось получить файлы", err)
	}
	return files, nil
}

// UpdateMetadata : частичное обновление title/doc_type (nil — поле не трогаем)
func (r *FileRepository) UpdateMetadata(ctx context.Context, exec sqlx.ExtContext, orgUUID, fileUUID string, title, docType *string) (*model.File, error) {
	query := `
		UPDATE files
		SET title      = COALESCE($3, title),
		    doc_type   = COALESCE($4, doc_type),
		    updated_at = NOW()
		WHERE uuid = $1 AND org_uuid = $2 AND is_deleted = FALSE
		RETURNING ` + fileColumns + `
	`

	var file model.File
	if err := sqlx.GetContext(ctx, exec, &file, query, fileUUID, orgUUID, title, docType); err != nil {
		return nil, err
	}
	return &file, nil
}

// SoftDelete : помечает файл удалённым; повторное удаление даёт sql.ErrNoRows
func (r *FileRepository) SoftDelete(ctx context.Context, exec sqlx.ExtContext, orgUUID, fileUUID, deletedBy string) (*model.File, error) {
	query := `
		UPDATE files
		SET is_deleted = TRUE, deleted_at = NOW(), deleted_by = $3, updated_at = NOW()
		WHERE uuid = $1 AND org_uuid = $2 AND is_deleted = FALSE
		RETURNING ` + fileColumns + `
	`

	var file model.File
	if err := sqlx.GetContext(ctx, exec, &file, query, fileUUID, orgUUID, deletedBy); err != nil {
		return nil, err
	}
	return &file, nil
}

// SetStorageKey : записывает локатор после выдачи ссылки на загрузку
func (r *FileRepository) SetStorageKey(ctx context.Context, exec sqlx.ExtContext, fileUUID, bucket, storageKey string) error {
	query := `
		UPDATE files
		SET bucket = $2, storage_key = $3, updated_at = NOW()
		WHERE uuid = $1
	`
	if _, err := exec.ExecContext(ctx, query, fileUUID, bucket, storageKey); err != nil {
		return util.LogError("[FileRepo] не удалось сохранить локатор", err)
	}
	return nil
}

// Delete : жёсткое удаление строки.
// Только компенсация неудавшейся выдачи ссылки на загрузку, не бизнес-операция.
func (r *FileRepository) Delete(ctx context.Context, exec sqlx.ExtContext, fileUUID string) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM files WHERE uuid = $1`, fileUUID); err != nil {
		return util.LogError("[FileRepo] не удалось удалить строку файла", err)
	}
	return nil
}

func (r *FileRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	return tx, func() error { return tx.Rollback() }, func() error { return tx.Commit() }, nil
}
