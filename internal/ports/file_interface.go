package ports

import (
	"context"
	"crm-file-server/internal/model"
	"github.com/jmoiron/sqlx"
)

// FileRepository : SQL слой таблицы files
type FileRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, file *model.File) error
	GetByUUID(ctx context.Context, exec sqlx.ExtContext, orgUUID, fileUUID string) (*model.File, error)
	GetAnyByUUID(ctx context.Context, exec sqlx.ExtContext, orgUUID, fileUUID string) (*model.File, error)
	NextVersion(ctx context.Context, exec sqlx.ExtContext, orgUUID, rootUUID string) (int, error)
	ListChain(ctx context.Context, exec sqlx.ExtContext, orgUUID, rootUUID string) ([]model.File, error)
	ListByUUIDs(ctx context.Context, exec sqlx.ExtContext, orgUUID string, fileUUIDs []string) ([]model.File, error)
	UpdateMetadata(ctx context.Context, exec sqlx.ExtContext, orgUUID, fileUUID string, title, docType *string) (*model.File, error)
	SoftDelete(ctx context.Context, exec sqlx.ExtContext, orgUUID, fileUUID, deletedBy string) (*model.File, error)
	SetStorageKey(ctx context.Context, exec sqlx.ExtContext, fileUUID, bucket, storageKey string) error
	Delete(ctx context.Context, exec sqlx.ExtContext, fileUUID string) error
	BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error)
}

// FileRegistry : жизненный цикл файла
type FileRegistry interface {
	CreateFile(ctx context.Context, input *model.CreateFileInput) (*model.CreateFileResult, error)
	CreateNewVersion(ctx context.Context, fileUUID string, input *model.NewVersionInput) (*model.NewVersionResult, error)
	UpdateMetadata(ctx context.Context, fileUUID string, title, docType *string) (*model.File, error)
	SoftDelete(ctx context.Context, fileUUID string) (*model.File, error)
	ListVersions(ctx context.Context, fileUUID string) ([]model.VersionEntry, error)
}
