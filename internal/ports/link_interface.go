package ports

import (
	"context"
	"crm-file-server/internal/model"
	"github.com/jmoiron/sqlx"
)

// LinkRepository : SQL слой таблицы file_links
type LinkRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, link *model.FileLink) error
	ListByFile(ctx context.Context, exec sqlx.ExtContext, orgUUID, fileUUID string) ([]model.FileLink, error)
	ListByEntity(ctx context.Context, exec sqlx.ExtContext, orgUUID, entityType, entityUUID string) ([]model.FileLink, error)
	ListByEntityIDs(ctx context.Context, exec sqlx.ExtContext, orgUUID, entityType string, entityUUIDs []string) ([]model.FileLink, error)
	DeleteByFile(ctx context.Context, exec sqlx.ExtContext, fileUUID string) error
}

// LinkResolver : привязки файлов и транзитивный поиск
type LinkResolver interface {
	CreateLink(ctx context.Context, fileUUID, entityType, entityUUID string) (*model.FileLink, error)
	ListLinksForEntity(ctx context.Context, entityType, entityUUID string) ([]model.EntityFile, error)
	ResolveRelatedFiles(ctx context.Context, companyUUID, contactUUID string) ([]model.RelatedFile, error)
}
