package ports

import (
	"context"
	"crm-file-server/internal/model"
	"github.com/jmoiron/sqlx"
)

// AccessBroker : выдаёт короткоживущие ссылки на загрузку и просмотр
type AccessBroker interface {
	IssueUploadHandle(ctx context.Context, exec sqlx.ExtContext, orgUUID, fileUUID, filename string) (*model.UploadHandle, error)
	IssueViewHandle(ctx context.Context, fileUUID string) (*model.ViewHandle, error)
}
