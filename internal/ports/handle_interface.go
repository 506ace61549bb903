package ports

import (
	"context"
	"time"
)

// HandleRepository : Redis слой учёта выданных ссылок на загрузку.
// Пока запись жива, отсутствие объекта в хранилище трактуется как
// «загрузка ещё идёт», а не как потерянный blob.
type HandleRepository interface {
	SaveUploadHandle(ctx context.Context, fileUUID, storageKey string, ttl time.Duration) error
	HasPendingUpload(ctx context.Context, fileUUID string) (bool, error)
	DeleteUploadHandle(ctx context.Context, fileUUID string) error
}
