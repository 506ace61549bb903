package repository

import (
	"context"
	"crm-file-server/config"
	"crm-file-server/internal/util"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// HandleRepository : учёт выданных ссылок на загрузку в Redis.
// Запись живёт столько же, сколько сама ссылка: пока она есть, отсутствие
// объекта в хранилище означает «клиент ещё загружает», а не потерянный blob.
type HandleRepository struct {
	client *config.RedisClient
}

type uploadHandleRecord struct {
	StorageKey string    `json:"storage_key"`
	IssuedAt   time.Time `json:"issued_at"`
}

func NewHandleRepository(rdb *config.RedisClient) *HandleRepository {
	return &HandleRepository{client: rdb}
}

func (r *HandleRepository) SaveUploadHandle(ctx context.Context, fileUUID, storageKey string, ttl time.Duration) error {
	data, err := json.Marshal(uploadHandleRecord{
		StorageKey: storageKey,
		IssuedAt:   time.Now(),
	})
	if err != nil {
		return util.LogError("ошибка сериализации записи о загрузке", err)
	}

	cmd := r.client.Client.Set(ctx, r.key(fileUUID), data, ttl)
	if err := cmd.Err(); err != nil {
		return util.LogError("ошибка сохранения в Redis", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("неожиданный ответ Redis: %s", cmd.Val())
	}

	return nil
}

func (r *HandleRepository) HasPendingUpload(ctx context.Context, fileUUID string) (bool, error) {
	err := r.client.Client.Get(ctx, r.key(fileUUID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	} else if err != nil {
		return false, util.LogError("ошибка чтения записи о загрузке из Redis", err)
	}
	return true, nil
}

func (r *HandleRepository) DeleteUploadHandle(ctx context.Context, fileUUID string) error {
	if err := r.client.Client.Del(ctx, r.key(fileUUID)).Err(); err != nil {
		return util.LogError("ошибка удаления записи о загрузке из Redis", err)
	}
	return nil
}

func (r *HandleRepository) key(fileUUID string) string {
	return fmt.Sprintf("upload:%s", fileUUID)
}
