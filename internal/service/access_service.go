package service

import (
	"context"
	"crm-file-server/config"
	"crm-file-server/internal/model"
	"crm-file-server/internal/ports"
	"crm-file-server/internal/security"
	"crm-file-server/internal/util"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AccessService : выдаёт короткоживущие ссылки на загрузку и просмотр.
// Единственное место, где ядро ходит в хранилище объектов.
type AccessService struct {
	fileRepository   ports.FileRepository
	handleRepository ports.HandleRepository
	storage          ports.S3Storage
	bucket           string
	uploadTTL        time.Duration
	viewTTL          time.Duration
}

func NewAccessService(
	fileRepository ports.FileRepository,
	handleRepository ports.HandleRepository,
	storage ports.S3Storage,
	bucket string,
	uploadTTL time.Duration,
	viewTTL time.Duration,
) *AccessService {
	return &AccessService{
		fileRepository:   fileRepository,
		handleRepository: handleRepository,
		storage:          storage,
		bucket:           bucket,
		uploadTTL:        uploadTTL,
		viewTTL:          viewTTL,
	}
}

// IssueUploadHandle : считает локатор {org}/{file}/{filename}, выдаёт
// pre-signed PUT URL и записывает локатор в строку файла.
// Локатор детерминирован — отдельная таблица соответствий blob'ов не нужна.
func (s *AccessService) IssueUploadHandle(ctx context.Context, exec sqlx.ExtContext, orgUUID, fileUUID, filename string) (*model.UploadHandle, error) {
	storageKey := fmt.Sprintf("%s/%s/%s", orgUUID, fileUUID, filename)

	putURL, err := s.storage.GeneratePresignedPutURL(ctx, storageKey, s.uploadTTL)
	if err != nil {
		return nil, fmt.Errorf("не удалось выдать ссылку на загрузку: %w", ErrStorage)
	}

	if err := s.fileRepository.SetStorageKey(ctx, exec, fileUUID, s.bucket, storageKey); err != nil {
		return nil, util.LogError("[AccessService] не удалось сохранить локатор", err)
	}

	// учёт выданной ссылки — best-effort, флоу загрузки от него не зависит
	if err := s.handleRepository.SaveUploadHandle(ctx, fileUUID, storageKey, s.uploadTTL); err != nil {
		log.Printf("[AccessService] не удалось записать выдачу ссылки для файла %s: %v", fileUUID, err)
	}

	return &model.UploadHandle{
		URL:        putURL,
		Token:      uuid.New().String(),
		StorageKey: storageKey,
		ExpiresIn:  int(s.uploadTTL.Seconds()),
	}, nil
}

// IssueViewHandle : перепроверяет организацию и живость файла и выдаёт
// pre-signed GET URL на 5 минут
func (s *AccessService) IssueViewHandle(ctx context.Context, fileUUID string) (*model.ViewHandle, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[AccessService] database connection не найден в context")
	}

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("пользователь не авторизован: %w", ErrPermission)
	}

	file, err := s.fileRepository.GetByUUID(ctx, db, claims.OrgUUID, fileUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("файл не найден: %w", ErrNotFound)
	} else if err != nil {
		return nil, util.LogError("[AccessService] не удалось получить файл", err)
	}

	if file.StorageKey == "" {
		return nil, fmt.Errorf("файл %s: %w", fileUUID, ErrUploadPending)
	}

	exists, err := s.storage.ObjectExists(ctx, file.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("не удалось проверить объект: %w", ErrStorage)
	}
	if exists == false {
		// строка есть, байтов нет: либо клиент ещё загружает (ссылка жива
		// в Redis), либо загрузка так и не состоялась
		pending, err := s.handleRepository.HasPendingUpload(ctx, file.UUID)
		if err != nil {
			log.Printf("[AccessService] ошибка проверки выданной ссылки для файла %s: %v", file.UUID, err)
		}
		if pending {
			return nil, fmt.Errorf("файл %s: %w", fileUUID, ErrUploadPending)
		}
		return nil, fmt.Errorf("объект %s отсутствует в хранилище: %w", file.StorageKey, ErrStorage)
	}

	getURL, err := s.storage.GeneratePresignedGetURL(ctx, file.StorageKey, s.viewTTL)
	if err != nil {
		return nil, fmt.Errorf("не удалось выдать ссылку на просмотр: %w", ErrStorage)
	}

	return &model.ViewHandle{
		URL:       getURL,
		MimeType:  file.MimeType,
		Filename:  file.FilenameOriginal,
		ExpiresIn: int(s.viewTTL.Seconds()),
	}, nil
}
