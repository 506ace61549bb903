package service

import (
	"context"
	"crm-file-server/config"
	"crm-file-server/internal/model"
	"crm-file-server/internal/ports"
	"crm-file-server/internal/repository"
	"crm-file-server/internal/security"
	"crm-file-server/internal/util"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
)

// FileService : жизненный цикл файла — создание, версии, мета-данные,
// мягкое удаление. Двухфазная загрузка (строка → внешняя ссылка) собрана
// как явная сага: каждая ступень знает свою компенсацию.
type FileService struct {
	fileRepository   ports.FileRepository
	linkRepository   ports.LinkRepository
	handleRepository ports.HandleRepository
	accessBroker     ports.AccessBroker
}

func NewFileService(
	fileRepository ports.FileRepository,
	linkRepository ports.LinkRepository,
	handleRepository ports.HandleRepository,
	accessBroker ports.AccessBroker,
) *FileService {
	return &FileService{
		fileRepository:   fileRepository,
		linkRepository:   linkRepository,
		handleRepository: handleRepository,
		accessBroker:     accessBroker,
	}
}

func validateUploadFields(filename, mimeType string, sizeBytes int64) error {
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("не указано имя файла: %w", ErrValidation)
	}
	if strings.TrimSpace(mimeType) == "" {
		return fmt.Errorf("не указан MIME-тип: %w", ErrValidation)
	}
	if sizeBytes <= 0 {
		return fmt.Errorf("размер файла должен быть положительным: %w", ErrValidation)
	}
	if sizeBytes > model.MaxFileSizeBytes {
		return fmt.Errorf("файл больше %d МиБ: %w", model.MaxFileSizeBytes/(1024*1024), ErrValidation)
	}
	return nil
}

// CreateFile : создаёт строку версии 1 с пустым локатором и выдаёт ссылку
// на загрузку. Если ссылку выдать не удалось — строка удаляется, пустых
// файлов после отказа не остаётся.
func (s *FileService) CreateFile(ctx context.Context, input *model.CreateFileInput) (*model.CreateFileResult, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[FileService] database connection не найден в context")
	}

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("пользователь не авторизован: %w", ErrPermission)
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("не указан заголовок документа: %w", ErrValidation)
	}
	if model.IsValidDocType(input.DocType) == false {
		return nil, fmt.Errorf("недопустимый тип документа %q: %w", input.DocType, ErrValidation)
	}
	if err := validateUploadFields(input.FilenameOriginal, input.MimeType, input.SizeBytes); err != nil {
		return nil, err
	}

	file := &model.File{
		UUID:             uuid.New().String(),
		OrgUUID:          claims.OrgUUID,
		UploadedBy:       claims.UserUUID,
		Title:            strings.TrimSpace(input.Title),
		FilenameOriginal: input.FilenameOriginal,
		DocType:          input.DocType,
		MimeType:         input.MimeType,
		SizeBytes:        input.SizeBytes,
		Version:          1,
	}

	if err := s.fileRepository.Create(ctx, db, file); err != nil {
		return nil, util.LogError("[FileService] не удалось сохранить файл в БД", err)
	}

	handle, err := s.accessBroker.IssueUploadHandle(ctx, db, claims.OrgUUID, file.UUID, file.FilenameOriginal)
	if err != nil {
		// компенсация: убираем только что созданную строку
		if delErr := s.fileRepository.Delete(ctx, db, file.UUID); delErr != nil {
			log.Printf("[FileService] компенсация не удалась, строка файла %s осталась: %v", file.UUID, delErr)
		}
		return nil, err
	}

	log.Printf("[FileService] файл %s успешно создан", file.UUID)

	return &model.CreateFileResult{
		FileUUID: file.UUID,
		Handle:   handle,
	}, nil
}

// CreateNewVersion : создаёт очередную версию документа. Заголовок и тип
// наследуются от файла, на который указал вызывающий; родителем всегда
// становится корень цепочки. Привязки корня копируются на новую версию.
func (s *FileService) CreateNewVersion(ctx context.Context, fileUUID string, input *model.NewVersionInput) (*model.NewVersionResult, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[FileService] database connection не найден в context")
	}

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("пользователь не авторизован: %w", ErrPermission)
	}

	if err := validateUploadFields(input.FilenameOriginal, input.MimeType, input.SizeBytes); err != nil {
		return nil, err
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[FileService] не удалось начать транзакцию", err)
	}
	defer rollback()

	original, err := s.fileRepository.GetByUUID(ctx, exec, claims.OrgUUID, fileUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("файл не найден: %w", ErrNotFound)
	} else if err != nil {
		return nil, util.LogError("[FileService] не удалось получить файл", err)
	}

	rootUUID := original.RootUUID()

	nextVersion, err := s.fileRepository.NextVersion(ctx, exec, claims.OrgUUID, rootUUID)
	if err != nil {
		return nil, util.LogError("[FileService] не удалось вычислить номер версии", err)
	}

	newFile := &model.File{
		UUID:             uuid.New().String(),
		OrgUUID:          claims.OrgUUID,
		UploadedBy:       claims.UserUUID,
		Title:            original.Title,
		FilenameOriginal: input.FilenameOriginal,
		DocType:          original.DocType,
		MimeType:         input.MimeType,
		SizeBytes:        input.SizeBytes,
		Version:          nextVersion,
		ParentUUID:       &rootUUID,
	}

	if err := s.fileRepository.Create(ctx, exec, newFile); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			// гонка за номер версии: проигравший повторяет запрос
			return nil, fmt.Errorf("номер версии %d уже занят: %w", nextVersion, ErrConflict)
		}
		return nil, util.LogError("[FileService] не удалось сохранить версию", err)
	}

	// каждая версия независимо привязана к тем же сущностям, что и корень
	rootLinks, err := s.linkRepository.ListByFile(ctx, exec, claims.OrgUUID, rootUUID)
	if err != nil {
		return nil, util.LogError("[FileService] не удалось получить привязки корня", err)
	}
	for _, link := range rootLinks {
		copied := &model.FileLink{
			UUID:       uuid.New().String(),
			OrgUUID:    claims.OrgUUID,
			FileUUID:   newFile.UUID,
			EntityType: link.EntityType,
			EntityUUID: link.EntityUUID,
			CreatedBy:  claims.UserUUID,
		}
		if err := s.linkRepository.Create(ctx, exec, copied); err != nil {
			return nil, util.LogError("[FileService] не удалось скопировать привязку", err)
		}
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[FileService] не удалось закоммитить транзакцию", err)
	}

	handle, err := s.accessBroker.IssueUploadHandle(ctx, db, claims.OrgUUID, newFile.UUID, input.FilenameOriginal)
	if err != nil {
		// компенсация: транзакция уже закоммичена, убираем версию и копии привязок
		if delErr := s.linkRepository.DeleteByFile(ctx, db, newFile.UUID); delErr != nil {
			log.Printf("[FileService] компенсация привязок версии %s не удалась: %v", newFile.UUID, delErr)
		}
		if delErr := s.fileRepository.Delete(ctx, db, newFile.UUID); delErr != nil {
			log.Printf("[FileService] компенсация не удалась, строка версии %s осталась: %v", newFile.UUID, delErr)
		}
		return nil, err
	}

	log.Printf("[FileService] версия %d файла %s успешно создана", nextVersion, rootUUID)

	return &model.NewVersionResult{
		FileUUID: newFile.UUID,
		Version:  nextVersion,
		RootUUID: rootUUID,
		Handle:   handle,
	}, nil
}

// UpdateMetadata : частичное обновление заголовка и/или типа документа
func (s *FileService) UpdateMetadata(ctx context.Context, fileUUID string, title, docType *string) (*model.File, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[FileService] database connection не найден в context")
	}

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("пользователь не авторизован: %w", ErrPermission)
	}

	if title == nil && docType == nil {
		return nil, fmt.Errorf("нет полей для обновления: %w", ErrValidation)
	}
	if title != nil && strings.TrimSpace(*title) == "" {
		return nil, fmt.Errorf("заголовок не может быть пустым: %w", ErrValidation)
	}
	if docType != nil && model.IsValidDocType(*docType) == false {
		return nil, fmt.Errorf("недопустимый тип документа %q: %w", *docType, ErrValidation)
	}

	if title != nil {
		trimmed := strings.TrimSpace(*title)
		title = &trimmed
	}

	updated, err := s.fileRepository.UpdateMetadata(ctx, db, claims.OrgUUID, fileUUID, title, docType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("файл не найден: %w", ErrNotFound)
	} else if err != nil {
		return nil, util.LogError("[FileService] не удалось обновить мета-данные", err)
	}

	return updated, nil
}

// SoftDelete : помечает файл удалённым. Разрешено загрузившему или админу.
// Повторное удаление неотличимо от несуществующего файла.
func (s *FileService) SoftDelete(ctx context.Context, fileUUID string) (*model.File, error) {
	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("пользователь не авторизован: %w", ErrPermission)
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[FileService] не удалось начать транзакцию", err)
	}
	defer rollback()

	file, err := s.fileRepository.GetByUUID(ctx, exec, claims.OrgUUID, fileUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("файл не найден: %w", ErrNotFound)
	} else if err != nil {
		return nil, util.LogError("[FileService] не удалось получить файл", err)
	}

	if file.UploadedBy != claims.UserUUID && claims.IsAdmin() == false {
		return nil, fmt.Errorf("удалить файл может только загрузивший или админ организации: %w", ErrPermission)
	}

	deleted, err := s.fileRepository.SoftDelete(ctx, exec, claims.OrgUUID, fileUUID, claims.UserUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("файл не найден: %w", ErrNotFound)
	} else if err != nil {
		return nil, util.LogError("[FileService] не удалось удалить файл", err)
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[FileService] не удалось закоммитить транзакцию", err)
	}

	// висящая ссылка на загрузку удалённому файлу больше не нужна
	if err := s.handleRepository.DeleteUploadHandle(ctx, fileUUID); err != nil {
		log.Printf("[FileService] не удалось удалить запись о ссылке на загрузку файла %s: %v", fileUUID, err)
	}

	log.Printf("[FileService] файл %s помечен удалённым", fileUUID)

	// привязки при мягком удалении не трогаем — файл может быть восстановлен
	return deleted, nil
}

// ListVersions : вся живая цепочка версий по возрастанию номера
func (s *FileService) ListVersions(ctx context.Context, fileUUID string) ([]model.VersionEntry, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[FileService] database connection не найден в context")
	}

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("пользователь не авторизован: %w", ErrPermission)
	}

	file, err := s.fileRepository.GetByUUID(ctx, db, claims.OrgUUID, fileUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("файл не найден: %w", ErrNotFound)
	} else if err != nil {
		return nil, util.LogError("[FileService] не удалось получить файл", err)
	}

	chain, err := s.fileRepository.ListChain(ctx, db, claims.OrgUUID, file.RootUUID())
	if err != nil {
		return nil, util.LogError("[FileService] не удалось получить цепочку версий", err)
	}

	versions := make([]model.VersionEntry, 0, len(chain))
	for _, v := range chain {
		versions = append(versions, model.VersionEntry{
			UUID:      v.UUID,
			Version:   v.Version,
			Title:     v.Title,
			SizeBytes: v.SizeBytes,
			CreatedAt: v.CreatedAt,
		})
	}

	return versions, nil
}
