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

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// unknownUploader : подставляется вместо имени, если пользователь не найден
const unknownUploader = "Unknown"

// LinkService : привязки файлов к сущностям CRM и транзитивный поиск.
// Состояния вне БД нет: каждый вызов перечитывает реляционный слой,
// наборы файлов в рамках организации малы.
type LinkService struct {
	linkRepository ports.LinkRepository
	fileRepository ports.FileRepository
	crmRepository  ports.CRMRepository
	userRepository ports.UserRepository
}

func NewLinkService(
	linkRepository ports.LinkRepository,
	fileRepository ports.FileRepository,
	crmRepository ports.CRMRepository,
	userRepository ports.UserRepository,
) *LinkService {
	return &LinkService{
		linkRepository: linkRepository,
		fileRepository: fileRepository,
		crmRepository:  crmRepository,
		userRepository: userRepository,
	}
}

// CreateLink : привязывает файл к сущности CRM. Тип сущности проверяется
// до любого обращения к БД; дубликат привязки — конфликт, не no-op.
func (s *LinkService) CreateLink(ctx context.Context, fileUUID, entityType, entityUUID string) (*model.FileLink, error) {
	if model.IsValidEntityType(entityType) == false {
		return nil, fmt.Errorf("недопустимый тип сущности %q: %w", entityType, ErrValidation)
	}
	if fileUUID == "" || entityUUID == "" {
		return nil, fmt.Errorf("не указан файл или сущность: %w", ErrValidation)
	}

	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[LinkService] database connection не найден в context")
	}

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("пользователь не авторизован: %w", ErrPermission)
	}

	_, err = s.fileRepository.GetByUUID(ctx, db, claims.OrgUUID, fileUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("файл не найден: %w", ErrNotFound)
	} else if err != nil {
		return nil, util.LogError("[LinkService] не удалось получить файл", err)
	}

	exists, err := s.crmRepository.EntityExists(ctx, db, claims.OrgUUID, entityType, entityUUID)
	if err != nil {
		return nil, util.LogError("[LinkService] ошибка проверки сущности", err)
	}
	if exists == false {
		return nil, fmt.Errorf("сущность %s не найдена: %w", entityType, ErrNotFound)
	}

	link := &model.FileLink{
		UUID:       uuid.New().String(),
		OrgUUID:    claims.OrgUUID,
		FileUUID:   fileUUID,
		EntityType: entityType,
		EntityUUID: entityUUID,
		CreatedBy:  claims.UserUUID,
	}

	if err := s.linkRepository.Create(ctx, db, link); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, fmt.Errorf("файл уже привязан к этой сущности: %w", ErrConflict)
		}
		return nil, util.LogError("[LinkService] не удалось сохранить привязку", err)
	}

	log.Printf("[LinkService] файл %s привязан к %s %s", fileUUID, entityType, entityUUID)

	return link, nil
}

// ListLinksForEntity : файлы, привязанные к сущности напрямую (без обхода
// связей), каждый с полной цепочкой версий
func (s *LinkService) ListLinksForEntity(ctx context.Context, entityType, entityUUID string) ([]model.EntityFile, error) {
	if model.IsValidEntityType(entityType) == false {
		return nil, fmt.Errorf("недопустимый тип сущности %q: %w", entityType, ErrValidation)
	}
	if entityUUID == "" {
		return nil, fmt.Errorf("не указана сущность: %w", ErrValidation)
	}

	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[LinkService] database connection не найден в context")
	}

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("пользователь не авторизован: %w", ErrPermission)
	}

	links, err := s.linkRepository.ListByEntity(ctx, db, claims.OrgUUID, entityType, entityUUID)
	if err != nil {
		return nil, util.LogError("[LinkService] не удалось получить привязки", err)
	}

	fileUUIDs := make([]string, 0, len(links))
	for _, link := range links {
		fileUUIDs = append(fileUUIDs, link.FileUUID)
	}

	files, err := s.fileRepository.ListByUUIDs(ctx, db, claims.OrgUUID, fileUUIDs)
	if err != nil {
		return nil, util.LogError("[LinkService] не удалось получить файлы", err)
	}

	names := s.resolveUploaderNames(ctx, db, files)

	result := make([]model.EntityFile, 0, len(files))
	for _, file := range files {
		chain, err := s.fileRepository.ListChain(ctx, db, claims.OrgUUID, file.RootUUID())
		if err != nil {
			return nil, util.LogError("[LinkService] не удалось получить цепочку версий", err)
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

		result = append(result, model.EntityFile{
			File:           file,
			UploadedByName: names[file.UploadedBy],
			Versions:       versions,
		})
	}

	return result, nil
}

// ResolveRelatedFiles : все файлы, относящиеся к компании или контакту,
// включая найденные через сделки. Замыкание одного уровня:
// company → deals → links и contact → company → deals → links.
func (s *LinkService) ResolveRelatedFiles(ctx context.Context, companyUUID, contactUUID string) ([]model.RelatedFile, error) {
	if companyUUID == "" && contactUUID == "" {
		return nil, fmt.Errorf("нужен company_id или contact_id: %w", ErrValidation)
	}

	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[LinkService] database connection не найден в context")
	}

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("пользователь не авторизован: %w", ErrPermission)
	}

	// файл может быть найден несколькими путями — провенанс накапливается
	provenance := map[string][]model.LinkProvenance{}

	if companyUUID != "" {
		direct, err := s.linkRepository.ListByEntity(ctx, db, claims.OrgUUID, model.EntityTypeCompany, companyUUID)
		if err != nil {
			return nil, util.LogError("[LinkService] не удалось получить привязки компании", err)
		}
		for _, link := range direct {
			provenance[link.FileUUID] = append(provenance[link.FileUUID], model.LinkProvenance{
				EntityType: model.EntityTypeCompany,
				EntityUUID: companyUUID,
			})
		}

		if err := s.collectDealLinks(ctx, db, claims.OrgUUID, companyUUID, provenance); err != nil {
			return nil, err
		}
	}

	if contactUUID != "" {
		direct, err := s.linkRepository.ListByEntity(ctx, db, claims.OrgUUID, model.EntityTypeContact, contactUUID)
		if err != nil {
			return nil, util.LogError("[LinkService] не удалось получить привязки контакта", err)
		}
		for _, link := range direct {
			provenance[link.FileUUID] = append(provenance[link.FileUUID], model.LinkProvenance{
				EntityType: model.EntityTypeContact,
				EntityUUID: contactUUID,
			})
		}

		// контакт без компании через сделки ничего не даёт
		contactCompany, err := s.crmRepository.GetCompanyForContact(ctx, db, claims.OrgUUID, contactUUID)
		if err != nil {
			return nil, util.LogError("[LinkService] не удалось получить компанию контакта", err)
		}
		if contactCompany != nil && *contactCompany != "" {
			if err := s.collectDealLinks(ctx, db, claims.OrgUUID, *contactCompany, provenance); err != nil {
				return nil, err
			}
		}
	}

	fileUUIDs := make([]string, 0, len(provenance))
	for fileUUID := range provenance {
		fileUUIDs = append(fileUUIDs, fileUUID)
	}
	if len(fileUUIDs) == 0 {
		return []model.RelatedFile{}, nil
	}

	// удалённые файлы отсеиваются здесь, порядок — новые сверху
	files, err := s.fileRepository.ListByUUIDs(ctx, db, claims.OrgUUID, fileUUIDs)
	if err != nil {
		return nil, util.LogError("[LinkService] не удалось получить файлы", err)
	}

	names := s.resolveUploaderNames(ctx, db, files)

	result := make([]model.RelatedFile, 0, len(files))
	for _, file := range files {
		result = append(result, model.RelatedFile{
			File:           file,
			UploadedByName: names[file.UploadedBy],
			LinkedTo:       provenance[file.UUID],
		})
	}

	return result, nil
}

// collectDealLinks : добавляет в провенанс файлы, привязанные к сделкам компании
func (s *LinkService) collectDealLinks(ctx context.Context, exec sqlx.ExtContext, orgUUID, companyUUID string, provenance map[string][]model.LinkProvenance) error {
	deals, err := s.crmRepository.ListDealsForCompany(ctx, exec, orgUUID, companyUUID)
	if err != nil {
		return util.LogError("[LinkService] не удалось получить сделки компании", err)
	}
	if len(deals) == 0 {
		return nil
	}

	dealUUIDs := make([]string, 0, len(deals))
	dealNames := make(map[string]string, len(deals))
	for _, deal := range deals {
		dealUUIDs = append(dealUUIDs, deal.UUID)
		dealNames[deal.UUID] = deal.Name
	}

	dealLinks, err := s.linkRepository.ListByEntityIDs(ctx, exec, orgUUID, model.EntityTypeDeal, dealUUIDs)
	if err != nil {
		return util.LogError("[LinkService] не удалось получить привязки сделок", err)
	}

	for _, link := range dealLinks {
		provenance[link.FileUUID] = append(provenance[link.FileUUID], model.LinkProvenance{
			EntityType: model.EntityTypeDeal,
			EntityUUID: link.EntityUUID,
			EntityName: dealNames[link.EntityUUID],
		})
	}
	return nil
}

// resolveUploaderNames : имена загрузивших; неизвестный пользователь не
// валит весь запрос, вместо имени подставляется "Unknown"
func (s *LinkService) resolveUploaderNames(ctx context.Context, exec sqlx.ExtContext, files []model.File) map[string]string {
	uploaderSet := map[string]bool{}
	uploaderUUIDs := []string{}
	for _, file := range files {
		if uploaderSet[file.UploadedBy] == false {
			uploaderSet[file.UploadedBy] = true
			uploaderUUIDs = append(uploaderUUIDs, file.UploadedBy)
		}
	}

	names, err := s.userRepository.GetDisplayNames(ctx, exec, uploaderUUIDs)
	if err != nil {
		log.Printf("[LinkService] не удалось получить имена пользователей: %v", err)
		names = map[string]string{}
	}

	for _, userUUID := range uploaderUUIDs {
		if names[userUUID] == "" {
			names[userUUID] = unknownUploader
		}
	}
	return names
}
