package service_test

import (
	"context"
	"crm-file-server/internal/model"
	"crm-file-server/internal/repository"
	"crm-file-server/internal/service"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCRMRepository struct{ mock.Mock }

func (m *MockCRMRepository) EntityExists(ctx context.Context, exec sqlx.ExtContext, orgUUID, entityType, entityUUID string) (bool, error) {
	args := m.Called(ctx, exec, orgUUID, entityType, entityUUID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCRMRepository) GetCompanyForContact(ctx context.Context, exec sqlx.ExtContext, orgUUID, contactUUID string) (*string, error) {
	args := m.Called(ctx, exec, orgUUID, contactUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockCRMRepository) ListDealsForCompany(ctx context.Context, exec sqlx.ExtContext, orgUUID, companyUUID string) ([]model.DealRef, error) {
	args := m.Called(ctx, exec, orgUUID, companyUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DealRef), args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) GetDisplayNames(ctx context.Context, exec sqlx.ExtContext, userUUIDs []string) (map[string]string, error) {
	args := m.Called(ctx, exec, userUUIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func newTestLinkService() (*service.LinkService, *MockLinkRepository, *MockFileRepository, *MockCRMRepository, *MockUserRepository) {
	mockLinkRepo := new(MockLinkRepository)
	mockFileRepo := new(MockFileRepository)
	mockCRMRepo := new(MockCRMRepository)
	mockUserRepo := new(MockUserRepository)

	svc := service.NewLinkService(mockLinkRepo, mockFileRepo, mockCRMRepo, mockUserRepo)

	return svc, mockLinkRepo, mockFileRepo, mockCRMRepo, mockUserRepo
}

// ===== Тесты CreateLink =====

// тип сущности проверяется до любого обращения к БД:
// в context специально не положено соединение
func TestCreateLink_InvalidEntityType_BeforeDB(t *testing.T) {
	svc, _, _, _, _ := newTestLinkService()

	link, err := svc.CreateLink(context.Background(), "file1", "project", "ent1")

	assert.Nil(t, link)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestCreateLink_Success(t *testing.T) {
	svc, mockLinkRepo, mockFileRepo, mockCRMRepo, _ := newTestLinkService()
	ctx := authorizedContext("user1", "org1", "manager")

	file := &model.File{UUID: "file1", OrgUUID: "org1"}

	mockFileRepo.On("GetByUUID", ctx, mock.Anything, "org1", "file1").Return(file, nil).Once()
	mockCRMRepo.On("EntityExists", ctx, mock.Anything, "org1", model.EntityTypeDeal, "deal1").Return(true, nil).Once()
	mockLinkRepo.On("Create", ctx, mock.Anything, mock.MatchedBy(func(l *model.FileLink) bool {
		return l.OrgUUID == "org1" && l.FileUUID == "file1" &&
			l.EntityType == model.EntityTypeDeal && l.EntityUUID == "deal1" &&
			l.CreatedBy == "user1"
	})).Return(nil).Once()

	link, err := svc.CreateLink(ctx, "file1", model.EntityTypeDeal, "deal1")

	require.NoError(t, err)
	assert.NotEmpty(t, link.UUID)
	mockLinkRepo.AssertExpectations(t)
}

// повторная привязка той же тройки — конфликт, а не no-op
func TestCreateLink_Duplicate(t *testing.T) {
	svc, mockLinkRepo, mockFileRepo, mockCRMRepo, _ := newTestLinkService()
	ctx := authorizedContext("user1", "org1", "manager")

	file := &model.File{UUID: "file1", OrgUUID: "org1"}

	mockFileRepo.On("GetByUUID", ctx, mock.Anything, "org1", "file1").Return(file, nil).Once()
	mockCRMRepo.On("EntityExists", ctx, mock.Anything, "org1", model.EntityTypeDeal, "deal1").Return(true, nil).Once()
	mockLinkRepo.On("Create", ctx, mock.Anything, mock.Anything).Return(repository.ErrUniqueViolation).Once()

	link, err := svc.CreateLink(ctx, "file1", model.EntityTypeDeal, "deal1")

	assert.Nil(t, link)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestCreateLink_EntityMissing(t *testing.T) {
	svc, _, mockFileRepo, mockCRMRepo, _ := newTestLinkService()
	ctx := authorizedContext("user1", "org1", "manager")

	file := &model.File{UUID: "file1", OrgUUID: "org1"}

	mockFileRepo.On("GetByUUID", ctx, mock.Anything, "org1", "file1").Return(file, nil).Once()
	mockCRMRepo.On("EntityExists", ctx, mock.Anything, "org1", model.EntityTypeCompany, "comp1").Return(false, nil).Once()

	link, err := svc.CreateLink(ctx, "file1", model.EntityTypeCompany, "comp1")

	assert.Nil(t, link)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

// ===== Тесты ResolveRelatedFiles =====

func TestResolveRelatedFiles_RequiresCompanyOrContact(t *testing.T) {
	svc, _, _, _, _ := newTestLinkService()
	ctx := authorizedContext("user1", "org1", "manager")

	files, err := svc.ResolveRelatedFiles(ctx, "", "")

	assert.Nil(t, files)
	assert.ErrorIs(t, err, service.ErrValidation)
}

// файл привязан и к компании напрямую, и к её сделке —
// в выдаче он один, с двумя записями провенанса
func TestResolveRelatedFiles_CompanyWithDeals(t *testing.T) {
	svc, mockLinkRepo, mockFileRepo, mockCRMRepo, mockUserRepo := newTestLinkService()
	ctx := authorizedContext("user1", "org1", "manager")

	mockLinkRepo.On("ListByEntity", ctx, mock.Anything, "org1", model.EntityTypeCompany, "comp1").
		Return([]model.FileLink{
			{UUID: "l1", FileUUID: "file1", EntityType: model.EntityTypeCompany, EntityUUID: "comp1"},
		}, nil).Once()
	mockCRMRepo.On("ListDealsForCompany", ctx, mock.Anything, "org1", "comp1").
		Return([]model.DealRef{{UUID: "deal1", Name: "Поставка серверов"}}, nil).Once()
	mockLinkRepo.On("ListByEntityIDs", ctx, mock.Anything, "org1", model.EntityTypeDeal, []string{"deal1"}).
		Return([]model.FileLink{
			{UUID: "l2", FileUUID: "file1", EntityType: model.EntityTypeDeal, EntityUUID: "deal1"},
			{UUID: "l3", FileUUID: "file2", EntityType: model.EntityTypeDeal, EntityUUID: "deal1"},
		}, nil).Once()
	mockFileRepo.On("ListByUUIDs", ctx, mock.Anything, "org1", mock.MatchedBy(func(ids []string) bool {
		return len(ids) == 2
	})).Return([]model.File{
		{UUID: "file2", OrgUUID: "org1", UploadedBy: "user1"},
		{UUID: "file1", OrgUUID: "org1", UploadedBy: "ghost"},
	}, nil).Once()
	mockUserRepo.On("GetDisplayNames", ctx, mock.Anything, mock.Anything).
		Return(map[string]string{"user1": "Иван Петров"}, nil).Once()

	files, err := svc.ResolveRelatedFiles(ctx, "comp1", "")

	require.NoError(t, err)
	require.Len(t, files, 2)

	byUUID := map[string]model.RelatedFile{}
	for _, f := range files {
		byUUID[f.UUID] = f
	}

	assert.Len(t, byUUID["file1"].LinkedTo, 2)
	assert.Len(t, byUUID["file2"].LinkedTo, 1)
	assert.Equal(t, "Поставка серверов", byUUID["file2"].LinkedTo[0].EntityName)

	// пользователь ghost в справочнике отсутствует
	assert.Equal(t, "Unknown", byUUID["file1"].UploadedByName)
	assert.Equal(t, "Иван Петров", byUUID["file2"].UploadedByName)
}

// контакт без компании даёт только свои прямые привязки
func TestResolveRelatedFiles_ContactWithoutCompany(t *testing.T) {
	svc, mockLinkRepo, mockFileRepo, mockCRMRepo, mockUserRepo := newTestLinkService()
	ctx := authorizedContext("user1", "org1", "manager")

	mockLinkRepo.On("ListByEntity", ctx, mock.Anything, "org1", model.EntityTypeContact, "cont1").
		Return([]model.FileLink{
			{UUID: "l1", FileUUID: "file1", EntityType: model.EntityTypeContact, EntityUUID: "cont1"},
		}, nil).Once()
	mockCRMRepo.On("GetCompanyForContact", ctx, mock.Anything, "org1", "cont1").Return(nil, nil).Once()
	mockFileRepo.On("ListByUUIDs", ctx, mock.Anything, "org1", []string{"file1"}).
		Return([]model.File{{UUID: "file1", OrgUUID: "org1", UploadedBy: "user1"}}, nil).Once()
	mockUserRepo.On("GetDisplayNames", ctx, mock.Anything, mock.Anything).
		Return(map[string]string{"user1": "Иван Петров"}, nil).Once()

	files, err := svc.ResolveRelatedFiles(ctx, "", "cont1")

	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Len(t, files[0].LinkedTo, 1)
	assert.Equal(t, model.EntityTypeContact, files[0].LinkedTo[0].EntityType)
}

// удалённые файлы отсеиваются на чтении списка файлов
func TestResolveRelatedFiles_DeletedFilesExcluded(t *testing.T) {
	svc, mockLinkRepo, mockFileRepo, mockCRMRepo, mockUserRepo := newTestLinkService()
	ctx := authorizedContext("user1", "org1", "manager")

	mockLinkRepo.On("ListByEntity", ctx, mock.Anything, "org1", model.EntityTypeCompany, "comp1").
		Return([]model.FileLink{
			{UUID: "l1", FileUUID: "deleted-file", EntityType: model.EntityTypeCompany, EntityUUID: "comp1"},
		}, nil).Once()
	mockCRMRepo.On("ListDealsForCompany", ctx, mock.Anything, "org1", "comp1").
		Return([]model.DealRef{}, nil).Once()
	mockFileRepo.On("ListByUUIDs", ctx, mock.Anything, "org1", []string{"deleted-file"}).
		Return([]model.File{}, nil).Once()
	mockUserRepo.On("GetDisplayNames", ctx, mock.Anything, mock.Anything).
		Return(map[string]string{}, nil).Once()

	files, err := svc.ResolveRelatedFiles(ctx, "comp1", "")

	require.NoError(t, err)
	assert.Empty(t, files)
}

// ===== Тесты ListLinksForEntity =====

func TestListLinksForEntity_WithVersionChains(t *testing.T) {
	svc, mockLinkRepo, mockFileRepo, _, mockUserRepo := newTestLinkService()
	ctx := authorizedContext("user1", "org1", "manager")

	rootUUID := "root1"
	mockLinkRepo.On("ListByEntity", ctx, mock.Anything, "org1", model.EntityTypeDeal, "deal1").
		Return([]model.FileLink{
			{UUID: "l1", FileUUID: "file-v2", EntityType: model.EntityTypeDeal, EntityUUID: "deal1"},
		}, nil).Once()
	mockFileRepo.On("ListByUUIDs", ctx, mock.Anything, "org1", []string{"file-v2"}).
		Return([]model.File{
			{UUID: "file-v2", OrgUUID: "org1", UploadedBy: "user1", Version: 2, ParentUUID: &rootUUID},
		}, nil).Once()
	mockUserRepo.On("GetDisplayNames", ctx, mock.Anything, mock.Anything).
		Return(map[string]string{"user1": "Иван Петров"}, nil).Once()
	mockFileRepo.On("ListChain", ctx, mock.Anything, "org1", rootUUID).
		Return([]model.File{
			{UUID: rootUUID, Version: 1},
			{UUID: "file-v2", Version: 2},
		}, nil).Once()

	files, err := svc.ListLinksForEntity(ctx, model.EntityTypeDeal, "deal1")

	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "Иван Петров", files[0].UploadedByName)
	require.Len(t, files[0].Versions, 2)
	assert.Equal(t, 1, files[0].Versions[0].Version)
}

func TestListLinksForEntity_InvalidEntityType(t *testing.T) {
	svc, _, _, _, _ := newTestLinkService()
	ctx := authorizedContext("user1", "org1", "manager")

	files, err := svc.ListLinksForEntity(ctx, "lead", "ent1")

	assert.Nil(t, files)
	assert.ErrorIs(t, err, service.ErrValidation)
}
