package service_test

import (
	"context"
	"crm-file-server/internal/model"
	"crm-file-server/internal/service"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockS3Storage struct{ mock.Mock }

func (m *MockS3Storage) GeneratePresignedGetURL(ctx context.Context, key string, expire time.Duration) (string, error) {
	args := m.Called(ctx, key, expire)
	return args.String(0), args.Error(1)
}

func (m *MockS3Storage) GeneratePresignedPutURL(ctx context.Context, key string, expire time.Duration) (string, error) {
	args := m.Called(ctx, key, expire)
	return args.String(0), args.Error(1)
}

func (m *MockS3Storage) ObjectExists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockS3Storage) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func newTestAccessService() (*service.AccessService, *MockFileRepository, *MockHandleRepository, *MockS3Storage) {
	mockFileRepo := new(MockFileRepository)
	mockHandleRepo := new(MockHandleRepository)
	mockStorage := new(MockS3Storage)

	svc := service.NewAccessService(
		mockFileRepo,
		mockHandleRepo,
		mockStorage,
		"crm-files",
		15*time.Minute,
		5*time.Minute,
	)

	return svc, mockFileRepo, mockHandleRepo, mockStorage
}

// ===== Тесты IssueUploadHandle =====

// локатор объекта детерминирован: {org}/{file}/{имя файла}
func TestIssueUploadHandle_LocatorFormat(t *testing.T) {
	svc, mockFileRepo, mockHandleRepo, mockStorage := newTestAccessService()
	ctx := context.Background()

	wantKey := "org1/file1/contract.pdf"
	mockStorage.On("GeneratePresignedPutURL", ctx, wantKey, 15*time.Minute).Return("http://put-url", nil).Once()
	mockFileRepo.On("SetStorageKey", ctx, mock.Anything, "file1", "crm-files", wantKey).Return(nil).Once()
	mockHandleRepo.On("SaveUploadHandle", ctx, "file1", wantKey, 15*time.Minute).Return(nil).Once()

	handle, err := svc.IssueUploadHandle(ctx, &fakeTx{}, "org1", "file1", "contract.pdf")

	require.NoError(t, err)
	assert.Equal(t, "http://put-url", handle.URL)
	assert.Equal(t, wantKey, handle.StorageKey)
	assert.Equal(t, 900, handle.ExpiresIn)
	assert.NotEmpty(t, handle.Token)
	mockStorage.AssertExpectations(t)
	mockFileRepo.AssertExpectations(t)
}

func TestIssueUploadHandle_StorageError(t *testing.T) {
	svc, _, _, mockStorage := newTestAccessService()
	ctx := context.Background()

	mockStorage.On("GeneratePresignedPutURL", ctx, mock.Anything, mock.Anything).
		Return("", assert.AnError).Once()

	handle, err := svc.IssueUploadHandle(ctx, &fakeTx{}, "org1", "file1", "contract.pdf")

	assert.Nil(t, handle)
	assert.ErrorIs(t, err, service.ErrStorage)
}

// ===== Тесты IssueViewHandle =====

func TestIssueViewHandle_Success(t *testing.T) {
	svc, mockFileRepo, _, mockStorage := newTestAccessService()
	ctx := authorizedContext("user1", "org1", "manager")

	file := &model.File{
		UUID:             "file1",
		OrgUUID:          "org1",
		MimeType:         "application/pdf",
		FilenameOriginal: "contract.pdf",
		StorageKey:       "org1/file1/contract.pdf",
	}

	mockFileRepo.On("GetByUUID", ctx, mock.Anything, "org1", "file1").Return(file, nil).Once()
	mockStorage.On("ObjectExists", ctx, file.StorageKey).Return(true, nil).Once()
	mockStorage.On("GeneratePresignedGetURL", ctx, file.StorageKey, 5*time.Minute).Return("http://get-url", nil).Once()

	handle, err := svc.IssueViewHandle(ctx, "file1")

	require.NoError(t, err)
	assert.Equal(t, "http://get-url", handle.URL)
	assert.Equal(t, "application/pdf", handle.MimeType)
	assert.Equal(t, "contract.pdf", handle.Filename)
	assert.Equal(t, 300, handle.ExpiresIn)
}

func TestIssueViewHandle_FileNotFound(t *testing.T) {
	svc, mockFileRepo, _, _ := newTestAccessService()
	ctx := authorizedContext("user1", "org1", "manager")

	mockFileRepo.On("GetByUUID", ctx, mock.Anything, "org1", "missing").Return(nil, sql.ErrNoRows).Once()

	handle, err := svc.IssueViewHandle(ctx, "missing")

	assert.Nil(t, handle)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

// локатор ещё не записан — загрузка даже не начиналась
func TestIssueViewHandle_EmptyStorageKey(t *testing.T) {
	svc, mockFileRepo, _, _ := newTestAccessService()
	ctx := authorizedContext("user1", "org1", "manager")

	file := &model.File{UUID: "file1", OrgUUID: "org1"}
	mockFileRepo.On("GetByUUID", ctx, mock.Anything, "org1", "file1").Return(file, nil).Once()

	handle, err := svc.IssueViewHandle(ctx, "file1")

	assert.Nil(t, handle)
	assert.ErrorIs(t, err, service.ErrUploadPending)
}

// объекта нет, но ссылка на загрузку ещё жива — клиент догружает байты
func TestIssueViewHandle_UploadStillPending(t *testing.T) {
	svc, mockFileRepo, mockHandleRepo, mockStorage := newTestAccessService()
	ctx := authorizedContext("user1", "org1", "manager")

	file := &model.File{UUID: "file1", OrgUUID: "org1", StorageKey: "org1/file1/contract.pdf"}
	mockFileRepo.On("GetByUUID", ctx, mock.Anything, "org1", "file1").Return(file, nil).Once()
	mockStorage.On("ObjectExists", ctx, file.StorageKey).Return(false, nil).Once()
	mockHandleRepo.On("HasPendingUpload", ctx, "file1").Return(true, nil).Once()

	handle, err := svc.IssueViewHandle(ctx, "file1")

	assert.Nil(t, handle)
	assert.ErrorIs(t, err, service.ErrUploadPending)
}

// объекта нет и ссылка давно истекла — это уже потерянный blob
func TestIssueViewHandle_LostObject(t *testing.T) {
	svc, mockFileRepo, mockHandleRepo, mockStorage := newTestAccessService()
	ctx := authorizedContext("user1", "org1", "manager")

	file := &model.File{UUID: "file1", OrgUUID: "org1", StorageKey: "org1/file1/contract.pdf"}
	mockFileRepo.On("GetByUUID", ctx, mock.Anything, "org1", "file1").Return(file, nil).Once()
	mockStorage.On("ObjectExists", ctx, file.StorageKey).Return(false, nil).Once()
	mockHandleRepo.On("HasPendingUpload", ctx, "file1").Return(false, nil).Once()

	handle, err := svc.IssueViewHandle(ctx, "file1")

	assert.Nil(t, handle)
	assert.ErrorIs(t, err, service.ErrStorage)
}
