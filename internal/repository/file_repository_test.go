package repository_test

import (
	"context"
	"crm-file-server/config"
	"crm-file-server/internal/model"
	"crm-file-server/internal/repository"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fileColumns = []string{
	"uuid", "org_uuid", "uploaded_by", "title", "filename_original", "doc_type", "mime_type",
	"size_bytes", "bucket", "storage_key", "version", "parent_uuid",
	"created_at", "updated_at", "is_deleted", "deleted_at", "deleted_by",
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mockSQL, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mockSQL
}

func addFileRow(rows *sqlmock.Rows, uuid string, version int, parentUUID interface{}) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		uuid, "org1", "user1", "Договор", "contract.pdf", "contract", "application/pdf",
		int64(1024), "crm-files", "org1/"+uuid+"/contract.pdf", version, parentUUID,
		now, now, false, nil, nil,
	)
}

func TestFileRepositoryCreate_VersionTakenByRace(t *testing.T) {
	db, mockSQL := newMockDB(t)
	repo := repository.NewFileRepository(&config.Database{DB: db})

	mockSQL.ExpectExec(regexp.QuoteMeta("INSERT INTO files")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "files_chain_version_idx"})

	root := "root1"
	err := repo.Create(context.Background(), db, &model.File{
		UUID:       "file2",
		OrgUUID:    "org1",
		Version:    2,
		ParentUUID: &root,
	})

	assert.ErrorIs(t, err, repository.ErrUniqueViolation)
	assert.NoError(t, mockSQL.ExpectationsWereMet())
}

func TestFileRepositoryGetByUUID_SkipsDeleted(t *testing.T) {
	db, mockSQL := newMockDB(t)
	repo := repository.NewFileRepository(&config.Database{DB: db})

	// удалённая строка невидима для обычного чтения
	mockSQL.ExpectQuery(regexp.QuoteMeta("WHERE uuid = $1 AND org_uuid = $2 AND is_deleted = FALSE")).
		WithArgs("file1", "org1").
		WillReturnError(sql.ErrNoRows)

	file, err := repo.GetByUUID(context.Background(), db, "org1", "file1")

	assert.Nil(t, file)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

// номера версий не переиспользуются: максимум берётся и по удалённым строкам
func TestFileRepositoryNextVersion_CountsDeletedRows(t *testing.T) {
	db, mockSQL := newMockDB(t)
	repo := repository.NewFileRepository(&config.Database{DB: db})

	query := regexp.QuoteMeta(`
			SELECT COALESCE(MAX(version), 0) + 1
			FROM files
			WHERE org_uuid = $1 AND (uuid = $2 OR parent_uuid = $2)
		`)
	mockSQL.ExpectQuery(query).
		WithArgs("org1", "root1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(4))

	next, err := repo.NextVersion(context.Background(), db, "org1", "root1")

	require.NoError(t, err)
	assert.Equal(t, 4, next)
	assert.NoError(t, mockSQL.ExpectationsWereMet())
}

func TestFileRepositoryListChain(t *testing.T) {
	db, mockSQL := newMockDB(t)
	repo := repository.NewFileRepository(&config.Database{DB: db})

	rows := sqlmock.NewRows(fileColumns)
	addFileRow(rows, "root1", 1, nil)
	addFileRow(rows, "file2", 2, "root1")

	mockSQL.ExpectQuery("ORDER BY version ASC").
		WithArgs("org1", "root1").
		WillReturnRows(rows)

	chain, err := repo.ListChain(context.Background(), db, "org1", "root1")

	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, 1, chain[0].Version)
	assert.Equal(t, "root1", *chain[1].ParentUUID)
}

func TestFileRepositoryListByUUIDs_EmptyInput(t *testing.T) {
	db, _ := newMockDB(t)
	repo := repository.NewFileRepository(&config.Database{DB: db})

	files, err := repo.ListByUUIDs(context.Background(), db, "org1", nil)

	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFileRepositorySoftDelete_SecondCallNoRows(t *testing.T) {
	db, mockSQL := newMockDB(t)
	repo := repository.NewFileRepository(&config.Database{DB: db})

	// первый раз строка обновляется и возвращается
	rows := sqlmock.NewRows(fileColumns)
	addFileRow(rows, "file1", 1, nil)
	mockSQL.ExpectQuery(regexp.QuoteMeta("SET is_deleted = TRUE, deleted_at = NOW(), deleted_by = $3")).
		WithArgs("file1", "org1", "user1").
		WillReturnRows(rows)

	// второй раз is_deleted = FALSE уже не совпадает
	mockSQL.ExpectQuery(regexp.QuoteMeta("SET is_deleted = TRUE, deleted_at = NOW(), deleted_by = $3")).
		WithArgs("file1", "org1", "user1").
		WillReturnError(sql.ErrNoRows)

	deleted, err := repo.SoftDelete(context.Background(), db, "org1", "file1", "user1")
	require.NoError(t, err)
	assert.Equal(t, "file1", deleted.UUID)

	deleted, err = repo.SoftDelete(context.Background(), db, "org1", "file1", "user1")
	assert.Nil(t, deleted)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mockSQL.ExpectationsWereMet())
}

func TestFileRepositoryUpdateMetadata_PartialFields(t *testing.T) {
	db, mockSQL := newMockDB(t)
	repo := repository.NewFileRepository(&config.Database{DB: db})

	rows := sqlmock.NewRows(fileColumns)
	addFileRow(rows, "file1", 1, nil)

	title := "Договор поставки (ред. 2)"
	mockSQL.ExpectQuery(regexp.QuoteMeta("SET title      = COALESCE($3, title)")).
		WithArgs("file1", "org1", title, nil).
		WillReturnRows(rows)

	file, err := repo.UpdateMetadata(context.Background(), db, "org1", "file1", &title, nil)

	require.NoError(t, err)
	assert.Equal(t, "file1", file.UUID)
	assert.NoError(t, mockSQL.ExpectationsWereMet())
}
