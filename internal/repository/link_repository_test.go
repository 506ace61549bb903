package repository_test

import (
	"context"
	"crm-file-server/config"
	"crm-file-server/internal/model"
	"crm-file-server/internal/repository"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var linkColumns = []string{"uuid", "org_uuid", "file_uuid", "entity_type", "entity_uuid", "created_by", "created_at"}

func TestLinkRepositoryCreate_Success(t *testing.T) {
	db, mockSQL := newMockDB(t)
	repo := repository.NewLinkRepository(&config.Database{DB: db})

	mockSQL.ExpectExec(regexp.QuoteMeta("INSERT INTO file_links")).
		WithArgs("l1", "org1", "file1", model.EntityTypeDeal, "deal1", "user1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), db, &model.FileLink{
		UUID:       "l1",
		OrgUUID:    "org1",
		FileUUID:   "file1",
		EntityType: model.EntityTypeDeal,
		EntityUUID: "deal1",
		CreatedBy:  "user1",
	})

	require.NoError(t, err)
	assert.NoError(t, mockSQL.ExpectationsWereMet())
}

// дубликат тройки (файл, тип, сущность) отбивается уникальным ограничением
func TestLinkRepositoryCreate_Duplicate(t *testing.T) {
	db, mockSQL := newMockDB(t)
	repo := repository.NewLinkRepository(&config.Database{DB: db})

	mockSQL.ExpectExec(regexp.QuoteMeta("INSERT INTO file_links")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "file_links_unique"})

	err := repo.Create(context.Background(), db, &model.FileLink{
		UUID:       "l2",
		OrgUUID:    "org1",
		FileUUID:   "file1",
		EntityType: model.EntityTypeDeal,
		EntityUUID: "deal1",
		CreatedBy:  "user1",
	})

	assert.ErrorIs(t, err, repository.ErrUniqueViolation)
}

func TestLinkRepositoryListByEntity(t *testing.T) {
	db, mockSQL := newMockDB(t)
	repo := repository.NewLinkRepository(&config.Database{DB: db})

	rows := sqlmock.NewRows(linkColumns).
		AddRow("l1", "org1", "file1", model.EntityTypeDeal, "deal1", "user1", time.Now()).
		AddRow("l2", "org1", "file2", model.EntityTypeDeal, "deal1", "user2", time.Now())

	mockSQL.ExpectQuery(regexp.QuoteMeta("WHERE org_uuid = $1 AND entity_type = $2 AND entity_uuid = $3")).
		WithArgs("org1", model.EntityTypeDeal, "deal1").
		WillReturnRows(rows)

	links, err := repo.ListByEntity(context.Background(), db, "org1", model.EntityTypeDeal, "deal1")

	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "file1", links[0].FileUUID)
}

func TestLinkRepositoryListByEntityIDs(t *testing.T) {
	db, mockSQL := newMockDB(t)
	repo := repository.NewLinkRepository(&config.Database{DB: db})

	rows := sqlmock.NewRows(linkColumns).
		AddRow("l1", "org1", "file1", model.EntityTypeDeal, "deal1", "user1", time.Now())

	// sqlx.In разворачивает список сделок в плейсхолдеры
	mockSQL.ExpectQuery("entity_uuid IN").
		WithArgs("org1", model.EntityTypeDeal, "deal1", "deal2").
		WillReturnRows(rows)

	links, err := repo.ListByEntityIDs(context.Background(), db, "org1", model.EntityTypeDeal, []string{"deal1", "deal2"})

	require.NoError(t, err)
	require.Len(t, links, 1)
}

func TestLinkRepositoryListByEntityIDs_EmptyInput(t *testing.T) {
	db, _ := newMockDB(t)
	repo := repository.NewLinkRepository(&config.Database{DB: db})

	links, err := repo.ListByEntityIDs(context.Background(), db, "org1", model.EntityTypeDeal, nil)

	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestLinkRepositoryDeleteByFile(t *testing.T) {
	db, mockSQL := newMockDB(t)
	repo := repository.NewLinkRepository(&config.Database{DB: db})

	mockSQL.ExpectExec(regexp.QuoteMeta("DELETE FROM file_links WHERE file_uuid = $1")).
		WithArgs("file1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.DeleteByFile(context.Background(), db, "file1")

	require.NoError(t, err)
	assert.NoError(t, mockSQL.ExpectationsWereMet())
}
