package repository

import (
	"context"
	"crm-file-server/config"
	"crm-file-server/internal/model"
	"crm-file-server/internal/util"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CRMRepository : чтение сущностей CRM (deals/companies/contacts) по
// идентификаторам. Таблицы принадлежат CRM-подсистеме, здесь ничего не пишется.
type CRMRepository struct {
	database *config.Database
}

func NewCRMRepository(database *config.Database) *CRMRepository {
	return &CRMRepository{database: database}
}

func entityTable(entityType string) (string, error) {
	switch entityType {
	case model.EntityTypeDeal:
		return "deals", nil
	case model.EntityTypeCompany:
		return "companies", nil
	case model.EntityTypeContact:
		return "contacts", nil
	}
	return "", fmt.Errorf("неизвестный тип сущности: %s", entityType)
}

// EntityExists : true, если сущность существует и принадлежит организации
func (r *CRMRepository) EntityExists(ctx context.Context, exec sqlx.ExtContext, orgUUID, entityType, entityUUID string) (bool, error) {
	table, err := entityTable(entityType)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE uuid = $1 AND org_uuid = $2)`, table)

	var exists bool
	if err := sqlx.GetContext(ctx, exec, &exists, query, entityUUID, orgUUID); err != nil {
		return false, util.LogError("[CRMRepo] ошибка проверки сущности", err)
	}
	return exists, nil
}

// GetCompanyForContact : компания контакта; nil, если контакт без компании
func (r *CRMRepository) GetCompanyForContact(ctx context.Context, exec sqlx.ExtContext, orgUUID, contactUUID string) (*string, error) {
	query := `
		SELECT company_uuid
		FROM contacts
		WHERE uuid = $1 AND org_uuid = $2
	`

	var companyUUID *string
	err := sqlx.GetContext(ctx, exec, &companyUUID, query, contactUUID, orgUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, util.LogError("[CRMRepo] не удалось получить компанию контакта", err)
	}
	return companyUUID, nil
}

// ListDealsForCompany : сделки компании, с именами для провенанса
func (r *CRMRepository) ListDealsForCompany(ctx context.Context, exec sqlx.ExtContext, orgUUID, companyUUID string) ([]model.DealRef, error) {
	query := `
		SELECT uuid, name
		FROM deals
		WHERE company_uuid = $1 AND org_uuid = $2
	`

	deals := []model.DealRef{}
	if err := sqlx.SelectContext(ctx, exec, &deals, query, companyUUID, orgUUID); err != nil {
		return nil, util.LogError("[CRMRepo] не удалось получить сделки компании", err)
	}
	return deals, nil
}
