package ports

import (
	"context"
	"crm-file-server/internal/model"
	"github.com/jmoiron/sqlx"
)

// CRMRepository : чтение сущностей CRM по идентификаторам.
// Сами таблицы deals/companies/contacts принадлежат CRM-подсистеме.
type CRMRepository interface {
	EntityExists(ctx context.Context, exec sqlx.ExtContext, orgUUID, entityType, entityUUID string) (bool, error)
	GetCompanyForContact(ctx context.Context, exec sqlx.ExtContext, orgUUID, contactUUID string) (*string, error)
	ListDealsForCompany(ctx context.Context, exec sqlx.ExtContext, orgUUID, companyUUID string) ([]model.DealRef, error)
}
