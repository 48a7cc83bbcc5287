package catalog_repo

import (
	"dealerdesk/internal/domain/leads"
	"dealerdesk/internal/infrastructure/storage/postgres"
)

const leadTable = "cat_leads"

// LeadRepo implements leads.Repository.
type LeadRepo struct {
	*BaseCatalogRepo[*leads.Lead]
}

var _ leads.Repository = (*LeadRepo)(nil)

// NewLeadRepo creates a new lead repository.
func NewLeadRepo(txManager *postgres.TxManager) *LeadRepo {
	return &LeadRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*leads.Lead](
			txManager,
			leadTable,
			postgres.ExtractDBColumns[leads.Lead](),
			func() *leads.Lead { return &leads.Lead{} },
		),
	}
}
