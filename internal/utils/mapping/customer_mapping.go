package mapping

import (
	"github.com/retailops/backoffice/internal/core/domain"
	"github.com/retailops/backoffice/internal/models"
)

// ToModelCustomerAccount converts a domain customer account to its database model.
func ToModelCustomerAccount(d domain.CustomerAccount) models.CustomerAccount {
	return models.CustomerAccount{
		CustomerID:  d.CustomerID,
		Name:        d.Name,
		Balance:     d.Balance,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCustomerAccount converts a database customer model to the domain representation.
func ToDomainCustomerAccount(m models.CustomerAccount) domain.CustomerAccount {
	return domain.CustomerAccount{
		CustomerID:  m.CustomerID,
		Name:        m.Name,
		Balance:     m.Balance,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
