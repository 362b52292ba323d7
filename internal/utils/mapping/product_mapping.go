package mapping

import (
	"github.com/retailops/backoffice/internal/core/domain"
	"github.com/retailops/backoffice/internal/models"
)

// ToModelProduct converts a domain product to its database model.
func ToModelProduct(d domain.Product) models.Product {
	return models.Product{
		ProductID:   d.ProductID,
		Code:        d.Code,
		Name:        d.Name,
		Price:       d.Price,
		StockQty:    d.StockQty,
		WholeUnits:  d.WholeUnits,
		Version:     d.Version,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProduct converts a database product model to the domain representation.
func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID:   m.ProductID,
		Code:        m.Code,
		Name:        m.Name,
		Price:       m.Price,
		StockQty:    m.StockQty,
		WholeUnits:  m.WholeUnits,
		Version:     m.Version,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
