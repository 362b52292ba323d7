package mapping

import (
	"github.com/retailops/backoffice/internal/core/domain"
	"github.com/retailops/backoffice/internal/models"
)

// ToModelInvoice converts a domain invoice to its database model.
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:     d.InvoiceID,
		InvoiceNumber: d.InvoiceNumber,
		CustomerID:    d.CustomerID,
		IssuedAt:      d.IssuedAt,
		CurrencyCode:  d.CurrencyCode,
		Issuer:        d.Issuer,
		Notes:         d.Notes,
		Amount:        d.Amount,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a database invoice model to the domain representation.
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:     m.InvoiceID,
		InvoiceNumber: m.InvoiceNumber,
		CustomerID:    m.CustomerID,
		IssuedAt:      m.IssuedAt,
		CurrencyCode:  m.CurrencyCode,
		Issuer:        m.Issuer,
		Notes:         m.Notes,
		Amount:        m.Amount,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInvoiceLine converts a domain invoice line to its database model.
func ToModelInvoiceLine(d domain.InvoiceLine) models.InvoiceLine {
	return models.InvoiceLine{
		LineID:    d.LineID,
		InvoiceID: d.InvoiceID,
		ProductID: d.ProductID,
		Quantity:  d.Quantity,
		UnitPrice: d.UnitPrice,
	}
}

// ToDomainInvoiceLine converts a database invoice line model to the domain representation.
func ToDomainInvoiceLine(m models.InvoiceLine) domain.InvoiceLine {
	return domain.InvoiceLine{
		LineID:    m.LineID,
		InvoiceID: m.InvoiceID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
	}
}
