package services

import (
	"context"

	"github.com/retailops/backoffice/internal/core/domain"
	"github.com/retailops/backoffice/internal/dto"
)

// SaleWriterSvc defines the sale-creation operation: validate the request,
// decrement stock under optimistic concurrency, and persist the invoice with
// its lines atomically, retrying conflicts up to a bound.
type SaleWriterSvc interface {
	// CreateSale posts a sale and returns the created invoice.
	CreateSale(ctx context.Context, req dto.CreateSaleRequest, issuerUserID string) (*domain.Invoice, error)
}

// SaleReaderSvc defines read operations on posted invoices.
type SaleReaderSvc interface {
	// GetInvoiceByID retrieves an invoice and its lines.
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, []domain.InvoiceLine, error)

	// ListInvoicesByCustomer retrieves a paginated list of a customer's invoices.
	ListInvoicesByCustomer(ctx context.Context, customerID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)
}

// SaleSvcFacade combines all sale-related service interfaces
type SaleSvcFacade interface {
	SaleWriterSvc
	SaleReaderSvc
}
