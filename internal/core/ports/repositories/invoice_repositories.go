package repositories

import (
	"context"
	"time"

	"github.com/retailops/backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StockDecrement describes one product decrement to apply atomically with an
// invoice insert. ExpectedVersion is the version token the product carried
// when the sale was validated; a different committed version at write time is
// a conflict.
type StockDecrement struct {
	ProductID       string
	Quantity        decimal.Decimal
	ExpectedVersion int64
	AllowNegative   bool
}

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves a specific invoice by its unique identifier.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// FindLinesByInvoiceID retrieves all lines belonging to a single invoice.
	FindLinesByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error)

	// ListInvoicesByCustomer retrieves a paginated list of invoices for a customer
	// using token-based pagination. It returns the invoices, a token for the next
	// page, and an error.
	ListInvoicesByCustomer(ctx context.Context, customerID string, limit int, nextToken *string) ([]domain.Invoice, *string, error)

	// FindHighestInvoiceNumber returns the lexicographically highest invoice
	// number starting with the given prefix, or "" when none exists. Used only
	// by the single-writer fallback allocator.
	FindHighestInvoiceNumber(ctx context.Context, prefix string) (string, error)
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	// SaveInvoiceWithStock persists the invoice header and its lines and applies
	// every stock decrement inside one database transaction. Either all of it
	// commits or none of it does. A stale product version surfaces as
	// apperrors.ErrVersionConflict and nothing is applied.
	SaveInvoiceWithStock(ctx context.Context, invoice domain.Invoice, lines []domain.InvoiceLine, decrements []StockDecrement) error
}

// StatementReader defines the read operations the statement aggregator replays
// posted invoices through.
type StatementReader interface {
	// SumInvoicesBefore sums invoice amounts for a customer dated strictly
	// before the given instant.
	SumInvoicesBefore(ctx context.Context, customerID string, before time.Time) (decimal.Decimal, error)

	// ListInvoicesInRange retrieves a customer's invoices with issue date in
	// [from, to] inclusive, ordered by issue date ascending. The ordering is
	// load-bearing: running balances are a strict left-to-right fold over it.
	ListInvoicesInRange(ctx context.Context, customerID string, from, to time.Time) ([]domain.Invoice, error)

	// ListInvoicesForCustomer retrieves every invoice ever issued to a customer,
	// ordered by issue date ascending. Aging buckets are computed over all of
	// them, not just the statement range.
	ListInvoicesForCustomer(ctx context.Context, customerID string) ([]domain.Invoice, error)
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
	StatementReader
}

// InvoiceRepositoryWithTx extends InvoiceRepositoryFacade with transaction capabilities
type InvoiceRepositoryWithTx interface {
	InvoiceRepositoryFacade
	TransactionManager
}
