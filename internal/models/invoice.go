package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the database representation of a posted selling invoice.
// Rows are insert-only; there is no edit or void path.
type Invoice struct {
	InvoiceID     string          `json:"invoiceID"`     // Primary Key (UUID)
	InvoiceNumber string          `json:"invoiceNumber"` // Unique
	CustomerID    string          `json:"customerID"`    // FK -> customer_accounts (Not Null)
	IssuedAt      time.Time       `json:"issuedAt"`
	CurrencyCode  string          `json:"currencyCode"`
	Issuer        string          `json:"issuer"`
	Notes         string          `json:"notes"`  // Nullable
	Amount        decimal.Decimal `json:"amount"` // Denormalized sum of line totals
	AuditFields
}

// InvoiceLine is the database representation of a single invoice line.
// UnitPrice is the price snapshot taken at sale time.
type InvoiceLine struct {
	LineID    string          `json:"lineID"`    // Primary Key (UUID)
	InvoiceID string          `json:"invoiceID"` // FK -> invoices (Not Null)
	ProductID string          `json:"productID"` // FK -> products (Not Null)
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}
