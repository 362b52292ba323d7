package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice represents a posted selling invoice. Invoices are created exactly
// once by the sale coordinator and are immutable afterwards; there is no edit
// or void path in this core.
type Invoice struct {
	InvoiceID     string          `json:"invoiceID"`     // Primary Key (e.g., UUID)
	InvoiceNumber string          `json:"invoiceNumber"` // Unique, human-readable (e.g. INV-202608-000042)
	CustomerID    string          `json:"customerID"`    // FK -> CustomerAccount (Not Null)
	IssuedAt      time.Time       `json:"issuedAt"`
	CurrencyCode  string          `json:"currencyCode"`
	Issuer        string          `json:"issuer"` // UserID of the seller
	Notes         string          `json:"notes"`  // Nullable free text
	Amount        decimal.Decimal `json:"amount"` // Sum of line totals, denormalized at creation
	AuditFields
}

// InvoiceLine is a single product line on an invoice. UnitPrice is a snapshot
// taken at sale time — later changes to the product's list price never alter
// historical lines.
type InvoiceLine struct {
	LineID    string          `json:"lineID"`    // Primary Key (e.g., UUID)
	InvoiceID string          `json:"invoiceID"` // FK -> Invoice (Not Null)
	ProductID string          `json:"productID"` // FK -> Product (Not Null)
	Quantity  decimal.Decimal `json:"quantity"`  // Positive; fractional allowed
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Total returns quantity x unit price for this line.
func (l InvoiceLine) Total() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// InvoiceAmount sums the line totals of an invoice.
func InvoiceAmount(lines []InvoiceLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Total())
	}
	return total
}
