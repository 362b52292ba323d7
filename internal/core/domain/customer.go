package domain

import (
	"github.com/shopspring/decimal"
)

// WalkInCustomerName is the account materialized for sales without a named customer.
const WalkInCustomerName = "Walk-in"

// CustomerAccount represents a customer the back office issues invoices to.
// Name is the natural key used by statement lookups; the running Balance is
// advisory only — the statement aggregator recomputes from posted invoices.
type CustomerAccount struct {
	CustomerID string          `json:"customerID"` // Primary Key (e.g., UUID)
	Name       string          `json:"name"`
	Balance    decimal.Decimal `json:"balance"`
	AuditFields
}
