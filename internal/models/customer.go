package models

import "github.com/shopspring/decimal"

// CustomerAccount is the database representation of a customer account.
type CustomerAccount struct {
	CustomerID string          `json:"customerID"` // Primary Key (UUID)
	Name       string          `json:"name"`       // Natural key for statements; not unique by design
	Balance    decimal.Decimal `json:"balance"`    // Advisory; statements recompute from invoices
	AuditFields
}
