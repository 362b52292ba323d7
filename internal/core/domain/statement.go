package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementLine is one row of a customer statement: a posted invoice replayed
// as a debit with the running balance after it.
type StatementLine struct {
	Date           time.Time       `json:"date"`
	DocumentNumber string          `json:"documentNumber"`
	DocumentType   string          `json:"documentType"` // Always "Invoice" — no payment/credit model exists
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// AgingBuckets classifies outstanding invoice amounts by whole days elapsed
// since issue. Boundaries are inclusive: an invoice aged exactly 30 days falls
// into Days0To30.
type AgingBuckets struct {
	Days0To30  decimal.Decimal `json:"days0To30"`
	Days31To60 decimal.Decimal `json:"days31To60"`
	Days61To90 decimal.Decimal `json:"days61To90"`
	Over90     decimal.Decimal `json:"over90"`
}

// StatementResult is a customer ledger statement over a date range: the
// balance carried in from before the range, the replayed lines within it, and
// the balance carried out.
type StatementResult struct {
	CustomerID     string          `json:"customerID"`
	CustomerName   string          `json:"customerName"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Lines          []StatementLine `json:"lines"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	Aging          *AgingBuckets   `json:"aging,omitempty"`
}
