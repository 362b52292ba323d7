package services

import (
	"context"
	"time"

	"github.com/retailops/backoffice/internal/core/domain"
)

// StatementSvc derives running-balance customer statements from posted
// invoices. Read-only; it recomputes balances rather than trusting the
// advisory balance on the account.
type StatementSvc interface {
	// GetStatement replays the customer's invoices in [from, to] into a
	// running-balance ledger. customerKey is the exact account name and must
	// resolve to exactly one account. includeAging additionally buckets every
	// invoice ever issued to the customer by age in days.
	GetStatement(ctx context.Context, customerKey string, from, to time.Time, includeAging bool) (*domain.StatementResult, error)
}
