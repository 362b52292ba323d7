package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailops/backoffice/internal/core/domain"
	portsrepo "github.com/retailops/backoffice/internal/core/ports/repositories"
	portssvc "github.com/retailops/backoffice/internal/core/ports/services"
	"github.com/retailops/backoffice/internal/utils/invoicing"
)

// ErrCustomerNotFound indicates a statement key did not resolve to exactly
// one customer account.
var ErrCustomerNotFound = errors.New("customer not found")

// statementService replays posted invoices into running-balance statements.
// There is no payment or credit model in this core: every invoice is a debit
// and its full amount is always outstanding.
type statementService struct {
	BaseService
	customerRepo portsrepo.CustomerReader
	invoiceRepo  portsrepo.StatementReader
	clock        portssvc.Clock
}

// StatementServiceOption is a functional option for configuring the statement service
type StatementServiceOption func(*statementService)

// WithStatementClock injects the clock used as "today" for aging buckets.
func WithStatementClock(clock portssvc.Clock) StatementServiceOption {
	return func(s *statementService) {
		s.clock = clock
	}
}

// NewStatementService creates a new statement aggregator.
func NewStatementService(customerRepo portsrepo.CustomerReader, invoiceRepo portsrepo.StatementReader, options ...StatementServiceOption) portssvc.StatementSvc {
	svc := &statementService{
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		clock:        systemClock{},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure statementService implements the StatementSvc interface
var _ portssvc.StatementSvc = (*statementService)(nil)

// GetStatement resolves the customer by exact name, sums invoices strictly
// before the range into the opening balance, and folds the in-range invoices
// left to right into running balances. The ascending issue-date ordering is
// load-bearing: each line's balance builds on the previous one.
func (s *statementService) GetStatement(ctx context.Context, customerKey string, from, to time.Time, includeAging bool) (*domain.StatementResult, error) {
	matches, err := s.customerRepo.FindCustomersByName(ctx, customerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve customer %q: %w", customerKey, err)
	}
	if len(matches) != 1 {
		return nil, fmt.Errorf("%w: %q resolved to %d accounts", ErrCustomerNotFound, customerKey, len(matches))
	}
	customer := matches[0]

	opening, err := s.invoiceRepo.SumInvoicesBefore(ctx, customer.CustomerID, from)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute opening balance", slog.String("customer_id", customer.CustomerID))
		return nil, fmt.Errorf("failed to compute opening balance: %w", err)
	}

	invoices, err := s.invoiceRepo.ListInvoicesInRange(ctx, customer.CustomerID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to list statement invoices", slog.String("customer_id", customer.CustomerID))
		return nil, fmt.Errorf("failed to list statement invoices: %w", err)
	}

	running := opening
	lines := make([]domain.StatementLine, len(invoices))
	for i, inv := range invoices {
		running = running.Add(inv.Amount)
		lines[i] = domain.StatementLine{
			Date:           inv.IssuedAt,
			DocumentNumber: inv.InvoiceNumber,
			DocumentType:   "Invoice",
			Debit:          inv.Amount,
			Credit:         decimal.Zero,
			RunningBalance: running,
		}
	}

	result := &domain.StatementResult{
		CustomerID:     customer.CustomerID,
		CustomerName:   customer.Name,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		Lines:          lines,
		ClosingBalance: running,
	}

	if includeAging {
		aging, err := s.computeAging(ctx, customer.CustomerID)
		if err != nil {
			return nil, err
		}
		result.Aging = aging
	}

	s.LogInfo(ctx, "Statement generated",
		slog.String("customer_id", customer.CustomerID),
		slog.Int("line_count", len(lines)),
		slog.Bool("aging", includeAging))
	return result, nil
}

// computeAging buckets every invoice ever issued to the customer by its
// whole-day age at generation time. Since no partial payment exists, the full
// amount is always outstanding.
func (s *statementService) computeAging(ctx context.Context, customerID string) (*domain.AgingBuckets, error) {
	invoices, err := s.invoiceRepo.ListInvoicesForCustomer(ctx, customerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices for aging", slog.String("customer_id", customerID))
		return nil, fmt.Errorf("failed to list invoices for aging: %w", err)
	}

	today := s.clock.Now()
	buckets := &domain.AgingBuckets{
		Days0To30:  decimal.Zero,
		Days31To60: decimal.Zero,
		Days61To90: decimal.Zero,
		Over90:     decimal.Zero,
	}
	for _, inv := range invoices {
		invoicing.AddToAgingBucket(buckets, inv.Amount, invoicing.AgeInDays(inv.IssuedAt, today))
	}
	return buckets, nil
}
