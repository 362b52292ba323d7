package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/retailops/backoffice/internal/apperrors"
	portsrepo "github.com/retailops/backoffice/internal/core/ports/repositories"
	portssvc "github.com/retailops/backoffice/internal/core/ports/services"
	"github.com/retailops/backoffice/internal/utils/invoicing"
)

// ErrAllocationExhausted indicates invoice numbering could not commit within
// its attempt budget. Surfaced as a fatal failure of the sale attempt.
var ErrAllocationExhausted = errors.New("invoice number allocation attempts exhausted")

// defaultAllocAttempts matches the reference behavior of six tries before
// giving up.
const defaultAllocAttempts = 6

// numberingService allocates invoice numbers from per-period sequence rows
// guarded by optimistic version tokens.
type numberingService struct {
	BaseService
	seqRepo     portsrepo.SequenceRepository
	invoiceRepo portsrepo.InvoiceReader
	attempts    int
	clock       portssvc.Clock
}

// NumberingServiceOption is a functional option for configuring the numbering service
type NumberingServiceOption func(*numberingService)

// WithAllocationAttempts overrides the allocation retry budget.
func WithAllocationAttempts(attempts int) NumberingServiceOption {
	return func(s *numberingService) {
		if attempts > 0 {
			s.attempts = attempts
		}
	}
}

// WithNumberingClock injects a clock for deterministic tests.
func WithNumberingClock(clock portssvc.Clock) NumberingServiceOption {
	return func(s *numberingService) {
		s.clock = clock
	}
}

// NewNumberingService creates a new invoice number allocator.
func NewNumberingService(seqRepo portsrepo.SequenceRepository, invoiceRepo portsrepo.InvoiceReader, options ...NumberingServiceOption) portssvc.NumberingSvc {
	svc := &numberingService{
		seqRepo:     seqRepo,
		invoiceRepo: invoiceRepo,
		attempts:    defaultAllocAttempts,
		clock:       systemClock{},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure numberingService implements the NumberingSvc interface
var _ portssvc.NumberingSvc = (*numberingService)(nil)

// Allocate reads the sequence row for the billing period, formats the number,
// and advances the row under its version token. A conflicting writer makes the
// guarded update match zero rows; the stale read is discarded and the whole
// read-format-increment cycle repeats, up to the attempt budget. No two
// committed increments ever observe the same next value, so numbers are unique
// even for overlapping concurrent calls against the same period.
func (s *numberingService) Allocate(ctx context.Context, companyID string, asOf time.Time) (string, error) {
	periodKey := invoicing.PeriodKey(asOf)

	for attempt := 1; attempt <= s.attempts; attempt++ {
		seq, err := s.seqRepo.GetOrCreateSequence(ctx, companyID, periodKey)
		if err != nil {
			return "", fmt.Errorf("failed to load invoice number sequence for %s/%s: %w", companyID, periodKey, err)
		}

		number := invoicing.FormatInvoiceNumber(periodKey, seq.NextValue)

		err = s.seqRepo.IncrementSequence(ctx, companyID, periodKey, seq.Version)
		if err == nil {
			s.LogDebug(ctx, "Invoice number allocated",
				slog.String("invoice_number", number),
				slog.String("period", periodKey),
				slog.Int("attempt", attempt))
			return number, nil
		}
		if !errors.Is(err, apperrors.ErrVersionConflict) {
			return "", fmt.Errorf("failed to advance invoice number sequence for %s/%s: %w", companyID, periodKey, err)
		}

		s.LogDebug(ctx, "Invoice number sequence conflict, retrying",
			slog.String("period", periodKey),
			slog.Int("attempt", attempt))
	}

	return "", fmt.Errorf("%w: period %s, %d attempts", ErrAllocationExhausted, periodKey, s.attempts)
}

// PeekNextFromExisting derives the next number by parsing the highest existing
// invoice number with the given prefix. Two concurrent callers can compute the
// same value before either commits, so this must never back CreateSale; it is
// kept for single-writer/offline contexts only.
func (s *numberingService) PeekNextFromExisting(ctx context.Context, prefix string) (string, error) {
	highest, err := s.invoiceRepo.FindHighestInvoiceNumber(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to scan existing invoice numbers: %w", err)
	}
	if highest == "" {
		return prefix + "000001", nil
	}

	suffix := strings.TrimPrefix(highest, prefix)
	n, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return "", fmt.Errorf("cannot derive next invoice number from %q: %w", highest, err)
	}
	return fmt.Sprintf("%s%0*d", prefix, len(suffix), n+1), nil
}
