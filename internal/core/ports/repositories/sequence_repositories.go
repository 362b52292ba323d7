package repositories

import (
	"context"

	"github.com/retailops/backoffice/internal/core/domain"
)

// SequenceRepository defines operations on per-period invoice number sequences.
type SequenceRepository interface {
	// GetOrCreateSequence loads the sequence row for (companyID, periodKey),
	// lazily creating it with next value 1 on first allocation in the period.
	GetOrCreateSequence(ctx context.Context, companyID, periodKey string) (*domain.InvoiceNumberSequence, error)

	// IncrementSequence advances the sequence guarded by its version token.
	// It returns apperrors.ErrVersionConflict when another caller advanced the
	// same row first, in which case the caller must reload and retry.
	IncrementSequence(ctx context.Context, companyID, periodKey string, expectedVersion int64) error
}
