package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailops/backoffice/internal/apperrors"
	"github.com/retailops/backoffice/internal/core/domain"
	portsrepo "github.com/retailops/backoffice/internal/core/ports/repositories"
	"github.com/retailops/backoffice/internal/models"
)

type PgxSequenceRepository struct {
	BaseRepository
}

// newPgxSequenceRepository creates a new repository for invoice number sequences.
func newPgxSequenceRepository(pool *pgxpool.Pool) portsrepo.SequenceRepository {
	return &PgxSequenceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxSequenceRepository implements portsrepo.SequenceRepository
var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

// GetOrCreateSequence loads the sequence row for (companyID, periodKey),
// lazily creating it on first allocation in the period. The insert races
// benignly: ON CONFLICT DO NOTHING makes concurrent first allocations
// converge on the same row.
func (r *PgxSequenceRepository) GetOrCreateSequence(ctx context.Context, companyID, periodKey string) (*domain.InvoiceNumberSequence, error) {
	insert := `
		INSERT INTO invoice_number_sequences (company_id, period_key, next_value, version)
		VALUES ($1, $2, 1, 1)
		ON CONFLICT (company_id, period_key) DO NOTHING;
	`
	if _, err := r.Pool.Exec(ctx, insert, companyID, periodKey); err != nil {
		return nil, apperrors.NewAppError(500, "failed to create invoice number sequence", err)
	}

	query := `
		SELECT company_id, period_key, next_value, version
		FROM invoice_number_sequences
		WHERE company_id = $1 AND period_key = $2;
	`
	var model models.InvoiceNumberSequence
	err := r.Pool.QueryRow(ctx, query, companyID, periodKey).Scan(
		&model.CompanyID,
		&model.PeriodKey,
		&model.NextValue,
		&model.Version,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to load invoice number sequence", err)
	}

	return &domain.InvoiceNumberSequence{
		CompanyID: model.CompanyID,
		PeriodKey: model.PeriodKey,
		NextValue: model.NextValue,
		Version:   model.Version,
	}, nil
}

// IncrementSequence advances the sequence guarded by its version token.
// Zero rows affected means another caller advanced the row first.
func (r *PgxSequenceRepository) IncrementSequence(ctx context.Context, companyID, periodKey string, expectedVersion int64) error {
	query := `
		UPDATE invoice_number_sequences
		SET next_value = next_value + 1, version = version + 1
		WHERE company_id = $1 AND period_key = $2 AND version = $3;
	`
	ct, err := r.Pool.Exec(ctx, query, companyID, periodKey, expectedVersion)
	if err != nil {
		return apperrors.NewAppError(500, "failed to advance invoice number sequence", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrVersionConflict
	}
	return nil
}
