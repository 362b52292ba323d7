package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailops/backoffice/internal/apperrors"
	"github.com/retailops/backoffice/internal/core/domain"
	portsrepo "github.com/retailops/backoffice/internal/core/ports/repositories"
	"github.com/retailops/backoffice/internal/models"
	"github.com/retailops/backoffice/internal/utils/mapping"
)

type PgxCustomerRepository struct {
	BaseRepository
}

// newPgxCustomerRepository creates a new repository for customer account data.
func newPgxCustomerRepository(pool *pgxpool.Pool) portsrepo.CustomerRepositoryFacade {
	return &PgxCustomerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxCustomerRepository implements portsrepo.CustomerRepositoryFacade
var _ portsrepo.CustomerRepositoryFacade = (*PgxCustomerRepository)(nil)

const customerColumns = `customer_id, name, balance, created_at, created_by, last_updated_at, last_updated_by`

// SaveCustomer persists a new customer account row.
func (r *PgxCustomerRepository) SaveCustomer(ctx context.Context, customer domain.CustomerAccount) error {
	model := mapping.ToModelCustomerAccount(customer)
	query := `
		INSERT INTO customer_accounts (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.CustomerID,
		model.Name,
		model.Balance,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.NewAppError(409, "customer account "+model.Name+" already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert customer "+model.CustomerID, err)
	}
	return nil
}

func scanCustomer(row pgx.Row) (*models.CustomerAccount, error) {
	var model models.CustomerAccount
	err := row.Scan(
		&model.CustomerID,
		&model.Name,
		&model.Balance,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &model, nil
}

// FindCustomerByID retrieves a customer account by its ID.
func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.CustomerAccount, error) {
	query := `SELECT ` + customerColumns + ` FROM customer_accounts WHERE customer_id = $1;`
	model, err := scanCustomer(r.Pool.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find customer "+customerID, err)
	}
	customer := mapping.ToDomainCustomerAccount(*model)
	return &customer, nil
}

// FindCustomersByName retrieves every customer account with the given exact
// name. Names are not unique; statement lookups require exactly one match and
// decide for themselves how to treat zero or several.
func (r *PgxCustomerRepository) FindCustomersByName(ctx context.Context, name string) ([]domain.CustomerAccount, error) {
	query := `SELECT ` + customerColumns + ` FROM customer_accounts WHERE name = $1 ORDER BY created_at;`
	rows, err := r.Pool.Query(ctx, query, name)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find customers named "+name, err)
	}
	defer rows.Close()

	var result []domain.CustomerAccount
	for rows.Next() {
		model, err := scanCustomer(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan customer", err)
		}
		result = append(result, mapping.ToDomainCustomerAccount(*model))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate customers", err)
	}
	return result, nil
}
