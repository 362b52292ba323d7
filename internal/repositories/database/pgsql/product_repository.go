package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/retailops/backoffice/internal/apperrors"
	"github.com/retailops/backoffice/internal/core/domain"
	portsrepo "github.com/retailops/backoffice/internal/core/ports/repositories"
	"github.com/retailops/backoffice/internal/models"
	"github.com/retailops/backoffice/internal/utils/mapping"
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

type PgxProductRepository struct {
	BaseRepository
}

// newPgxProductRepository creates a new repository for product data.
func newPgxProductRepository(pool *pgxpool.Pool) portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxProductRepository implements portsrepo.ProductRepositoryFacade
var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

const productColumns = `product_id, code, name, price, stock_qty, whole_units, version, created_at, created_by, last_updated_at, last_updated_by`

// SaveProduct persists a new product row.
func (r *PgxProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	model := mapping.ToModelProduct(product)
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.ProductID,
		model.Code,
		model.Name,
		model.Price,
		model.StockQty,
		model.WholeUnits,
		model.Version,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.NewAppError(409, "product code "+model.Code+" already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert product "+model.ProductID, err)
	}
	return nil
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	var model models.Product
	err := row.Scan(
		&model.ProductID,
		&model.Code,
		&model.Name,
		&model.Price,
		&model.StockQty,
		&model.WholeUnits,
		&model.Version,
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

// FindProductByID retrieves a product by its ID.
func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1;`
	model, err := scanProduct(r.Pool.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find product "+productID, err)
	}
	product := mapping.ToDomainProduct(*model)
	return &product, nil
}

// FindProductsByIDs retrieves the given products keyed by ID. Missing IDs are
// simply absent from the result map.
func (r *PgxProductRepository) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find products", err)
	}
	defer rows.Close()

	result := make(map[string]domain.Product, len(productIDs))
	for rows.Next() {
		model, err := scanProduct(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan product", err)
		}
		result[model.ProductID] = mapping.ToDomainProduct(*model)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate products", err)
	}
	return result, nil
}

// ListProducts retrieves all products ordered by code.
func (r *PgxProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY code;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list products", err)
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		model, err := scanProduct(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan product", err)
		}
		result = append(result, mapping.ToDomainProduct(*model))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate products", err)
	}
	return result, nil
}

// AdjustStock applies a stock delta guarded by the product's version token.
// Zero rows affected means another writer committed first (or the product is
// gone); the caller reloads and retries.
func (r *PgxProductRepository) AdjustStock(ctx context.Context, productID string, delta decimal.Decimal, expectedVersion int64, at time.Time, updatedBy string) error {
	query := `
		UPDATE products
		SET stock_qty = stock_qty + $1, version = version + 1, last_updated_at = $2, last_updated_by = $3
		WHERE product_id = $4 AND version = $5;
	`
	ct, err := r.Pool.Exec(ctx, query, delta, at, updatedBy, productID, expectedVersion)
	if err != nil {
		return apperrors.NewAppError(500, "failed to adjust stock for product "+productID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrVersionConflict
	}
	return nil
}
