package repositories

import (
	"context"
	"time"

	"github.com/retailops/backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ProductReader defines read operations for product data
type ProductReader interface {
	// FindProductByID retrieves a specific product by its unique identifier.
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)

	// FindProductsByIDs retrieves the given products keyed by ID. IDs that do
	// not resolve to a product are simply absent from the result map.
	FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error)

	// ListProducts retrieves all products ordered by code.
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// ProductWriter defines write operations for product data
type ProductWriter interface {
	// SaveProduct persists a new product.
	SaveProduct(ctx context.Context, product domain.Product) error

	// AdjustStock applies a stock delta to a product guarded by its version
	// token ("update where version = X"). It returns apperrors.ErrVersionConflict
	// when the row was updated by another writer since the version was read.
	// The at timestamp stamps the row's audit columns.
	AdjustStock(ctx context.Context, productID string, delta decimal.Decimal, expectedVersion int64, at time.Time, updatedBy string) error
}

// ProductRepositoryFacade combines all product-related repository interfaces
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
}

// ProductRepositoryWithTx extends ProductRepositoryFacade with transaction capabilities
type ProductRepositoryWithTx interface {
	ProductRepositoryFacade
	TransactionManager
}
