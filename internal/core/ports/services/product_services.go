package services

import (
	"context"

	"github.com/retailops/backoffice/internal/core/domain"
	"github.com/retailops/backoffice/internal/dto"
	"github.com/shopspring/decimal"
)

// ProductReaderSvc defines read operations for product master data
type ProductReaderSvc interface {
	// GetProductByID retrieves a specific product by its ID.
	GetProductByID(ctx context.Context, productID string) (*domain.Product, error)

	// ListProducts retrieves all products.
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// ProductWriterSvc defines write operations for product master data
type ProductWriterSvc interface {
	// CreateProduct persists a new product.
	CreateProduct(ctx context.Context, req dto.CreateProductRequest, creatorUserID string) (*domain.Product, error)

	// ReceiveStock posts a stock receipt, increasing on-hand quantity under
	// the same optimistic version guard the sale path uses.
	ReceiveStock(ctx context.Context, productID string, quantity decimal.Decimal, userID string) (*domain.Product, error)
}

// ProductSvcFacade combines all product-related service interfaces
type ProductSvcFacade interface {
	ProductReaderSvc
	ProductWriterSvc
}
