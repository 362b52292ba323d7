package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backoffice/internal/apperrors"
	"github.com/retailops/backoffice/internal/core/domain"
	portsrepo "github.com/retailops/backoffice/internal/core/ports/repositories"
	portssvc "github.com/retailops/backoffice/internal/core/ports/services"
	"github.com/retailops/backoffice/internal/dto"
)

// productService manages product master data and stock receipts.
type productService struct {
	BaseService
	productRepo portsrepo.ProductRepositoryFacade
	attempts    int
	clock       portssvc.Clock
}

// ProductServiceOption is a functional option for configuring the product service
type ProductServiceOption func(*productService)

// WithReceiptAttempts overrides the stock-receipt retry budget.
func WithReceiptAttempts(attempts int) ProductServiceOption {
	return func(s *productService) {
		if attempts > 0 {
			s.attempts = attempts
		}
	}
}

// WithProductClock injects a clock for deterministic tests.
func WithProductClock(clock portssvc.Clock) ProductServiceOption {
	return func(s *productService) {
		s.clock = clock
	}
}

// NewProductService creates a new product service.
func NewProductService(productRepo portsrepo.ProductRepositoryFacade, options ...ProductServiceOption) portssvc.ProductSvcFacade {
	svc := &productService{
		productRepo: productRepo,
		attempts:    defaultSaleAttempts,
		clock:       systemClock{},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure productService implements the ProductSvcFacade interface
var _ portssvc.ProductSvcFacade = (*productService)(nil)

// CreateProduct validates and persists a new product.
func (s *productService) CreateProduct(ctx context.Context, req dto.CreateProductRequest, creatorUserID string) (*domain.Product, error) {
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price cannot be negative", apperrors.ErrValidation)
	}
	if req.StockQty.IsNegative() {
		return nil, fmt.Errorf("%w: opening stock cannot be negative", apperrors.ErrValidation)
	}

	now := s.clock.Now()
	product := domain.Product{
		ProductID:  uuid.NewString(),
		Code:       req.Code,
		Name:       req.Name,
		Price:      req.Price,
		StockQty:   req.StockQty,
		WholeUnits: req.WholeUnits,
		Version:    1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.productRepo.SaveProduct(ctx, product); err != nil {
		s.LogError(ctx, err, "Failed to save product", slog.String("code", req.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Product created", slog.String("product_id", product.ProductID), slog.String("code", product.Code))
	return &product, nil
}

// GetProductByID retrieves a specific product by its ID.
func (s *productService) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	return s.productRepo.FindProductByID(ctx, productID)
}

// ListProducts retrieves all products.
func (s *productService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.productRepo.ListProducts(ctx)
}

// ReceiveStock posts a stock receipt. The increment is guarded by the same
// version token the sale path decrements through, so a receipt racing a sale
// is detected and retried rather than lost.
func (s *productService) ReceiveStock(ctx context.Context, productID string, quantity decimal.Decimal, userID string) (*domain.Product, error) {
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("%w: receipt for product %s", ErrInvalidQuantity, productID)
	}

	now := s.clock.Now()
	for attempt := 1; attempt <= s.attempts; attempt++ {
		product, err := s.productRepo.FindProductByID(ctx, productID)
		if err != nil {
			return nil, err
		}

		err = s.productRepo.AdjustStock(ctx, productID, quantity, product.Version, now, userID)
		if err == nil {
			product.StockQty = product.StockQty.Add(quantity)
			product.Version++
			product.LastUpdatedAt = now
			product.LastUpdatedBy = userID
			s.LogInfo(ctx, "Stock receipt posted",
				slog.String("product_id", productID),
				slog.String("quantity", quantity.String()),
				slog.Int("attempt", attempt))
			return product, nil
		}
		if !errors.Is(err, apperrors.ErrVersionConflict) {
			return nil, err
		}

		s.LogDebug(ctx, "Stock receipt version conflict, retrying",
			slog.String("product_id", productID),
			slog.Int("attempt", attempt))
	}

	return nil, fmt.Errorf("%w (%d attempts)", ErrStockConflict, s.attempts)
}
