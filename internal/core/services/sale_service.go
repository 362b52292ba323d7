package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backoffice/internal/apperrors"
	"github.com/retailops/backoffice/internal/core/domain"
	portsrepo "github.com/retailops/backoffice/internal/core/ports/repositories"
	portssvc "github.com/retailops/backoffice/internal/core/ports/services"
	"github.com/retailops/backoffice/internal/dto"
	"github.com/retailops/backoffice/internal/utils/invoicing"
)

var (
	ErrEmptySale         = errors.New("sale must contain at least one line")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStockConflict     = errors.New("stock changed while posting the sale; refresh stock and retry")
)

// defaultSaleAttempts bounds the optimistic retry loop. The legacy system used
// 2, which is thin under any real contention; 3 is the shipped default and the
// value is configurable.
const defaultSaleAttempts = 3

const (
	defaultInvoiceListLimit = 20
	maxInvoiceListLimit     = 100
)

// saleService coordinates sale creation: it validates the request, decrements
// stock for every line under optimistic concurrency, persists the invoice
// header and lines atomically, and retries on detected conflicts up to a bound.
type saleService struct {
	BaseService
	productRepo       portsrepo.ProductRepositoryFacade
	customerRepo      portsrepo.CustomerRepositoryFacade
	invoiceRepo       portsrepo.InvoiceRepositoryFacade
	numbering         portssvc.NumberingSvc
	companyID         string
	attempts          int
	allowNegByDefault bool
	clock             portssvc.Clock
}

// SaleServiceOption is a functional option for configuring the sale service
type SaleServiceOption func(*saleService)

// WithSaleAttempts overrides the optimistic-conflict retry budget.
func WithSaleAttempts(attempts int) SaleServiceOption {
	return func(s *saleService) {
		if attempts > 0 {
			s.attempts = attempts
		}
	}
}

// WithCompanyID sets the company the sale allocates invoice numbers under.
func WithCompanyID(companyID string) SaleServiceOption {
	return func(s *saleService) {
		s.companyID = companyID
	}
}

// WithAllowNegativeStock permits sales to drive stock below zero without a
// per-request override.
func WithAllowNegativeStock(allow bool) SaleServiceOption {
	return func(s *saleService) {
		s.allowNegByDefault = allow
	}
}

// WithSaleClock injects a clock for deterministic tests.
func WithSaleClock(clock portssvc.Clock) SaleServiceOption {
	return func(s *saleService) {
		s.clock = clock
	}
}

// NewSaleService creates a new sale transaction coordinator.
func NewSaleService(
	productRepo portsrepo.ProductRepositoryFacade,
	customerRepo portsrepo.CustomerRepositoryFacade,
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	numbering portssvc.NumberingSvc,
	options ...SaleServiceOption,
) portssvc.SaleSvcFacade {
	svc := &saleService{
		productRepo:  productRepo,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		numbering:    numbering,
		companyID:    "main",
		attempts:     defaultSaleAttempts,
		clock:        systemClock{},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure saleService implements the SaleSvcFacade interface
var _ portssvc.SaleSvcFacade = (*saleService)(nil)

// CreateSale validates the request and commits stock decrement plus invoice
// insert as one atomic unit. An invoice never exists without its stock having
// been reserved, and stock is never decremented without its invoice. On a
// version conflict the attempt is rolled back by the store, the products are
// re-read at their latest committed state, and the whole
// validate-decrement-insert sequence runs again, up to the attempt budget.
func (s *saleService) CreateSale(ctx context.Context, req dto.CreateSaleRequest, issuerUserID string) (*domain.Invoice, error) {
	if len(req.Lines) == 0 {
		return nil, ErrEmptySale
	}
	for _, line := range req.Lines {
		if !line.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: product %s requested %s", ErrInvalidQuantity, line.ProductID, line.Quantity)
		}
	}

	customer, err := s.resolveCustomer(ctx, req.CustomerID, issuerUserID)
	if err != nil {
		return nil, err
	}

	productIDs := make([]string, 0, len(req.Lines))
	seen := make(map[string]bool, len(req.Lines))
	for _, line := range req.Lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			productIDs = append(productIDs, line.ProductID)
		}
	}

	allowNegative := req.AllowNegativeStock || s.allowNegByDefault
	now := s.clock.Now()

	for attempt := 1; attempt <= s.attempts; attempt++ {
		// Re-read on every attempt so a retry validates against the latest
		// committed stock, not the stale snapshot that just conflicted.
		products, err := s.productRepo.FindProductsByIDs(ctx, productIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load products for sale: %w", err)
		}

		// Requested quantities summed per product across lines, with the
		// ceiling applied for integer-tracked stock.
		required := make(map[string]decimal.Decimal, len(productIDs))
		for _, line := range req.Lines {
			product, ok := products[line.ProductID]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductID)
			}
			consumed := invoicing.RequiredQuantity(product, line.Quantity)
			required[line.ProductID] = required[line.ProductID].Add(consumed)
		}

		if !allowNegative {
			for _, productID := range productIDs {
				product := products[productID]
				if product.StockQty.LessThan(required[productID]) {
					// On a retry the shortfall was found after a write already
					// lost a race, so it is a conflict outcome, not a
					// before-any-write rejection.
					class := ErrInsufficientStock
					if attempt > 1 {
						class = ErrStockConflict
					}
					return nil, fmt.Errorf("%w: product %s has %s on hand, %s requested",
						class, product.Code, product.StockQty, required[productID])
				}
			}
		}

		invoiceNumber, err := s.invoiceNumber(ctx, req, now)
		if err != nil {
			return nil, err
		}

		invoice, lines := s.buildInvoice(req, customer, invoiceNumber, issuerUserID, now)

		decrements := make([]portsrepo.StockDecrement, 0, len(productIDs))
		for _, productID := range productIDs {
			decrements = append(decrements, portsrepo.StockDecrement{
				ProductID:       productID,
				Quantity:        required[productID],
				ExpectedVersion: products[productID].Version,
				AllowNegative:   allowNegative,
			})
		}

		err = s.invoiceRepo.SaveInvoiceWithStock(ctx, invoice, lines, decrements)
		if err == nil {
			s.LogInfo(ctx, "Sale committed",
				slog.String("invoice_id", invoice.InvoiceID),
				slog.String("invoice_number", invoice.InvoiceNumber),
				slog.String("customer_id", customer.CustomerID),
				slog.Int("attempt", attempt))
			return &invoice, nil
		}
		if !errors.Is(err, apperrors.ErrVersionConflict) {
			return nil, err
		}

		s.LogDebug(ctx, "Stock version conflict, retrying sale",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", s.attempts))
	}

	return nil, fmt.Errorf("%w (%d attempts)", ErrStockConflict, s.attempts)
}

// invoiceNumber uses the caller's pre-supplied number when present, otherwise
// allocates from the per-period sequence.
func (s *saleService) invoiceNumber(ctx context.Context, req dto.CreateSaleRequest, now time.Time) (string, error) {
	if req.InvoiceNumber != nil && *req.InvoiceNumber != "" {
		return *req.InvoiceNumber, nil
	}
	return s.numbering.Allocate(ctx, s.companyID, now)
}

func (s *saleService) buildInvoice(req dto.CreateSaleRequest, customer *domain.CustomerAccount, invoiceNumber, issuerUserID string, now time.Time) (domain.Invoice, []domain.InvoiceLine) {
	invoiceID := uuid.NewString()
	lines := make([]domain.InvoiceLine, len(req.Lines))
	for i, line := range req.Lines {
		lines[i] = domain.InvoiceLine{
			LineID:    uuid.NewString(),
			InvoiceID: invoiceID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			// Price snapshot: recorded verbatim, never re-derived from the
			// product's current price.
			UnitPrice: line.UnitPrice,
		}
	}

	invoice := domain.Invoice{
		InvoiceID:     invoiceID,
		InvoiceNumber: invoiceNumber,
		CustomerID:    customer.CustomerID,
		IssuedAt:      now,
		CurrencyCode:  req.CurrencyCode,
		Issuer:        issuerUserID,
		Notes:         req.Notes,
		Amount:        domain.InvoiceAmount(lines),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     issuerUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: issuerUserID,
		},
	}
	return invoice, lines
}

// resolveCustomer returns the requested account, or materializes the shared
// walk-in account when the sale has no named customer.
func (s *saleService) resolveCustomer(ctx context.Context, customerID *string, issuerUserID string) (*domain.CustomerAccount, error) {
	if customerID != nil && *customerID != "" {
		customer, err := s.customerRepo.FindCustomerByID(ctx, *customerID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve customer %s: %w", *customerID, err)
		}
		return customer, nil
	}

	existing, err := s.customerRepo.FindCustomersByName(ctx, domain.WalkInCustomerName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up walk-in account: %w", err)
	}
	if len(existing) > 0 {
		return &existing[0], nil
	}

	now := s.clock.Now()
	walkIn := domain.CustomerAccount{
		CustomerID: uuid.NewString(),
		Name:       domain.WalkInCustomerName,
		Balance:    decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     issuerUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: issuerUserID,
		},
	}
	err = s.customerRepo.SaveCustomer(ctx, walkIn)
	if errors.Is(err, apperrors.ErrDuplicate) {
		// A concurrent sale materialized the account between our lookup and
		// insert; adopt its row.
		winners, lookupErr := s.customerRepo.FindCustomersByName(ctx, domain.WalkInCustomerName)
		if lookupErr != nil {
			return nil, fmt.Errorf("failed to look up walk-in account: %w", lookupErr)
		}
		if len(winners) > 0 {
			return &winners[0], nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to materialize walk-in account: %w", err)
	}
	s.LogInfo(ctx, "Walk-in customer account materialized", slog.String("customer_id", walkIn.CustomerID))
	return &walkIn, nil
}

// GetInvoiceByID retrieves an invoice and its lines.
func (s *saleService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, []domain.InvoiceLine, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	lines, err := s.invoiceRepo.FindLinesByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	return invoice, lines, nil
}

// ListInvoicesByCustomer retrieves a paginated list of a customer's invoices.
func (s *saleService) ListInvoicesByCustomer(ctx context.Context, customerID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultInvoiceListLimit
	}
	if limit > maxInvoiceListLimit {
		limit = maxInvoiceListLimit
	}

	invoices, nextToken, err := s.invoiceRepo.ListInvoicesByCustomer(ctx, customerID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices", slog.String("customer_id", customerID))
		return nil, err
	}

	return &dto.ListInvoicesResponse{
		Invoices:  dto.ToInvoiceResponses(invoices),
		NextToken: nextToken,
	}, nil
}
