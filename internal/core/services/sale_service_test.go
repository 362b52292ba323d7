package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/retailops/backoffice/internal/apperrors"
	"github.com/retailops/backoffice/internal/core/domain"
	portsrepo "github.com/retailops/backoffice/internal/core/ports/repositories"
	portssvc "github.com/retailops/backoffice/internal/core/ports/services"
	"github.com/retailops/backoffice/internal/core/services"
	"github.com/retailops/backoffice/internal/dto"
)

// --- Fixed clock for deterministic dates ---
type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

// --- Mock ProductRepository ---
type MockProductRepository struct {
	mock.Mock
}

// Ensure MockProductRepository implements portsrepo.ProductRepositoryFacade
var _ portsrepo.ProductRepositoryFacade = (*MockProductRepository)(nil)

func (m *MockProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Product), args.Error(1)
}

func (m *MockProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, productID string, delta decimal.Decimal, expectedVersion int64, at time.Time, updatedBy string) error {
	args := m.Called(ctx, productID, delta, expectedVersion, at, updatedBy)
	return args.Error(0)
}

// --- Mock CustomerRepository ---
type MockCustomerRepository struct {
	mock.Mock
}

// Ensure MockCustomerRepository implements portsrepo.CustomerRepositoryFacade
var _ portsrepo.CustomerRepositoryFacade = (*MockCustomerRepository)(nil)

func (m *MockCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.CustomerAccount, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerAccount), args.Error(1)
}

func (m *MockCustomerRepository) FindCustomersByName(ctx context.Context, name string) ([]domain.CustomerAccount, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CustomerAccount), args.Error(1)
}

func (m *MockCustomerRepository) SaveCustomer(ctx context.Context, customer domain.CustomerAccount) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

// --- Mock InvoiceRepository ---
type MockInvoiceRepository struct {
	mock.Mock
}

// Ensure MockInvoiceRepository implements portsrepo.InvoiceRepositoryFacade
var _ portsrepo.InvoiceRepositoryFacade = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindLinesByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceLine), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoicesByCustomer(ctx context.Context, customerID string, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, customerID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Invoice), returnedNextToken, args.Error(2)
}

func (m *MockInvoiceRepository) FindHighestInvoiceNumber(ctx context.Context, prefix string) (string, error) {
	args := m.Called(ctx, prefix)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceRepository) SaveInvoiceWithStock(ctx context.Context, invoice domain.Invoice, lines []domain.InvoiceLine, decrements []portsrepo.StockDecrement) error {
	args := m.Called(ctx, invoice, lines, decrements)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SumInvoicesBefore(ctx context.Context, customerID string, before time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, customerID, before)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoicesInRange(ctx context.Context, customerID string, from, to time.Time) ([]domain.Invoice, error) {
	args := m.Called(ctx, customerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoicesForCustomer(ctx context.Context, customerID string) ([]domain.Invoice, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

// --- Mock NumberingSvc ---
type MockNumberingSvc struct {
	mock.Mock
}

// Ensure MockNumberingSvc implements portssvc.NumberingSvc
var _ portssvc.NumberingSvc = (*MockNumberingSvc)(nil)

func (m *MockNumberingSvc) Allocate(ctx context.Context, companyID string, asOf time.Time) (string, error) {
	args := m.Called(ctx, companyID, asOf)
	return args.String(0), args.Error(1)
}

func (m *MockNumberingSvc) PeekNextFromExisting(ctx context.Context, prefix string) (string, error) {
	args := m.Called(ctx, prefix)
	return args.String(0), args.Error(1)
}

// --- Test Suite Setup ---
type SaleServiceTestSuite struct {
	suite.Suite
	mockProductRepo  *MockProductRepository
	mockCustomerRepo *MockCustomerRepository
	mockInvoiceRepo  *MockInvoiceRepository
	mockNumbering    *MockNumberingSvc
	service          portssvc.SaleSvcFacade
	now              time.Time
	widget           domain.Product
	bulkGrain        domain.Product
	customer         domain.CustomerAccount
	userID           string
}

func (suite *SaleServiceTestSuite) SetupTest() {
	suite.mockProductRepo = new(MockProductRepository)
	suite.mockCustomerRepo = new(MockCustomerRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockNumbering = new(MockNumberingSvc)
	suite.now = time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	suite.service = services.NewSaleService(
		suite.mockProductRepo,
		suite.mockCustomerRepo,
		suite.mockInvoiceRepo,
		suite.mockNumbering,
		services.WithSaleAttempts(3),
		services.WithCompanyID("main"),
		services.WithSaleClock(fixedClock{t: suite.now}),
	)

	suite.userID = uuid.NewString()
	suite.widget = domain.Product{
		ProductID:  uuid.NewString(),
		Code:       "WID-1",
		Name:       "Widget",
		Price:      decimal.NewFromInt(10),
		StockQty:   decimal.NewFromInt(10),
		WholeUnits: true,
		Version:    1,
	}
	suite.bulkGrain = domain.Product{
		ProductID:  uuid.NewString(),
		Code:       "GRN-1",
		Name:       "Grain",
		Price:      decimal.NewFromFloat(2.5),
		StockQty:   decimal.NewFromFloat(100.5),
		WholeUnits: false,
		Version:    4,
	}
	suite.customer = domain.CustomerAccount{
		CustomerID: uuid.NewString(),
		Name:       "Acme Ltd",
		Balance:    decimal.Zero,
	}
}

func (suite *SaleServiceTestSuite) productsByID(products ...domain.Product) map[string]domain.Product {
	out := make(map[string]domain.Product, len(products))
	for _, p := range products {
		out[p.ProductID] = p
	}
	return out
}

// --- Test Cases ---

func (suite *SaleServiceTestSuite) TestCreateSale_Success() {
	ctx := context.Background()
	req := dto.CreateSaleRequest{
		CustomerID:   &suite.customer.CustomerID,
		CurrencyCode: "USD",
		Lines: []dto.CreateSaleLine{
			{ProductID: suite.widget.ProductID, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(10)},
		},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).Return(&suite.customer, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.widget.ProductID}).Return(suite.productsByID(suite.widget), nil).Once()
	suite.mockNumbering.On("Allocate", ctx, "main", suite.now).Return("INV-202608-000001", nil).Once()

	var savedDecrements []portsrepo.StockDecrement
	suite.mockInvoiceRepo.On("SaveInvoiceWithStock", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceLine"), mock.AnythingOfType("[]repositories.StockDecrement")).
		Run(func(args mock.Arguments) {
			savedDecrements = args.Get(3).([]portsrepo.StockDecrement)
		}).
		Return(nil).Once()

	invoice, err := suite.service.CreateSale(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(invoice)
	suite.Equal("INV-202608-000001", invoice.InvoiceNumber)
	suite.Equal(suite.customer.CustomerID, invoice.CustomerID)
	suite.Equal(suite.now, invoice.IssuedAt)
	suite.True(invoice.Amount.Equal(decimal.NewFromInt(20)), "amount should be 2 x 10, got %s", invoice.Amount)

	suite.Require().Len(savedDecrements, 1)
	suite.Equal(suite.widget.ProductID, savedDecrements[0].ProductID)
	suite.True(savedDecrements[0].Quantity.Equal(decimal.NewFromInt(2)))
	suite.Equal(int64(1), savedDecrements[0].ExpectedVersion)
	suite.False(savedDecrements[0].AllowNegative)

	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockNumbering.AssertExpectations(suite.T())
}

func (suite *SaleServiceTestSuite) TestCreateSale_EmptyLines() {
	ctx := context.Background()
	req := dto.CreateSaleRequest{CurrencyCode: "USD"}

	_, err := suite.service.CreateSale(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEmptySale)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "FindProductsByIDs", mock.Anything, mock.Anything)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoiceWithStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestCreateSale_NonPositiveQuantity() {
	ctx := context.Background()
	req := dto.CreateSaleRequest{
		CurrencyCode: "USD",
		Lines: []dto.CreateSaleLine{
			{ProductID: suite.widget.ProductID, Quantity: decimal.Zero, UnitPrice: decimal.NewFromInt(10)},
		},
	}

	_, err := suite.service.CreateSale(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidQuantity)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoiceWithStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestCreateSale_UnknownProduct() {
	ctx := context.Background()
	unknownID := uuid.NewString()
	req := dto.CreateSaleRequest{
		CustomerID:   &suite.customer.CustomerID,
		CurrencyCode: "USD",
		Lines: []dto.CreateSaleLine{
			{ProductID: unknownID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
		},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).Return(&suite.customer, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{unknownID}).Return(map[string]domain.Product{}, nil).Once()

	_, err := suite.service.CreateSale(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrProductNotFound)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoiceWithStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestCreateSale_InsufficientStock() {
	ctx := context.Background()
	suite.widget.StockQty = decimal.NewFromInt(1)
	req := dto.CreateSaleRequest{
		CustomerID:   &suite.customer.CustomerID,
		CurrencyCode: "USD",
		Lines: []dto.CreateSaleLine{
			{ProductID: suite.widget.ProductID, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(10)},
		},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).Return(&suite.customer, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.widget.ProductID}).Return(suite.productsByID(suite.widget), nil).Once()

	_, err := suite.service.CreateSale(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInsufficientStock)
	suite.mockNumbering.AssertNotCalled(suite.T(), "Allocate", mock.Anything, mock.Anything, mock.Anything)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoiceWithStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// A fractional request against integer-tracked stock consumes the ceiling but
// charges the requested quantity.
func (suite *SaleServiceTestSuite) TestCreateSale_WholeUnitCeiling() {
	ctx := context.Background()
	suite.widget.StockQty = decimal.NewFromInt(3)
	req := dto.CreateSaleRequest{
		CustomerID:   &suite.customer.CustomerID,
		CurrencyCode: "USD",
		Lines: []dto.CreateSaleLine{
			{ProductID: suite.widget.ProductID, Quantity: decimal.NewFromFloat(2.5), UnitPrice: decimal.NewFromInt(10)},
		},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).Return(&suite.customer, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.widget.ProductID}).Return(suite.productsByID(suite.widget), nil).Once()
	suite.mockNumbering.On("Allocate", ctx, "main", suite.now).Return("INV-202608-000002", nil).Once()

	var savedDecrements []portsrepo.StockDecrement
	var savedLines []domain.InvoiceLine
	suite.mockInvoiceRepo.On("SaveInvoiceWithStock", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceLine"), mock.AnythingOfType("[]repositories.StockDecrement")).
		Run(func(args mock.Arguments) {
			savedLines = args.Get(2).([]domain.InvoiceLine)
			savedDecrements = args.Get(3).([]portsrepo.StockDecrement)
		}).
		Return(nil).Once()

	invoice, err := suite.service.CreateSale(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(savedDecrements, 1)
	suite.True(savedDecrements[0].Quantity.Equal(decimal.NewFromInt(3)), "decrement should be ceil(2.5)=3, got %s", savedDecrements[0].Quantity)
	suite.Require().Len(savedLines, 1)
	suite.True(savedLines[0].Quantity.Equal(decimal.NewFromFloat(2.5)), "line keeps the requested quantity")
	suite.True(invoice.Amount.Equal(decimal.NewFromInt(25)), "amount is 2.5 x 10, not the ceiling")
}

// Exactly 2.5 on hand and a request for 2.5 whole units fails: the ceiling (3)
// is what must be available.
func (suite *SaleServiceTestSuite) TestCreateSale_WholeUnitCeilingShortfall() {
	ctx := context.Background()
	suite.widget.StockQty = decimal.NewFromFloat(2.5)
	req := dto.CreateSaleRequest{
		CustomerID:   &suite.customer.CustomerID,
		CurrencyCode: "USD",
		Lines: []dto.CreateSaleLine{
			{ProductID: suite.widget.ProductID, Quantity: decimal.NewFromFloat(2.5), UnitPrice: decimal.NewFromInt(10)},
		},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).Return(&suite.customer, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.widget.ProductID}).Return(suite.productsByID(suite.widget), nil).Once()

	_, err := suite.service.CreateSale(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInsufficientStock)
}

func (suite *SaleServiceTestSuite) TestCreateSale_DuplicateLinesAggregated() {
	ctx := context.Background()
	suite.widget.StockQty = decimal.NewFromInt(4)
	req := dto.CreateSaleRequest{
		CustomerID:   &suite.customer.CustomerID,
		CurrencyCode: "USD",
		Lines: []dto.CreateSaleLine{
			{ProductID: suite.widget.ProductID, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(10)},
			{ProductID: suite.widget.ProductID, Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(10)},
		},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).Return(&suite.customer, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.widget.ProductID}).Return(suite.productsByID(suite.widget), nil).Once()

	_, err := suite.service.CreateSale(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInsufficientStock, "2+3 across lines exceeds the 4 on hand")
}

func (suite *SaleServiceTestSuite) TestCreateSale_RetryOnVersionConflictThenSuccess() {
	ctx := context.Background()
	req := dto.CreateSaleRequest{
		CustomerID:   &suite.customer.CustomerID,
		CurrencyCode: "USD",
		Lines: []dto.CreateSaleLine{
			{ProductID: suite.widget.ProductID, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(10)},
		},
	}

	refreshed := suite.widget
	refreshed.StockQty = decimal.NewFromInt(8)
	refreshed.Version = 2

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).Return(&suite.customer, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.widget.ProductID}).Return(suite.productsByID(suite.widget), nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.widget.ProductID}).Return(suite.productsByID(refreshed), nil).Once()
	suite.mockNumbering.On("Allocate", ctx, "main", suite.now).Return("INV-202608-000003", nil).Once()
	suite.mockNumbering.On("Allocate", ctx, "main", suite.now).Return("INV-202608-000004", nil).Once()

	var savedDecrements []portsrepo.StockDecrement
	suite.mockInvoiceRepo.On("SaveInvoiceWithStock", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceLine"), mock.AnythingOfType("[]repositories.StockDecrement")).
		Return(apperrors.ErrVersionConflict).Once()
	suite.mockInvoiceRepo.On("SaveInvoiceWithStock", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceLine"), mock.AnythingOfType("[]repositories.StockDecrement")).
		Run(func(args mock.Arguments) {
			savedDecrements = args.Get(3).([]portsrepo.StockDecrement)
		}).
		Return(nil).Once()

	invoice, err := suite.service.CreateSale(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("INV-202608-000004", invoice.InvoiceNumber, "the retry allocates a fresh number; the first one becomes a gap")
	suite.Require().Len(savedDecrements, 1)
	suite.Equal(int64(2), savedDecrements[0].ExpectedVersion, "retry must validate against the re-read version")
	suite.mockProductRepo.AssertExpectations(suite.T())
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

// A shortfall discovered on the re-read after a lost write race is a conflict
// outcome, not an insufficient-stock rejection: the caller should refresh and
// retry, not adjust the quantity.
func (suite *SaleServiceTestSuite) TestCreateSale_ConflictThenDepletedStock() {
	ctx := context.Background()
	req := dto.CreateSaleRequest{
		CustomerID:   &suite.customer.CustomerID,
		CurrencyCode: "USD",
		Lines: []dto.CreateSaleLine{
			{ProductID: suite.widget.ProductID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
		},
	}

	depleted := suite.widget
	depleted.StockQty = decimal.Zero
	depleted.Version = 2

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).Return(&suite.customer, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.widget.ProductID}).Return(suite.productsByID(suite.widget), nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.widget.ProductID}).Return(suite.productsByID(depleted), nil).Once()
	suite.mockNumbering.On("Allocate", ctx, "main", suite.now).Return("INV-202608-000010", nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoiceWithStock", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceLine"), mock.AnythingOfType("[]repositories.StockDecrement")).
		Return(apperrors.ErrVersionConflict).Once()

	_, err := suite.service.CreateSale(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrStockConflict)
	suite.NotErrorIs(err, services.ErrInsufficientStock)
	suite.mockProductRepo.AssertExpectations(suite.T())
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *SaleServiceTestSuite) TestCreateSale_RetriesExhausted() {
	ctx := context.Background()
	req := dto.CreateSaleRequest{
		CustomerID:   &suite.customer.CustomerID,
		CurrencyCode: "USD",
		Lines: []dto.CreateSaleLine{
			{ProductID: suite.widget.ProductID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
		},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).Return(&suite.customer, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.widget.ProductID}).Return(suite.productsByID(suite.widget), nil).Times(3)
	suite.mockNumbering.On("Allocate", ctx, "main", suite.now).Return("INV-202608-000005", nil).Times(3)
	suite.mockInvoiceRepo.On("SaveInvoiceWithStock", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceLine"), mock.AnythingOfType("[]repositories.StockDecrement")).
		Return(apperrors.ErrVersionConflict).Times(3)

	_, err := suite.service.CreateSale(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrStockConflict)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *SaleServiceTestSuite) TestCreateSale_WalkInExisting() {
	ctx := context.Background()
	walkIn := domain.CustomerAccount{
		CustomerID: uuid.NewString(),
		Name:       domain.WalkInCustomerName,
		Balance:    decimal.Zero,
	}
	req := dto.CreateSaleRequest{
		CurrencyCode: "USD",
		Lines: []dto.CreateSaleLine{
			{ProductID: suite.widget.ProductID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
		},
	}

	suite.mockCustomerRepo.On("FindCustomersByName", ctx, domain.WalkInCustomerName).Return([]domain.CustomerAccount{walkIn}, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.widget.ProductID}).Return(suite.productsByID(suite.widget), nil).Once()
	suite.mockNumbering.On("Allocate", ctx, "main", suite.now).Return("INV-202608-000006", nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoiceWithStock", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceLine"), mock.AnythingOfType("[]repositories.StockDecrement")).Return(nil).Once()

	invoice, err := suite.service.CreateSale(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(walkIn.CustomerID, invoice.CustomerID)
	suite.mockCustomerRepo.AssertNotCalled(suite.T(), "SaveCustomer", mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestCreateSale_WalkInMaterialized() {
	ctx := context.Background()
	req := dto.CreateSaleRequest{
		CurrencyCode: "USD",
		Lines: []dto.CreateSaleLine{
			{ProductID: suite.widget.ProductID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
		},
	}

	suite.mockCustomerRepo.On("FindCustomersByName", ctx, domain.WalkInCustomerName).Return([]domain.CustomerAccount{}, nil).Once()

	var savedCustomer domain.CustomerAccount
	suite.mockCustomerRepo.On("SaveCustomer", ctx, mock.AnythingOfType("domain.CustomerAccount")).
		Run(func(args mock.Arguments) {
			savedCustomer = args.Get(1).(domain.CustomerAccount)
		}).
		Return(nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.widget.ProductID}).Return(suite.productsByID(suite.widget), nil).Once()
	suite.mockNumbering.On("Allocate", ctx, "main", suite.now).Return("INV-202608-000007", nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoiceWithStock", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceLine"), mock.AnythingOfType("[]repositories.StockDecrement")).Return(nil).Once()

	invoice, err := suite.service.CreateSale(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.WalkInCustomerName, savedCustomer.Name)
	suite.Equal(savedCustomer.CustomerID, invoice.CustomerID)
	suite.mockCustomerRepo.AssertExpectations(suite.T())
}

// Two sales can race the walk-in materialization; the loser's insert hits the
// duplicate guard and it adopts the winner's account instead of failing.
func (suite *SaleServiceTestSuite) TestCreateSale_WalkInLostMaterializationRace() {
	ctx := context.Background()
	winner := domain.CustomerAccount{
		CustomerID: uuid.NewString(),
		Name:       domain.WalkInCustomerName,
		Balance:    decimal.Zero,
	}
	req := dto.CreateSaleRequest{
		CurrencyCode: "USD",
		Lines: []dto.CreateSaleLine{
			{ProductID: suite.widget.ProductID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
		},
	}

	suite.mockCustomerRepo.On("FindCustomersByName", ctx, domain.WalkInCustomerName).Return([]domain.CustomerAccount{}, nil).Once()
	suite.mockCustomerRepo.On("SaveCustomer", ctx, mock.AnythingOfType("domain.CustomerAccount")).Return(apperrors.ErrDuplicate).Once()
	suite.mockCustomerRepo.On("FindCustomersByName", ctx, domain.WalkInCustomerName).Return([]domain.CustomerAccount{winner}, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.widget.ProductID}).Return(suite.productsByID(suite.widget), nil).Once()
	suite.mockNumbering.On("Allocate", ctx, "main", suite.now).Return("INV-202608-000011", nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoiceWithStock", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceLine"), mock.AnythingOfType("[]repositories.StockDecrement")).Return(nil).Once()

	invoice, err := suite.service.CreateSale(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(winner.CustomerID, invoice.CustomerID)
	suite.mockCustomerRepo.AssertExpectations(suite.T())
}

func (suite *SaleServiceTestSuite) TestCreateSale_PreSuppliedNumber() {
	ctx := context.Background()
	preNumber := "INV-202607-000099"
	req := dto.CreateSaleRequest{
		CustomerID:    &suite.customer.CustomerID,
		CurrencyCode:  "USD",
		InvoiceNumber: &preNumber,
		Lines: []dto.CreateSaleLine{
			{ProductID: suite.widget.ProductID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
		},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).Return(&suite.customer, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.widget.ProductID}).Return(suite.productsByID(suite.widget), nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoiceWithStock", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceLine"), mock.AnythingOfType("[]repositories.StockDecrement")).Return(nil).Once()

	invoice, err := suite.service.CreateSale(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(preNumber, invoice.InvoiceNumber)
	suite.mockNumbering.AssertNotCalled(suite.T(), "Allocate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestCreateSale_AllowNegativeStock() {
	ctx := context.Background()
	suite.bulkGrain.StockQty = decimal.NewFromInt(1)
	req := dto.CreateSaleRequest{
		CustomerID:         &suite.customer.CustomerID,
		CurrencyCode:       "USD",
		AllowNegativeStock: true,
		Lines: []dto.CreateSaleLine{
			{ProductID: suite.bulkGrain.ProductID, Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromFloat(2.5)},
		},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).Return(&suite.customer, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.bulkGrain.ProductID}).Return(suite.productsByID(suite.bulkGrain), nil).Once()
	suite.mockNumbering.On("Allocate", ctx, "main", suite.now).Return("INV-202608-000008", nil).Once()

	var savedDecrements []portsrepo.StockDecrement
	suite.mockInvoiceRepo.On("SaveInvoiceWithStock", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceLine"), mock.AnythingOfType("[]repositories.StockDecrement")).
		Run(func(args mock.Arguments) {
			savedDecrements = args.Get(3).([]portsrepo.StockDecrement)
		}).
		Return(nil).Once()

	_, err := suite.service.CreateSale(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(savedDecrements, 1)
	suite.True(savedDecrements[0].AllowNegative)
}

// The recorded unit price is the request's snapshot, not the product's current
// list price.
func (suite *SaleServiceTestSuite) TestCreateSale_PriceSnapshot() {
	ctx := context.Background()
	discounted := decimal.NewFromFloat(7.5)
	req := dto.CreateSaleRequest{
		CustomerID:   &suite.customer.CustomerID,
		CurrencyCode: "USD",
		Lines: []dto.CreateSaleLine{
			{ProductID: suite.widget.ProductID, Quantity: decimal.NewFromInt(2), UnitPrice: discounted},
		},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).Return(&suite.customer, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.widget.ProductID}).Return(suite.productsByID(suite.widget), nil).Once()
	suite.mockNumbering.On("Allocate", ctx, "main", suite.now).Return("INV-202608-000009", nil).Once()

	var savedLines []domain.InvoiceLine
	suite.mockInvoiceRepo.On("SaveInvoiceWithStock", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceLine"), mock.AnythingOfType("[]repositories.StockDecrement")).
		Run(func(args mock.Arguments) {
			savedLines = args.Get(2).([]domain.InvoiceLine)
		}).
		Return(nil).Once()

	invoice, err := suite.service.CreateSale(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(savedLines, 1)
	suite.True(savedLines[0].UnitPrice.Equal(discounted))
	suite.True(invoice.Amount.Equal(decimal.NewFromInt(15)))
}

func TestSaleService(t *testing.T) {
	suite.Run(t, new(SaleServiceTestSuite))
}
