package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/retailops/backoffice/internal/apperrors"
	"github.com/retailops/backoffice/internal/core/domain"
	portsrepo "github.com/retailops/backoffice/internal/core/ports/repositories"
	portssvc "github.com/retailops/backoffice/internal/core/ports/services"
	"github.com/retailops/backoffice/internal/core/services"
)

// --- Mock SequenceRepository ---
type MockSequenceRepository struct {
	mock.Mock
}

// Ensure MockSequenceRepository implements portsrepo.SequenceRepository
var _ portsrepo.SequenceRepository = (*MockSequenceRepository)(nil)

func (m *MockSequenceRepository) GetOrCreateSequence(ctx context.Context, companyID, periodKey string) (*domain.InvoiceNumberSequence, error) {
	args := m.Called(ctx, companyID, periodKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceNumberSequence), args.Error(1)
}

func (m *MockSequenceRepository) IncrementSequence(ctx context.Context, companyID, periodKey string, expectedVersion int64) error {
	args := m.Called(ctx, companyID, periodKey, expectedVersion)
	return args.Error(0)
}

// --- Test Suite Setup ---
type NumberingServiceTestSuite struct {
	suite.Suite
	mockSeqRepo     *MockSequenceRepository
	mockInvoiceRepo *MockInvoiceRepository
	service         portssvc.NumberingSvc
	asOf            time.Time
}

func (suite *NumberingServiceTestSuite) SetupTest() {
	suite.mockSeqRepo = new(MockSequenceRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.service = services.NewNumberingService(suite.mockSeqRepo, suite.mockInvoiceRepo)
	suite.asOf = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
}

func (suite *NumberingServiceTestSuite) seq(next, version int64) *domain.InvoiceNumberSequence {
	return &domain.InvoiceNumberSequence{
		CompanyID: "main",
		PeriodKey: "202608",
		NextValue: next,
		Version:   version,
	}
}

// --- Test Cases ---

func (suite *NumberingServiceTestSuite) TestAllocate_Success() {
	ctx := context.Background()
	suite.mockSeqRepo.On("GetOrCreateSequence", ctx, "main", "202608").Return(suite.seq(42, 7), nil).Once()
	suite.mockSeqRepo.On("IncrementSequence", ctx, "main", "202608", int64(7)).Return(nil).Once()

	number, err := suite.service.Allocate(ctx, "main", suite.asOf)

	suite.Require().NoError(err)
	suite.Equal("INV-202608-000042", number)
	suite.mockSeqRepo.AssertExpectations(suite.T())
}

func (suite *NumberingServiceTestSuite) TestAllocate_RetryOnConflict() {
	ctx := context.Background()
	suite.mockSeqRepo.On("GetOrCreateSequence", ctx, "main", "202608").Return(suite.seq(5, 1), nil).Once()
	suite.mockSeqRepo.On("IncrementSequence", ctx, "main", "202608", int64(1)).Return(apperrors.ErrVersionConflict).Once()
	suite.mockSeqRepo.On("GetOrCreateSequence", ctx, "main", "202608").Return(suite.seq(6, 2), nil).Once()
	suite.mockSeqRepo.On("IncrementSequence", ctx, "main", "202608", int64(2)).Return(nil).Once()

	number, err := suite.service.Allocate(ctx, "main", suite.asOf)

	suite.Require().NoError(err)
	suite.Equal("INV-202608-000006", number, "the retry re-reads and formats the advanced value")
	suite.mockSeqRepo.AssertExpectations(suite.T())
}

func (suite *NumberingServiceTestSuite) TestAllocate_Exhausted() {
	ctx := context.Background()
	svc := services.NewNumberingService(suite.mockSeqRepo, suite.mockInvoiceRepo, services.WithAllocationAttempts(2))
	suite.mockSeqRepo.On("GetOrCreateSequence", ctx, "main", "202608").Return(suite.seq(5, 1), nil).Times(2)
	suite.mockSeqRepo.On("IncrementSequence", ctx, "main", "202608", int64(1)).Return(apperrors.ErrVersionConflict).Times(2)

	_, err := svc.Allocate(ctx, "main", suite.asOf)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAllocationExhausted)
	suite.mockSeqRepo.AssertExpectations(suite.T())
}

func (suite *NumberingServiceTestSuite) TestAllocate_NonConflictErrorIsFatal() {
	ctx := context.Background()
	suite.mockSeqRepo.On("GetOrCreateSequence", ctx, "main", "202608").Return(suite.seq(5, 1), nil).Once()
	suite.mockSeqRepo.On("IncrementSequence", ctx, "main", "202608", int64(1)).Return(assert.AnError).Once()

	_, err := suite.service.Allocate(ctx, "main", suite.asOf)

	suite.Require().Error(err)
	suite.NotErrorIs(err, services.ErrAllocationExhausted)
	suite.mockSeqRepo.AssertNumberOfCalls(suite.T(), "GetOrCreateSequence", 1)
}

func (suite *NumberingServiceTestSuite) TestAllocate_PeriodFromAsOf() {
	ctx := context.Background()
	december := time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC)
	suite.mockSeqRepo.On("GetOrCreateSequence", ctx, "main", "202612").Return(&domain.InvoiceNumberSequence{
		CompanyID: "main", PeriodKey: "202612", NextValue: 1, Version: 1,
	}, nil).Once()
	suite.mockSeqRepo.On("IncrementSequence", ctx, "main", "202612", int64(1)).Return(nil).Once()

	number, err := suite.service.Allocate(ctx, "main", december)

	suite.Require().NoError(err)
	suite.Equal("INV-202612-000001", number)
}

func (suite *NumberingServiceTestSuite) TestPeekNextFromExisting() {
	ctx := context.Background()
	suite.mockInvoiceRepo.On("FindHighestInvoiceNumber", ctx, "INV-202608-").Return("INV-202608-000041", nil).Once()

	number, err := suite.service.PeekNextFromExisting(ctx, "INV-202608-")

	suite.Require().NoError(err)
	suite.Equal("INV-202608-000042", number)
}

func (suite *NumberingServiceTestSuite) TestPeekNextFromExisting_NoExisting() {
	ctx := context.Background()
	suite.mockInvoiceRepo.On("FindHighestInvoiceNumber", ctx, "INV-202609-").Return("", nil).Once()

	number, err := suite.service.PeekNextFromExisting(ctx, "INV-202609-")

	suite.Require().NoError(err)
	suite.Equal("INV-202609-000001", number)
}

func (suite *NumberingServiceTestSuite) TestPeekNextFromExisting_UnparsableSuffix() {
	ctx := context.Background()
	suite.mockInvoiceRepo.On("FindHighestInvoiceNumber", ctx, "INV-202608-").Return("INV-202608-DRAFT", nil).Once()

	_, err := suite.service.PeekNextFromExisting(ctx, "INV-202608-")

	suite.Require().Error(err)
}

func TestNumberingService(t *testing.T) {
	suite.Run(t, new(NumberingServiceTestSuite))
}

// --- Concurrency: allocations never collide ---

// fakeSequenceStore is an in-memory sequence row guarded the same way the
// database is: an increment only lands when the caller read the current
// version.
type fakeSequenceStore struct {
	mu      sync.Mutex
	next    int64
	version int64
}

func (f *fakeSequenceStore) GetOrCreateSequence(ctx context.Context, companyID, periodKey string) (*domain.InvoiceNumberSequence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.next == 0 {
		f.next = 1
		f.version = 1
	}
	return &domain.InvoiceNumberSequence{
		CompanyID: companyID,
		PeriodKey: periodKey,
		NextValue: f.next,
		Version:   f.version,
	}, nil
}

func (f *fakeSequenceStore) IncrementSequence(ctx context.Context, companyID, periodKey string, expectedVersion int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.version != expectedVersion {
		return apperrors.ErrVersionConflict
	}
	f.next++
	f.version++
	return nil
}

func TestAllocateConcurrentDistinct(t *testing.T) {
	store := &fakeSequenceStore{}
	mockInvoiceRepo := new(MockInvoiceRepository)
	// High attempt budget: with 20 goroutines racing the same row, individual
	// attempts conflict constantly and that is the point of the test.
	svc := services.NewNumberingService(store, mockInvoiceRepo, services.WithAllocationAttempts(1000))

	const workers = 20
	asOf := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	numbers := make(chan string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := svc.Allocate(context.Background(), "main", asOf)
			assert.NoError(t, err)
			numbers <- number
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool, workers)
	for number := range numbers {
		assert.False(t, seen[number], "invoice number %s allocated twice", number)
		seen[number] = true
	}
	assert.Len(t, seen, workers)
}
