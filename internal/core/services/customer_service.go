package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backoffice/internal/core/domain"
	portsrepo "github.com/retailops/backoffice/internal/core/ports/repositories"
	portssvc "github.com/retailops/backoffice/internal/core/ports/services"
	"github.com/retailops/backoffice/internal/dto"
)

// customerService manages customer account master data.
type customerService struct {
	BaseService
	customerRepo portsrepo.CustomerRepositoryFacade
	clock        portssvc.Clock
}

// CustomerServiceOption is a functional option for configuring the customer service
type CustomerServiceOption func(*customerService)

// WithCustomerClock injects a clock for deterministic tests.
func WithCustomerClock(clock portssvc.Clock) CustomerServiceOption {
	return func(s *customerService) {
		s.clock = clock
	}
}

// NewCustomerService creates a new customer service.
func NewCustomerService(customerRepo portsrepo.CustomerRepositoryFacade, options ...CustomerServiceOption) portssvc.CustomerSvcFacade {
	svc := &customerService{
		customerRepo: customerRepo,
		clock:        systemClock{},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure customerService implements the CustomerSvcFacade interface
var _ portssvc.CustomerSvcFacade = (*customerService)(nil)

// CreateCustomer persists a new customer account with a zero advisory balance.
func (s *customerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, creatorUserID string) (*domain.CustomerAccount, error) {
	now := s.clock.Now()
	customer := domain.CustomerAccount{
		CustomerID: uuid.NewString(),
		Name:       req.Name,
		Balance:    decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		s.LogError(ctx, err, "Failed to save customer", slog.String("name", req.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Customer created", slog.String("customer_id", customer.CustomerID))
	return &customer, nil
}

// GetCustomerByID retrieves a specific customer account by its ID.
func (s *customerService) GetCustomerByID(ctx context.Context, customerID string) (*domain.CustomerAccount, error) {
	return s.customerRepo.FindCustomerByID(ctx, customerID)
}
