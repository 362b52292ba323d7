package services

import (
	"context"

	"github.com/retailops/backoffice/internal/core/domain"
	"github.com/retailops/backoffice/internal/dto"
)

// CustomerSvcFacade defines operations for customer account master data.
type CustomerSvcFacade interface {
	// CreateCustomer persists a new customer account.
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, creatorUserID string) (*domain.CustomerAccount, error)

	// GetCustomerByID retrieves a specific customer account by its ID.
	GetCustomerByID(ctx context.Context, customerID string) (*domain.CustomerAccount, error)
}
