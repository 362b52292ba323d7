package repositories

import (
	"context"

	"github.com/retailops/backoffice/internal/core/domain"
)

// CustomerReader defines read operations for customer account data
type CustomerReader interface {
	// FindCustomerByID retrieves a specific customer account by its unique identifier.
	FindCustomerByID(ctx context.Context, customerID string) (*domain.CustomerAccount, error)

	// FindCustomersByName retrieves every customer account with the given exact
	// name. Statement lookups require the name to resolve to exactly one
	// account; the caller decides how to treat zero or multiple matches.
	FindCustomersByName(ctx context.Context, name string) ([]domain.CustomerAccount, error)
}

// CustomerWriter defines write operations for customer account data
type CustomerWriter interface {
	// SaveCustomer persists a new customer account.
	SaveCustomer(ctx context.Context, customer domain.CustomerAccount) error
}

// CustomerRepositoryFacade combines all customer-related repository interfaces
type CustomerRepositoryFacade interface {
	CustomerReader
	CustomerWriter
}
