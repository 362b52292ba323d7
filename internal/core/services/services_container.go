package services

import (
	portsrepo "github.com/retailops/backoffice/internal/core/ports/repositories"
	portssvc "github.com/retailops/backoffice/internal/core/ports/services"
	"github.com/retailops/backoffice/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Numbering first since the sale coordinator depends on it
	container.Numbering = NewNumberingService(
		repos.SequenceRepo,
		repos.InvoiceRepo,
		WithAllocationAttempts(cfg.AllocRetryAttempts),
	)

	container.Sale = NewSaleService(
		repos.ProductRepo,
		repos.CustomerRepo,
		repos.InvoiceRepo,
		container.Numbering,
		WithSaleAttempts(cfg.SaleRetryAttempts),
		WithCompanyID(cfg.CompanyID),
		WithAllowNegativeStock(cfg.AllowNegativeStock),
	)

	container.Statement = NewStatementService(repos.CustomerRepo, repos.InvoiceRepo)
	container.Product = NewProductService(repos.ProductRepo, WithReceiptAttempts(cfg.SaleRetryAttempts))
	container.Customer = NewCustomerService(repos.CustomerRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.SaleSvcFacade     = (*saleService)(nil)
	_ portssvc.NumberingSvc      = (*numberingService)(nil)
	_ portssvc.StatementSvc      = (*statementService)(nil)
	_ portssvc.ProductSvcFacade  = (*productService)(nil)
	_ portssvc.CustomerSvcFacade = (*customerService)(nil)
)
