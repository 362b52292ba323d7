package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/retailops/backoffice/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	productRepo := newPgxProductRepository(dbPool)
	customerRepo := newPgxCustomerRepository(dbPool)
	invoiceRepo := newPgxInvoiceRepository(dbPool)
	sequenceRepo := newPgxSequenceRepository(dbPool)

	return portsrepo.RepositoryProvider{
		ProductRepo:  productRepo,
		CustomerRepo: customerRepo,
		InvoiceRepo:  invoiceRepo,
		SequenceRepo: sequenceRepo,
	}
}
