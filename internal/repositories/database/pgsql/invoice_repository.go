package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/retailops/backoffice/internal/apperrors"
	"github.com/retailops/backoffice/internal/core/domain"
	portsrepo "github.com/retailops/backoffice/internal/core/ports/repositories"
	"github.com/retailops/backoffice/internal/models"
	"github.com/retailops/backoffice/internal/utils/mapping"
	"github.com/retailops/backoffice/internal/utils/pagination"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoice and invoice line data.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryWithTx {
	return &PgxInvoiceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxInvoiceRepository implements portsrepo.InvoiceRepositoryWithTx
var _ portsrepo.InvoiceRepositoryWithTx = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `invoice_id, invoice_number, customer_id, issued_at, currency_code, issuer, notes, amount, created_at, created_by, last_updated_at, last_updated_by`

// SaveInvoiceWithStock applies every stock decrement and persists the invoice
// header plus its lines within a single DB transaction. The decrement is
// guarded by each product's version token: the service validated availability
// against exactly that version's snapshot, so a matching version at commit
// time means the check still holds. Zero rows affected on any decrement
// aborts the whole transaction with ErrVersionConflict and nothing is applied.
func (r *PgxInvoiceRepository) SaveInvoiceWithStock(ctx context.Context, invoice domain.Invoice, lines []domain.InvoiceLine, decrements []portsrepo.StockDecrement) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Defer rollback in case of error
	defer r.Rollback(ctx, tx)

	now := invoice.CreatedAt // Use consistent time from invoice
	userID := invoice.CreatedBy

	// 1. Decrement stock for every affected product, version-guarded
	decrementQuery := `
		UPDATE products
		SET stock_qty = stock_qty - $1, version = version + 1, last_updated_at = $2, last_updated_by = $3
		WHERE product_id = $4 AND version = $5;
	`
	for _, d := range decrements {
		ct, err := tx.Exec(ctx, decrementQuery, d.Quantity, now, userID, d.ProductID, d.ExpectedVersion)
		if err != nil {
			return apperrors.NewAppError(500, "failed to decrement stock for product "+d.ProductID, err)
		}
		if ct.RowsAffected() == 0 {
			return fmt.Errorf("product %s: %w", d.ProductID, apperrors.ErrVersionConflict)
		}
	}

	// 2. Insert the invoice header
	modelInvoice := mapping.ToModelInvoice(invoice)
	invoiceQuery := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, invoiceQuery,
		modelInvoice.InvoiceID,
		modelInvoice.InvoiceNumber,
		modelInvoice.CustomerID,
		modelInvoice.IssuedAt,
		modelInvoice.CurrencyCode,
		modelInvoice.Issuer,
		modelInvoice.Notes,
		modelInvoice.Amount,
		modelInvoice.CreatedAt,
		modelInvoice.CreatedBy,
		modelInvoice.LastUpdatedAt,
		modelInvoice.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.NewAppError(409, "invoice number "+modelInvoice.InvoiceNumber+" already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert invoice "+modelInvoice.InvoiceID, err)
	}

	// 3. Batch-insert the lines
	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO invoice_lines (line_id, invoice_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, line := range lines {
		modelLine := mapping.ToModelInvoiceLine(line)
		batch.Queue(lineQuery,
			modelLine.LineID,
			modelLine.InvoiceID,
			modelLine.ProductID,
			modelLine.Quantity,
			modelLine.UnitPrice,
		)
	}
	br := tx.SendBatch(ctx, batch)
	// Important: Close the batch results to check for errors in each command
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for invoice "+modelInvoice.InvoiceID, err)
	}

	// 4. Bump the customer's advisory balance. Not version-guarded: statements
	// recompute from invoices and never trust this column.
	balanceQuery := `
		UPDATE customer_accounts
		SET balance = balance + $1, last_updated_at = $2, last_updated_by = $3
		WHERE customer_id = $4;
	`
	if _, err := tx.Exec(ctx, balanceQuery, modelInvoice.Amount, now, userID, modelInvoice.CustomerID); err != nil {
		return apperrors.NewAppError(500, "failed to update customer balance for invoice "+modelInvoice.InvoiceID, err)
	}

	// If all updates were successful, commit the transaction
	return r.Commit(ctx, tx)
}

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var model models.Invoice
	var notes sql.NullString // Nullable text
	err := row.Scan(
		&model.InvoiceID,
		&model.InvoiceNumber,
		&model.CustomerID,
		&model.IssuedAt,
		&model.CurrencyCode,
		&model.Issuer,
		&notes,
		&model.Amount,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	model.Notes = notes.String
	return &model, nil
}

// FindInvoiceByID retrieves an invoice by its ID.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`
	model, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find invoice "+invoiceID, err)
	}
	invoice := mapping.ToDomainInvoice(*model)
	return &invoice, nil
}

// FindLinesByInvoiceID retrieves all lines belonging to one invoice.
func (r *PgxInvoiceRepository) FindLinesByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error) {
	query := `
		SELECT line_id, invoice_id, product_id, quantity, unit_price
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find lines for invoice "+invoiceID, err)
	}
	defer rows.Close()

	var result []domain.InvoiceLine
	for rows.Next() {
		var model models.InvoiceLine
		if err := rows.Scan(&model.LineID, &model.InvoiceID, &model.ProductID, &model.Quantity, &model.UnitPrice); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice line", err)
		}
		result = append(result, mapping.ToDomainInvoiceLine(model))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate invoice lines", err)
	}
	return result, nil
}

// ListInvoicesByCustomer retrieves a page of a customer's invoices, newest
// first, using token-based pagination.
func (r *PgxInvoiceRepository) ListInvoicesByCustomer(ctx context.Context, customerID string, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE customer_id = $1`
	args := []any{customerID}

	if nextToken != nil && *nextToken != "" {
		issuedAt, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid pagination token", err)
		}
		query += ` AND (issued_at, created_at) < ($2, $3)`
		args = append(args, issuedAt, createdAt)
	}
	query += fmt.Sprintf(` ORDER BY issued_at DESC, created_at DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1) // Fetch one extra row to detect a next page

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list invoices for customer "+customerID, err)
	}
	defer rows.Close()

	var result []domain.Invoice
	for rows.Next() {
		model, err := scanInvoice(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan invoice", err)
		}
		result = append(result, mapping.ToDomainInvoice(*model))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to iterate invoices", err)
	}

	var token *string
	if len(result) > limit {
		result = result[:limit]
		last := result[len(result)-1]
		encoded := pagination.EncodeToken(last.IssuedAt, last.CreatedAt)
		token = &encoded
	}
	return result, token, nil
}

// FindHighestInvoiceNumber returns the lexicographically highest invoice
// number starting with the given prefix, or "" when none exists.
func (r *PgxInvoiceRepository) FindHighestInvoiceNumber(ctx context.Context, prefix string) (string, error) {
	query := `
		SELECT invoice_number
		FROM invoices
		WHERE invoice_number LIKE $1 || '%'
		ORDER BY invoice_number DESC
		LIMIT 1;
	`
	var number string
	err := r.Pool.QueryRow(ctx, query, prefix).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", apperrors.NewAppError(500, "failed to scan invoice numbers with prefix "+prefix, err)
	}
	return number, nil
}

// SumInvoicesBefore sums invoice amounts for a customer dated strictly before
// the given instant.
func (r *PgxInvoiceRepository) SumInvoicesBefore(ctx context.Context, customerID string, before time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM invoices
		WHERE customer_id = $1 AND issued_at < $2;
	`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, customerID, before).Scan(&sum); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum invoices for customer "+customerID, err)
	}
	return sum, nil
}

func (r *PgxInvoiceRepository) listInvoices(ctx context.Context, query string, args ...any) ([]domain.Invoice, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query invoices", err)
	}
	defer rows.Close()

	var result []domain.Invoice
	for rows.Next() {
		model, err := scanInvoice(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice", err)
		}
		result = append(result, mapping.ToDomainInvoice(*model))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate invoices", err)
	}
	return result, nil
}

// ListInvoicesInRange retrieves a customer's invoices with issue date in
// [from, to] inclusive, ordered ascending. The ordering backs the statement
// running-balance fold.
func (r *PgxInvoiceRepository) ListInvoicesInRange(ctx context.Context, customerID string, from, to time.Time) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE customer_id = $1 AND issued_at >= $2 AND issued_at <= $3
		ORDER BY issued_at ASC, created_at ASC;
	`
	return r.listInvoices(ctx, query, customerID, from, to)
}

// ListInvoicesForCustomer retrieves every invoice ever issued to a customer,
// ordered ascending by issue date.
func (r *PgxInvoiceRepository) ListInvoicesForCustomer(ctx context.Context, customerID string) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE customer_id = $1
		ORDER BY issued_at ASC, created_at ASC;
	`
	return r.listInvoices(ctx, query, customerID)
}
