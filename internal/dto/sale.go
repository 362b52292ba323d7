package dto

import (
	"time"

	"github.com/retailops/backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateSaleLine is one requested invoice line. UnitPrice is recorded verbatim
// as the price snapshot; it is not re-derived from the product's list price.
type CreateSaleLine struct {
	ProductID string          `json:"productID" binding:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"required"`
}

// CreateSaleRequest is the payload for posting a sale.
type CreateSaleRequest struct {
	// CustomerID is optional; a nil value sells to the materialized walk-in account.
	CustomerID         *string          `json:"customerID" binding:"omitempty,uuid"`
	CurrencyCode       string           `json:"currencyCode" binding:"required,len=3"`
	Lines              []CreateSaleLine `json:"lines" binding:"omitempty,dive"`
	Notes              string           `json:"notes"`
	AllowNegativeStock bool             `json:"allowNegativeStock"`
	// InvoiceNumber pre-supplies a number (pre-numbered sales); when empty the
	// sale allocates one from the per-period sequence.
	InvoiceNumber *string `json:"invoiceNumber"`
}

// CreateSaleResponse returns the identity of the committed invoice.
type CreateSaleResponse struct {
	InvoiceID     string          `json:"invoiceID"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Amount        decimal.Decimal `json:"amount"`
}

// InvoiceLineResponse defines the data returned for an invoice line.
type InvoiceLineResponse struct {
	LineID    string          `json:"lineID"`
	ProductID string          `json:"productID"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

// InvoiceResponse defines the data returned for an invoice header.
type InvoiceResponse struct {
	InvoiceID     string          `json:"invoiceID"`
	InvoiceNumber string          `json:"invoiceNumber"`
	CustomerID    string          `json:"customerID"`
	IssuedAt      time.Time       `json:"issuedAt"`
	CurrencyCode  string          `json:"currencyCode"`
	Notes         string          `json:"notes,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
}

// GetInvoiceResponse defines the combined response for an invoice and its lines.
type GetInvoiceResponse struct {
	Invoice InvoiceResponse       `json:"invoice"`
	Lines   []InvoiceLineResponse `json:"lines"`
}

// ListInvoicesParams carries pagination inputs for invoice listings.
type ListInvoicesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListInvoicesResponse is a page of invoices plus the token for the next page.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToInvoiceResponse converts a domain.Invoice to InvoiceResponse DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:     inv.InvoiceID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		IssuedAt:      inv.IssuedAt,
		CurrencyCode:  inv.CurrencyCode,
		Notes:         inv.Notes,
		Amount:        inv.Amount,
	}
}

// ToInvoiceResponses converts a slice of domain.Invoice to []InvoiceResponse.
func ToInvoiceResponses(invs []domain.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invs))
	for i, inv := range invs {
		responses[i] = ToInvoiceResponse(&inv)
	}
	return responses
}

// ToInvoiceLineResponse converts a domain.InvoiceLine to InvoiceLineResponse DTO.
func ToInvoiceLineResponse(line domain.InvoiceLine) InvoiceLineResponse {
	return InvoiceLineResponse{
		LineID:    line.LineID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice,
		Total:     line.Total(),
	}
}

// ToInvoiceLineResponses converts a slice of domain.InvoiceLine to []InvoiceLineResponse.
func ToInvoiceLineResponses(lines []domain.InvoiceLine) []InvoiceLineResponse {
	responses := make([]InvoiceLineResponse, len(lines))
	for i, line := range lines {
		responses[i] = ToInvoiceLineResponse(line)
	}
	return responses
}
