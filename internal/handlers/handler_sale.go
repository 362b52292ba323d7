package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/retailops/backoffice/internal/core/ports/services"
	"github.com/retailops/backoffice/internal/dto"
	"github.com/retailops/backoffice/internal/middleware"
)

// saleHandler handles HTTP requests related to sales and invoices.
type saleHandler struct {
	saleService portssvc.SaleSvcFacade
}

// newSaleHandler creates a new saleHandler.
func newSaleHandler(saleService portssvc.SaleSvcFacade) *saleHandler {
	return &saleHandler{
		saleService: saleService,
	}
}

// createSale godoc
// @Summary Post a sale
// @Description Validates the sale, decrements stock and creates the invoice atomically
// @Tags sales
// @Accept  json
// @Produce  json
// @Param   sale body dto.CreateSaleRequest true "Sale to post"
// @Success 201 {object} dto.CreateSaleResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Unknown product or customer"
// @Failure 409 {object} map[string]string "Stock conflict after retries"
// @Failure 422 {object} map[string]string "Insufficient stock"
// @Router /sales [post]
func (h *saleHandler) createSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for CreateSale", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	invoice, err := h.saleService.CreateSale(c.Request.Context(), req, issuerFromRequest(c))
	if err != nil {
		respondServiceError(c, err, "Failed to post sale")
		return
	}

	logger.Info("Sale posted", slog.String("invoice_id", invoice.InvoiceID), slog.String("invoice_number", invoice.InvoiceNumber))
	c.JSON(http.StatusCreated, dto.CreateSaleResponse{
		InvoiceID:     invoice.InvoiceID,
		InvoiceNumber: invoice.InvoiceNumber,
		Amount:        invoice.Amount,
	})
}

// getInvoice godoc
// @Summary Get an invoice and its lines
// @Tags sales
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.GetInvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Router /invoices/{invoiceID} [get]
func (h *saleHandler) getInvoice(c *gin.Context) {
	invoiceID := c.Param("invoiceID")

	invoice, lines, err := h.saleService.GetInvoiceByID(c.Request.Context(), invoiceID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch invoice")
		return
	}

	c.JSON(http.StatusOK, dto.GetInvoiceResponse{
		Invoice: dto.ToInvoiceResponse(invoice),
		Lines:   dto.ToInvoiceLineResponses(lines),
	})
}

// listCustomerInvoices godoc
// @Summary List a customer's invoices
// @Tags sales
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListInvoicesResponse
// @Router /customers/{customerID}/invoices [get]
func (h *saleHandler) listCustomerInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID := c.Param("customerID")

	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for ListCustomerInvoices", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.saleService.ListInvoicesByCustomer(c.Request.Context(), customerID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to list invoices")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// registerSaleRoutes wires the sale endpoints into the router group.
func registerSaleRoutes(rg *gin.RouterGroup, saleService portssvc.SaleSvcFacade) {
	h := newSaleHandler(saleService)
	rg.POST("/sales", h.createSale)
	rg.GET("/invoices/:invoiceID", h.getInvoice)
	rg.GET("/customers/:customerID/invoices", h.listCustomerInvoices)
}
