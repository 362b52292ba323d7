package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/retailops/backoffice/internal/core/ports/services"
	"github.com/retailops/backoffice/internal/dto"
	"github.com/retailops/backoffice/internal/middleware"
)

// numberingHandler handles HTTP requests for invoice number allocation.
type numberingHandler struct {
	numberingService portssvc.NumberingSvc
	companyID        string
	clock            portssvc.Clock
}

// newNumberingHandler creates a new numberingHandler.
func newNumberingHandler(numberingService portssvc.NumberingSvc, companyID string, clock portssvc.Clock) *numberingHandler {
	return &numberingHandler{
		numberingService: numberingService,
		companyID:        companyID,
		clock:            clock,
	}
}

// allocateNumber godoc
// @Summary Allocate the next invoice number
// @Description Reserves a unique invoice number for the billing period containing asOf
// @Tags numbering
// @Accept  json
// @Produce  json
// @Param   allocation body dto.AllocateNumberRequest false "Allocation options"
// @Success 201 {object} dto.AllocateNumberResponse
// @Failure 409 {object} map[string]string "Allocation retries exhausted"
// @Router /invoice-numbers/allocate [post]
func (h *numberingHandler) allocateNumber(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AllocateNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		logger.Error("Failed to bind JSON for AllocateNumber", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	asOf := h.clock.Now()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	number, err := h.numberingService.Allocate(c.Request.Context(), h.companyID, asOf)
	if err != nil {
		respondServiceError(c, err, "Failed to allocate invoice number")
		return
	}

	logger.Info("Invoice number allocated", slog.String("invoice_number", number))
	c.JSON(http.StatusCreated, dto.AllocateNumberResponse{InvoiceNumber: number})
}

// peekNextNumber godoc
// @Summary Peek the next invoice number from existing invoices
// @Description Derives the next number by scanning existing invoice numbers. Not safe under concurrent writers.
// @Tags numbering
// @Produce  json
// @Param   prefix query string true "Invoice number prefix, e.g. INV-202608-"
// @Success 200 {object} dto.AllocateNumberResponse
// @Router /invoice-numbers/peek [get]
func (h *numberingHandler) peekNextNumber(c *gin.Context) {
	prefix := c.Query("prefix")
	if prefix == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prefix query parameter is required"})
		return
	}

	number, err := h.numberingService.PeekNextFromExisting(c.Request.Context(), prefix)
	if err != nil {
		respondServiceError(c, err, "Failed to peek invoice number")
		return
	}

	c.JSON(http.StatusOK, dto.AllocateNumberResponse{InvoiceNumber: number})
}

// registerNumberingRoutes wires the numbering endpoints into the router group.
func registerNumberingRoutes(rg *gin.RouterGroup, numberingService portssvc.NumberingSvc, companyID string, clock portssvc.Clock) {
	h := newNumberingHandler(numberingService, companyID, clock)
	rg.POST("/invoice-numbers/allocate", h.allocateNumber)
	rg.GET("/invoice-numbers/peek", h.peekNextNumber)
}
