package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/retailops/backoffice/internal/core/ports/services"
	"github.com/retailops/backoffice/internal/dto"
	"github.com/retailops/backoffice/internal/middleware"
)

// customerHandler handles HTTP requests related to customer accounts.
type customerHandler struct {
	customerService portssvc.CustomerSvcFacade
}

// newCustomerHandler creates a new customerHandler.
func newCustomerHandler(customerService portssvc.CustomerSvcFacade) *customerHandler {
	return &customerHandler{
		customerService: customerService,
	}
}

// createCustomer godoc
// @Summary Create a customer account
// @Tags customers
// @Accept  json
// @Produce  json
// @Param   customer body dto.CreateCustomerRequest true "Customer to create"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /customers [post]
func (h *customerHandler) createCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for CreateCustomer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), req, issuerFromRequest(c))
	if err != nil {
		respondServiceError(c, err, "Failed to create customer")
		return
	}

	logger.Info("Customer created", slog.String("customer_id", customer.CustomerID))
	c.JSON(http.StatusCreated, dto.ToCustomerResponse(customer))
}

// getCustomer godoc
// @Summary Get a customer account
// @Tags customers
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Success 200 {object} dto.CustomerResponse
// @Failure 404 {object} map[string]string "Customer not found"
// @Router /customers/{customerID} [get]
func (h *customerHandler) getCustomer(c *gin.Context) {
	customerID := c.Param("customerID")

	customer, err := h.customerService.GetCustomerByID(c.Request.Context(), customerID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch customer")
		return
	}

	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}

// registerCustomerRoutes wires the customer endpoints into the router group.
func registerCustomerRoutes(rg *gin.RouterGroup, customerService portssvc.CustomerSvcFacade) {
	h := newCustomerHandler(customerService)
	rg.POST("/customers", h.createCustomer)
	rg.GET("/customers/:customerID", h.getCustomer)
}
