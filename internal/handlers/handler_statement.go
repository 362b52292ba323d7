package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/retailops/backoffice/internal/core/ports/services"
	"github.com/retailops/backoffice/internal/dto"
	"github.com/retailops/backoffice/internal/middleware"
)

// statementHandler handles HTTP requests for customer statements.
type statementHandler struct {
	statementService portssvc.StatementSvc
}

// newStatementHandler creates a new statementHandler.
func newStatementHandler(statementService portssvc.StatementSvc) *statementHandler {
	return &statementHandler{
		statementService: statementService,
	}
}

// getStatement godoc
// @Summary Get a customer statement
// @Description Replays the customer's invoices in [from, to] into a running-balance statement
// @Tags statements
// @Produce  json
// @Param   customer query string true "Exact customer account name"
// @Param   from query string true "Period start (YYYY-MM-DD)"
// @Param   to query string true "Period end (YYYY-MM-DD)"
// @Param   includeAging query bool false "Include aging buckets"
// @Success 200 {object} dto.StatementResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 404 {object} map[string]string "Customer not resolved"
// @Router /statements [get]
func (h *statementHandler) getStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	customer := c.Query("customer")
	if customer == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer query parameter is required"})
		return
	}

	var params dto.StatementParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for GetStatement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	if params.To.Before(params.From) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not be before from"})
		return
	}

	// from and to bind at day granularity. The range is inclusive of the end
	// date, so stretch to to the last instant of its day before querying.
	to := params.To.Add(24*time.Hour - time.Nanosecond)

	result, err := h.statementService.GetStatement(c.Request.Context(), customer, params.From, to, params.IncludeAging)
	if err != nil {
		respondServiceError(c, err, "Failed to build statement")
		return
	}

	c.JSON(http.StatusOK, dto.ToStatementResponse(result))
}

// registerStatementRoutes wires the statement endpoint into the router group.
func registerStatementRoutes(rg *gin.RouterGroup, statementService portssvc.StatementSvc) {
	h := newStatementHandler(statementService)
	rg.GET("/statements", h.getStatement)
}
