package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/retailops/backoffice/internal/core/ports/services"
	"github.com/retailops/backoffice/internal/dto"
	"github.com/retailops/backoffice/internal/middleware"
)

// productHandler handles HTTP requests related to product master data.
type productHandler struct {
	productService portssvc.ProductSvcFacade
}

// newProductHandler creates a new productHandler.
func newProductHandler(productService portssvc.ProductSvcFacade) *productHandler {
	return &productHandler{
		productService: productService,
	}
}

// createProduct godoc
// @Summary Create a product
// @Tags products
// @Accept  json
// @Produce  json
// @Param   product body dto.CreateProductRequest true "Product to create"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 409 {object} map[string]string "Duplicate product code"
// @Router /products [post]
func (h *productHandler) createProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for CreateProduct", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), req, issuerFromRequest(c))
	if err != nil {
		respondServiceError(c, err, "Failed to create product")
		return
	}

	logger.Info("Product created", slog.String("product_id", product.ProductID), slog.String("code", product.Code))
	c.JSON(http.StatusCreated, dto.ToProductResponse(product))
}

// getProduct godoc
// @Summary Get a product
// @Tags products
// @Produce  json
// @Param   productID path string true "Product ID"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{productID} [get]
func (h *productHandler) getProduct(c *gin.Context) {
	productID := c.Param("productID")

	product, err := h.productService.GetProductByID(c.Request.Context(), productID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}

// listProducts godoc
// @Summary List products
// @Tags products
// @Produce  json
// @Success 200 {array} dto.ProductResponse
// @Router /products [get]
func (h *productHandler) listProducts(c *gin.Context) {
	products, err := h.productService.ListProducts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list products")
		return
	}

	c.JSON(http.StatusOK, dto.ToProductResponses(products))
}

// receiveStock godoc
// @Summary Post a stock receipt
// @Description Increases on-hand quantity under the optimistic version guard
// @Tags products
// @Accept  json
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   receipt body dto.ReceiveStockRequest true "Quantity received"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} map[string]string "Invalid quantity"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 409 {object} map[string]string "Version conflict after retries"
// @Router /products/{productID}/receipts [post]
func (h *productHandler) receiveStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")

	var req dto.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for ReceiveStock", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	product, err := h.productService.ReceiveStock(c.Request.Context(), productID, req.Quantity, issuerFromRequest(c))
	if err != nil {
		respondServiceError(c, err, "Failed to post stock receipt")
		return
	}

	logger.Info("Stock received", slog.String("product_id", product.ProductID), slog.String("quantity", req.Quantity.String()))
	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}

// registerProductRoutes wires the product endpoints into the router group.
func registerProductRoutes(rg *gin.RouterGroup, productService portssvc.ProductSvcFacade) {
	h := newProductHandler(productService)
	rg.POST("/products", h.createProduct)
	rg.GET("/products", h.listProducts)
	rg.GET("/products/:productID", h.getProduct)
	rg.POST("/products/:productID/receipts", h.receiveStock)
}
