package dto

import (
	"github.com/retailops/backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the payload for creating a product.
type CreateProductRequest struct {
	Code       string          `json:"code" binding:"required"`
	Name       string          `json:"name" binding:"required"`
	Price      decimal.Decimal `json:"price" binding:"required"`
	StockQty   decimal.Decimal `json:"stockQty"`
	WholeUnits bool            `json:"wholeUnits"`
}

// ReceiveStockRequest is the payload for posting a stock receipt.
type ReceiveStockRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// ProductResponse defines the data returned for a product.
type ProductResponse struct {
	ProductID  string          `json:"productID"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	StockQty   decimal.Decimal `json:"stockQty"`
	WholeUnits bool            `json:"wholeUnits"`
	Version    int64           `json:"version"`
}

// ToProductResponse converts a domain.Product to ProductResponse DTO.
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID:  p.ProductID,
		Code:       p.Code,
		Name:       p.Name,
		Price:      p.Price,
		StockQty:   p.StockQty,
		WholeUnits: p.WholeUnits,
		Version:    p.Version,
	}
}

// ToProductResponses converts a slice of domain.Product to []ProductResponse.
func ToProductResponses(products []domain.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(&p)
	}
	return responses
}
