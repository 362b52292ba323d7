package dto

import (
	"github.com/retailops/backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest is the payload for creating a customer account.
type CreateCustomerRequest struct {
	Name string `json:"name" binding:"required"`
}

// CustomerResponse defines the data returned for a customer account.
type CustomerResponse struct {
	CustomerID string          `json:"customerID"`
	Name       string          `json:"name"`
	Balance    decimal.Decimal `json:"balance"`
}

// ToCustomerResponse converts a domain.CustomerAccount to CustomerResponse DTO.
func ToCustomerResponse(c *domain.CustomerAccount) CustomerResponse {
	return CustomerResponse{
		CustomerID: c.CustomerID,
		Name:       c.Name,
		Balance:    c.Balance,
	}
}
