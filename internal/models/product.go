package models

import "github.com/shopspring/decimal"

// Product is the database representation of a sellable item.
// Note: StockQty and Price use a precise decimal type (github.com/shopspring/decimal).
type Product struct {
	ProductID  string          `json:"productID"`  // Primary Key (UUID)
	Code       string          `json:"code"`       // Unique
	Name       string          `json:"name"`       // Not Null
	Price      decimal.Decimal `json:"price"`      // Current list price
	StockQty   decimal.Decimal `json:"stockQty"`   // On-hand quantity
	WholeUnits bool            `json:"wholeUnits"` // Integer-tracked stock flag
	Version    int64           `json:"version"`    // Optimistic concurrency token
	AuditFields
}
