package domain

import (
	"github.com/shopspring/decimal"
)

// Product represents a sellable item with tracked stock.
// This is the primary representation used by services.
type Product struct {
	ProductID string          `json:"productID"` // Primary Key (e.g., UUID)
	Code      string          `json:"code"`      // Unique human-facing product code
	Name      string          `json:"name"`      // User-defined name
	Price     decimal.Decimal `json:"price"`     // Current list price; invoice lines snapshot their own price
	StockQty  decimal.Decimal `json:"stockQty"`  // On-hand quantity; fractional units supported
	// WholeUnits marks stock that is effectively tracked in integral units.
	// Fractional requested quantities against such a product are rounded up
	// (ceiling) for both the availability check and the decrement.
	WholeUnits bool `json:"wholeUnits"`
	// Version is the optimistic concurrency token, incremented on every
	// committed update. A stale version at commit time means another writer
	// got there first.
	Version int64 `json:"version"`
	AuditFields
}
