package invoicing

import (
	"fmt"
	"time"

	"github.com/retailops/backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PeriodKey derives the billing-period key (yyyyMM) an invoice number is
// allocated under.
func PeriodKey(asOf time.Time) string {
	return asOf.Format("200601")
}

// FormatInvoiceNumber renders the human-readable invoice number for a period
// and sequence value, e.g. INV-202608-000042.
func FormatInvoiceNumber(periodKey string, next int64) string {
	return fmt.Sprintf("INV-%s-%06d", periodKey, next)
}

// RequiredQuantity returns the stock quantity a requested sale quantity
// actually consumes. Products tracked in whole units consume the ceiling of a
// fractional request, so availability checks and decrements stay conservative.
func RequiredQuantity(product domain.Product, requested decimal.Decimal) decimal.Decimal {
	if product.WholeUnits {
		return requested.Ceil()
	}
	return requested
}

// AgeInDays computes the whole-day age of an invoice at day granularity:
// both instants are truncated to their calendar date before subtracting.
func AgeInDays(issuedAt, today time.Time) int {
	issued := time.Date(issuedAt.Year(), issuedAt.Month(), issuedAt.Day(), 0, 0, 0, 0, time.UTC)
	now := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(now.Sub(issued).Hours() / 24)
}

// AddToAgingBucket accumulates an invoice amount into the bucket for its age.
// Boundaries are inclusive: 30, 60 and 90 day old invoices land in the lower
// bucket.
func AddToAgingBucket(buckets *domain.AgingBuckets, amount decimal.Decimal, ageDays int) {
	switch {
	case ageDays <= 30:
		buckets.Days0To30 = buckets.Days0To30.Add(amount)
	case ageDays <= 60:
		buckets.Days31To60 = buckets.Days31To60.Add(amount)
	case ageDays <= 90:
		buckets.Days61To90 = buckets.Days61To90.Add(amount)
	default:
		buckets.Over90 = buckets.Over90.Add(amount)
	}
}
