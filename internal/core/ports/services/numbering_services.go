package services

import (
	"context"
	"time"
)

// NumberingSvc allocates unique, monotonically increasing, human-readable
// invoice numbers per (company, billing period), safe under concurrent callers.
type NumberingSvc interface {
	// Allocate returns the next invoice number for the company's billing
	// period containing asOf. Numbers are guaranteed unique; gaps may occur
	// when an attempt aborts after incrementing the sequence.
	Allocate(ctx context.Context, companyID string, asOf time.Time) (string, error)

	// PeekNextFromExisting derives the next number by scanning the highest
	// existing invoice number with the given prefix. NOT safe under concurrent
	// writers — two callers can compute the same value before either commits.
	// Retained only for single-writer/offline contexts; never used by
	// CreateSale.
	PeekNextFromExisting(ctx context.Context, prefix string) (string, error)
}
