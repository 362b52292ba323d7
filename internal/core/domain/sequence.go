package domain

// InvoiceNumberSequence holds the next invoice number for one company within
// one billing period (yyyyMM). Rows are created lazily on first allocation in
// a period and guarded by an optimistic version token, so contention is
// naturally partitioned per period.
type InvoiceNumberSequence struct {
	CompanyID string `json:"companyID"`
	PeriodKey string `json:"periodKey"` // yyyyMM
	NextValue int64  `json:"nextValue"`
	Version   int64  `json:"version"` // Optimistic concurrency token
}
