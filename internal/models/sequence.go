package models

// InvoiceNumberSequence is the database representation of a per-period invoice
// numbering row. One row per (company, yyyyMM period), created lazily.
type InvoiceNumberSequence struct {
	CompanyID string `json:"companyID"` // Composite PK with PeriodKey
	PeriodKey string `json:"periodKey"` // yyyyMM
	NextValue int64  `json:"nextValue"`
	Version   int64  `json:"version"` // Optimistic concurrency token
}
