package dto

import "time"

// AllocateNumberRequest is the payload for standalone invoice number
// allocation (pre-numbering). AsOf defaults to the current time.
type AllocateNumberRequest struct {
	AsOf *time.Time `json:"asOf"`
}

// AllocateNumberResponse returns the allocated invoice number.
type AllocateNumberResponse struct {
	InvoiceNumber string `json:"invoiceNumber"`
}
