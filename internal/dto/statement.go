package dto

import (
	"time"

	"github.com/retailops/backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatementParams carries the query inputs for a customer statement.
type StatementParams struct {
	From         time.Time `form:"from" time_format:"2006-01-02" time_utc:"1" binding:"required"`
	To           time.Time `form:"to" time_format:"2006-01-02" time_utc:"1" binding:"required"`
	IncludeAging bool      `form:"includeAging"`
}

// StatementLineResponse defines one statement row.
type StatementLineResponse struct {
	Date           time.Time       `json:"date"`
	DocumentNumber string          `json:"documentNumber"`
	DocumentType   string          `json:"documentType"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// AgingResponse defines the aging bucket totals.
type AgingResponse struct {
	Days0To30  decimal.Decimal `json:"days0To30"`
	Days31To60 decimal.Decimal `json:"days31To60"`
	Days61To90 decimal.Decimal `json:"days61To90"`
	Over90     decimal.Decimal `json:"over90"`
}

// StatementResponse defines the full statement payload.
type StatementResponse struct {
	CustomerID     string                  `json:"customerID"`
	CustomerName   string                  `json:"customerName"`
	From           time.Time               `json:"from"`
	To             time.Time               `json:"to"`
	OpeningBalance decimal.Decimal         `json:"openingBalance"`
	Lines          []StatementLineResponse `json:"lines"`
	ClosingBalance decimal.Decimal         `json:"closingBalance"`
	Aging          *AgingResponse          `json:"aging,omitempty"`
}

// ToStatementResponse converts a domain.StatementResult to StatementResponse DTO.
func ToStatementResponse(result *domain.StatementResult) StatementResponse {
	lines := make([]StatementLineResponse, len(result.Lines))
	for i, line := range result.Lines {
		lines[i] = StatementLineResponse{
			Date:           line.Date,
			DocumentNumber: line.DocumentNumber,
			DocumentType:   line.DocumentType,
			Debit:          line.Debit,
			Credit:         line.Credit,
			RunningBalance: line.RunningBalance,
		}
	}

	resp := StatementResponse{
		CustomerID:     result.CustomerID,
		CustomerName:   result.CustomerName,
		From:           result.From,
		To:             result.To,
		OpeningBalance: result.OpeningBalance,
		Lines:          lines,
		ClosingBalance: result.ClosingBalance,
	}
	if result.Aging != nil {
		resp.Aging = &AgingResponse{
			Days0To30:  result.Aging.Days0To30,
			Days31To60: result.Aging.Days31To60,
			Days61To90: result.Aging.Days61To90,
			Over90:     result.Aging.Over90,
		}
	}
	return resp
}
