package dto

import (
	"time"

	"github.com/iho/ledgerlens/internal/domain"
)

// ReportResult is the successful payload inside the tool envelope.
type ReportResult struct {
	Rows       []domain.TransactionRow `json:"rows"`
	HasMore    bool                    `json:"hasMore"`
	NextOffset *int                    `json:"nextOffset"`
	Warnings   []string                `json:"warnings"`
	RunID      *string                 `json:"runId,omitempty"`
}

// ToolResponse is the uniform envelope consumed by the host runtime: success
// carries a result, failure carries a formatted error. Never both.
type ToolResponse struct {
	Result  *ReportResult `json:"result"`
	IsError bool          `json:"isError"`
	Error   *string       `json:"error"`
}

// SuccessResponse wraps an aggregation result in the envelope.
func SuccessResponse(result *domain.AccountTransactionsResult, runID *string) ToolResponse {
	return ToolResponse{
		Result: &ReportResult{
			Rows:       result.Rows,
			HasMore:    result.HasMore,
			NextOffset: result.NextOffset,
			Warnings:   result.Warnings,
			RunID:      runID,
		},
		IsError: false,
	}
}

// FailureResponse wraps a top-level failure in the envelope.
func FailureResponse(message string) ToolResponse {
	return ToolResponse{
		IsError: true,
		Error:   &message,
	}
}

// ReportRunResponse represents a persisted run in API responses.
type ReportRunResponse struct {
	ID           string                  `json:"id"`
	FromDate     string                  `json:"fromDate"`
	ToDate       string                  `json:"toDate"`
	AccountCodes []string                `json:"accountCodes,omitempty"`
	AccountIDs   []string                `json:"accountIds,omitempty"`
	SourceType   string                  `json:"sourceType,omitempty"`
	RowCount     int                     `json:"rowCount"`
	Warnings     []string                `json:"warnings"`
	Rows         []domain.TransactionRow `json:"rows"`
	CreatedAt    time.Time               `json:"createdAt"`
}

// ReportRunFromDomain converts a domain run to a response.
func ReportRunFromDomain(run *domain.ReportRun) *ReportRunResponse {
	return &ReportRunResponse{
		ID:           run.ID,
		FromDate:     run.FromDate,
		ToDate:       run.ToDate,
		AccountCodes: run.AccountCodes,
		AccountIDs:   run.AccountIDs,
		SourceType:   run.SourceType,
		RowCount:     run.RowCount,
		Warnings:     run.Warnings,
		Rows:         run.Rows,
		CreatedAt:    run.CreatedAt,
	}
}

// ErrorResponse represents a transport-level error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
