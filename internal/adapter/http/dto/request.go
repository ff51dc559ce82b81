package dto

import (
	"fmt"
	"time"

	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/usecase"
)

const dateLayout = "2006-01-02"

// RunReportRequest is the tool-invocation payload for one aggregation call.
type RunReportRequest struct {
	FromDate     string   `json:"fromDate"`
	ToDate       string   `json:"toDate"`
	AccountCodes []string `json:"accountCodes,omitempty"`
	AccountIDs   []string `json:"accountIds,omitempty"`
	SourceType   string   `json:"sourceType,omitempty"`
}

// ToUseCaseInput validates the dates and converts to use case input.
func (r *RunReportRequest) ToUseCaseInput() (usecase.ReportInput, error) {
	from, err := time.Parse(dateLayout, r.FromDate)
	if err != nil {
		return usecase.ReportInput{}, fmt.Errorf("invalid fromDate %q: expected YYYY-MM-DD", r.FromDate)
	}
	to, err := time.Parse(dateLayout, r.ToDate)
	if err != nil {
		return usecase.ReportInput{}, fmt.Errorf("invalid toDate %q: expected YYYY-MM-DD", r.ToDate)
	}
	if to.Before(from) {
		return usecase.ReportInput{}, fmt.Errorf("toDate %s precedes fromDate %s", r.ToDate, r.FromDate)
	}
	return usecase.ReportInput{
		From:         from,
		To:           to,
		AccountCodes: r.AccountCodes,
		AccountIDs:   r.AccountIDs,
		SourceType:   domain.SourceType(r.SourceType),
	}, nil
}
