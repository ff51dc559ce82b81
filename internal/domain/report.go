package domain

import "time"

// ReportRun is one persisted aggregation run, stored so results can be
// inspected in bulk after the tool call returns.
type ReportRun struct {
	ID           string
	FromDate     string
	ToDate       string
	AccountCodes []string
	AccountIDs   []string
	SourceType   string
	RowCount     int
	Warnings     []string
	Rows         []TransactionRow
	CreatedAt    time.Time
}
