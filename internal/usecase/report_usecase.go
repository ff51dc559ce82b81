package usecase

import (
	"context"
	"time"

	"github.com/iho/ledgerlens/internal/domain"
)

// ReportUseCase persists finished aggregation runs for bulk inspection and
// serves them back by id.
type ReportUseCase struct {
	store ReportStore
	idGen IDGenerator
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(store ReportStore, idGen IDGenerator) *ReportUseCase {
	return &ReportUseCase{store: store, idGen: idGen}
}

// SaveRun stores the result of one aggregation and returns the run id.
func (uc *ReportUseCase) SaveRun(ctx context.Context, in ReportInput, result *domain.AccountTransactionsResult) (string, error) {
	run := &domain.ReportRun{
		ID:           uc.idGen.Generate(),
		FromDate:     in.From.Format("2006-01-02"),
		ToDate:       in.To.Format("2006-01-02"),
		AccountCodes: in.AccountCodes,
		AccountIDs:   in.AccountIDs,
		SourceType:   string(in.SourceType),
		RowCount:     len(result.Rows),
		Warnings:     result.Warnings,
		Rows:         result.Rows,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.store.Save(ctx, run); err != nil {
		return "", err
	}
	return run.ID, nil
}

// GetRun retrieves a persisted run by id.
func (uc *ReportUseCase) GetRun(ctx context.Context, id string) (*domain.ReportRun, error) {
	return uc.store.Get(ctx, id)
}
