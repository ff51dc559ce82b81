package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ledgerlens/internal/domain"
)

// ReportRepository implements usecase.ReportStore using PostgreSQL. Rows are
// stored as a JSONB document: runs are written once and read back whole for
// bulk inspection, never queried per row.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Save stores one finished aggregation run.
func (r *ReportRepository) Save(ctx context.Context, run *domain.ReportRun) error {
	rows, err := json.Marshal(run.Rows)
	if err != nil {
		return fmt.Errorf("encoding report rows: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO report_runs (
			id, from_date, to_date, account_codes, account_ids,
			source_type, row_count, warnings, rows, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		run.ID, run.FromDate, run.ToDate, run.AccountCodes, run.AccountIDs,
		run.SourceType, run.RowCount, run.Warnings, rows, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting report run: %w", err)
	}
	return nil
}

// Get retrieves a run by id.
func (r *ReportRepository) Get(ctx context.Context, id string) (*domain.ReportRun, error) {
	run := &domain.ReportRun{}
	var rows []byte

	err := r.pool.QueryRow(ctx, `
		SELECT id, from_date, to_date, account_codes, account_ids,
		       source_type, row_count, warnings, rows, created_at
		FROM report_runs
		WHERE id = $1`,
		id,
	).Scan(
		&run.ID, &run.FromDate, &run.ToDate, &run.AccountCodes, &run.AccountIDs,
		&run.SourceType, &run.RowCount, &run.Warnings, &rows, &run.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("querying report run: %w", err)
	}

	if err := json.Unmarshal(rows, &run.Rows); err != nil {
		return nil, fmt.Errorf("decoding report rows: %w", err)
	}
	return run, nil
}
