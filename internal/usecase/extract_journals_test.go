package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/usecase/mocks"
	"github.com/iho/ledgerlens/internal/xero"
)

func TestManualJournalExtractorSignedLines(t *testing.T) {
	api := mocks.NewMockLedgerAPI()
	api.ListManualJournalsFunc = func(ctx context.Context, q xero.Query) ([]xero.ManualJournal, error) {
		return []xero.ManualJournal{{
			ManualJournalID: "mj-1",
			Narration:       "Monthly depreciation",
			Date:            "2024-02-28",
			Status:          "POSTED",
			JournalLines: []xero.JournalLine{
				{LineAmount: dec("30"), AccountCode: "500"},
				{Description: "Accumulated", LineAmount: dec("-30"), AccountCode: "510"},
			},
		}}, nil
	}

	e := NewManualJournalExtractor(api, testRetrier())
	res, err := e.Extract(context.Background(), testExtractInput(nil, nil, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Rows))
	}
	if res.Truncated || res.Scanned != 1 {
		t.Fatalf("unexpected bookkeeping: truncated=%v scanned=%d", res.Truncated, res.Scanned)
	}

	debit := res.Rows[0]
	if debit.Debit == nil || !debit.Debit.Equal(dec("30")) || debit.Credit != nil {
		t.Fatalf("expected positive line to debit, got %+v", debit)
	}
	// Line without a description falls back to the narration.
	if debit.Description == nil || *debit.Description != "Monthly depreciation" {
		t.Fatalf("expected narration fallback, got %v", debit.Description)
	}

	credit := res.Rows[1]
	if credit.Credit == nil || !credit.Credit.Equal(dec("30")) || credit.Debit != nil {
		t.Fatalf("expected negative line to credit, got %+v", credit)
	}
	if credit.Description == nil || *credit.Description != "Accumulated" {
		t.Fatalf("expected line description, got %v", credit.Description)
	}

	// Unfiltered runs have no non-matching line, so no related account.
	if debit.RelatedAccount != nil || credit.RelatedAccount != nil {
		t.Fatalf("expected nil related accounts when unfiltered, got %v / %v", debit.RelatedAccount, credit.RelatedAccount)
	}
}

func TestManualJournalExtractorRelatedAccount(t *testing.T) {
	api := mocks.NewMockLedgerAPI()
	api.ListManualJournalsFunc = func(ctx context.Context, q xero.Query) ([]xero.ManualJournal, error) {
		return []xero.ManualJournal{{
			Date:   "2024-02-28",
			Status: "POSTED",
			JournalLines: []xero.JournalLine{
				{LineAmount: dec("30"), AccountCode: "500"},
				{LineAmount: dec("-30"), AccountCode: "510"},
			},
		}}, nil
	}

	e := NewManualJournalExtractor(api, testRetrier())
	res, err := e.Extract(context.Background(), testExtractInput([]string{"500"}, nil, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("expected 1 matching row, got %d", len(res.Rows))
	}

	row := res.Rows[0]
	if row.RelatedAccount == nil || *row.RelatedAccount != "510" {
		t.Fatalf("expected related account 510, got %v", row.RelatedAccount)
	}
}

func TestManualJournalExtractorQueryShape(t *testing.T) {
	var gotQuery xero.Query
	api := mocks.NewMockLedgerAPI()
	api.ListManualJournalsFunc = func(ctx context.Context, q xero.Query) ([]xero.ManualJournal, error) {
		gotQuery = q
		return nil, nil
	}

	e := NewManualJournalExtractor(api, testRetrier())
	if _, err := e.Extract(context.Background(), testExtractInput(nil, nil, "")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantWhere := `Date >= DateTime(2024, 01, 01) && Date <= DateTime(2024, 03, 31) && Status != "DRAFT"`
	if gotQuery.Where != wantWhere {
		t.Fatalf("unexpected where clause:\ngot  %q\nwant %q", gotQuery.Where, wantWhere)
	}
	if gotQuery.Order != "Date DESC" {
		t.Fatalf("expected Date DESC order, got %q", gotQuery.Order)
	}
	if gotQuery.PageSize != journalPageSize {
		t.Fatalf("expected page size %d, got %d", journalPageSize, gotQuery.PageSize)
	}
	wantModified := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !gotQuery.ModifiedAfter.Equal(wantModified) {
		t.Fatalf("expected modified-after %v, got %v", wantModified, gotQuery.ModifiedAfter)
	}
}

func TestManualJournalExtractorTruncation(t *testing.T) {
	fullPage := make([]xero.ManualJournal, journalPageSize)
	for i := range fullPage {
		fullPage[i] = xero.ManualJournal{
			Date:         "2024-02-28",
			Status:       "POSTED",
			JournalLines: []xero.JournalLine{{LineAmount: dec("1"), AccountCode: "500"}},
		}
	}

	api := mocks.NewMockLedgerAPI()
	api.ListManualJournalsFunc = func(ctx context.Context, q xero.Query) ([]xero.ManualJournal, error) {
		return fullPage, nil
	}

	e := NewManualJournalExtractor(api, testRetrier())
	res, err := e.Extract(context.Background(), testExtractInput(nil, nil, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Truncated {
		t.Fatal("expected truncation on endless full pages")
	}
	if res.Scanned != (maxPagesPerEndpoint+1)*journalPageSize {
		t.Fatalf("expected %d journals scanned, got %d", (maxPagesPerEndpoint+1)*journalPageSize, res.Scanned)
	}
	if api.Calls("manualjournals") != maxPagesPerEndpoint+1 {
		t.Fatalf("expected %d pages fetched, got %d", maxPagesPerEndpoint+1, api.Calls("manualjournals"))
	}
}

func TestManualJournalExtractorSourceTypeRestriction(t *testing.T) {
	api := mocks.NewMockLedgerAPI()

	e := NewManualJournalExtractor(api, testRetrier())
	res, err := e.Extract(context.Background(), testExtractInput(nil, nil, domain.SourceTypeSpendMoney))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 0 || api.Calls("manualjournals") != 0 {
		t.Fatalf("expected restricted extractor to stay idle, got %d rows, %d calls", len(res.Rows), api.Calls("manualjournals"))
	}
}
