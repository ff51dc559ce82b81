package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/ledgerlens/internal/domain"
)

// Source names used in warning strings.
const (
	sourceInvoices         = "Invoices"
	sourceCreditNotes      = "Credit Notes"
	sourceBankTransactions = "Bank Transactions"
	sourceManualJournals   = "Manual Journals"
)

// AggregateUseCase assembles the per-account transaction report. It fans out
// to the four source extractors in two concurrency batches, tolerates
// per-source failures as warnings, enriches rows with account names and
// returns them date-descending.
type AggregateUseCase struct {
	auth        Authenticator
	api         LedgerAPI
	retrier     *RateLimitRetrier
	cache       Cache // optional, may be nil
	invoices    *InvoiceExtractor
	creditNotes *CreditNoteExtractor
	bank        *BankTransactionExtractor
	journals    *ManualJournalExtractor
	logger      zerolog.Logger
}

// NewAggregateUseCase creates a new AggregateUseCase. cache may be nil, in
// which case the account directory is fetched on every run.
func NewAggregateUseCase(api LedgerAPI, auth Authenticator, retrier *RateLimitRetrier, cache Cache, logger zerolog.Logger) *AggregateUseCase {
	return &AggregateUseCase{
		auth:        auth,
		api:         api,
		retrier:     retrier,
		cache:       cache,
		invoices:    NewInvoiceExtractor(api, retrier),
		creditNotes: NewCreditNoteExtractor(api, retrier),
		bank:        NewBankTransactionExtractor(api, retrier),
		journals:    NewManualJournalExtractor(api, retrier),
		logger:      logger,
	}
}

// ReportInput are the parameters of one aggregation call.
type ReportInput struct {
	From         time.Time
	To           time.Time
	AccountCodes []string
	AccountIDs   []string
	SourceType   domain.SourceType
}

// Run executes one aggregation. Authentication failure aborts the whole call;
// any single source failing degrades to a warning and an empty row set.
func (uc *AggregateUseCase) Run(ctx context.Context, in ReportInput) (*domain.AccountTransactionsResult, error) {
	if err := uc.auth.Authenticate(ctx); err != nil {
		return nil, fmt.Errorf("authenticating: %w", err)
	}

	ein := ExtractInput{
		From:       in.From,
		To:         in.To,
		Matcher:    domain.NewAccountMatcher(in.AccountCodes, in.AccountIDs),
		SourceType: in.SourceType,
	}

	var (
		invoiceRows, creditRows, bankRows []domain.TransactionRow
		invoiceErr, creditErr, bankErr    error
		names                             map[string]string
		namesErr                          error
		journalRes                        *FetchResult
		journalErr                        error
	)

	// Two fixed batches keep concurrent connections below the remote API's
	// ceiling: first invoices, credit notes and the account directory, then
	// bank transactions and manual journals.
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		invoiceRows, invoiceErr = uc.invoices.Extract(ctx, ein)
	}()
	go func() {
		defer wg.Done()
		creditRows, creditErr = uc.creditNotes.Extract(ctx, ein)
	}()
	go func() {
		defer wg.Done()
		names, namesErr = uc.resolveAccountNames(ctx)
	}()
	wg.Wait()

	wg.Add(2)
	go func() {
		defer wg.Done()
		bankRows, bankErr = uc.bank.Extract(ctx, ein)
	}()
	go func() {
		defer wg.Done()
		journalRes, journalErr = uc.journals.Extract(ctx, ein)
	}()
	wg.Wait()

	var warnings []string
	rows := make([]domain.TransactionRow, 0, len(invoiceRows)+len(creditRows)+len(bankRows))

	collect := func(source string, extracted []domain.TransactionRow, err error) {
		if err != nil {
			uc.logger.Warn().Err(err).Str("source", source).Msg("source extraction failed")
			warnings = append(warnings, fmt.Sprintf("failed to fetch %s: %v", source, err))
			return
		}
		rows = append(rows, extracted...)
	}

	collect(sourceInvoices, invoiceRows, invoiceErr)
	collect(sourceCreditNotes, creditRows, creditErr)
	if namesErr != nil {
		uc.logger.Warn().Err(namesErr).Msg("account name resolution failed")
		warnings = append(warnings, fmt.Sprintf("failed to resolve account names: %v", namesErr))
	}
	collect(sourceBankTransactions, bankRows, bankErr)
	if journalErr != nil {
		collect(sourceManualJournals, nil, journalErr)
	} else {
		rows = append(rows, journalRes.Rows...)
		if journalRes.Truncated {
			warnings = append(warnings, fmt.Sprintf(
				"manual journals truncated after scanning %d journals; narrow the date range for a complete report",
				journalRes.Scanned))
		}
	}

	enrichAccountNames(rows, names)

	// Dates are normalized YYYY-MM-DD, so lexicographic order is date order.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date > rows[j].Date
	})

	return &domain.AccountTransactionsResult{
		Rows:       rows,
		HasMore:    false,
		NextOffset: nil,
		Warnings:   warnings,
	}, nil
}

// enrichAccountNames fills missing account names from the resolved directory
// and appends names to bare related-account codes, matching the
// "code - name" form the bank extractor uses.
func enrichAccountNames(rows []domain.TransactionRow, names map[string]string) {
	if len(names) == 0 {
		return
	}
	for i := range rows {
		row := &rows[i]
		if row.AccountCode != nil && row.AccountName == nil {
			if name, ok := names[*row.AccountCode]; ok {
				row.AccountName = &name
			}
		}
		if row.RelatedAccount != nil && !strings.Contains(*row.RelatedAccount, " - ") {
			if name, ok := names[*row.RelatedAccount]; ok {
				enriched := *row.RelatedAccount + " - " + name
				row.RelatedAccount = &enriched
			}
		}
	}
}
