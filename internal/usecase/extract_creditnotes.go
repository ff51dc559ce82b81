package usecase

import (
	"context"
	"fmt"

	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/xero"
)

// CreditNoteExtractor pages through sales and purchase credit notes. Credit
// notes reverse their invoice counterparts: a sales credit note (ACCRECCREDIT)
// debits the line account, a purchase credit note (ACCPAYCREDIT) credits it.
type CreditNoteExtractor struct {
	api     LedgerAPI
	retrier *RateLimitRetrier
}

// NewCreditNoteExtractor creates a new CreditNoteExtractor.
func NewCreditNoteExtractor(api LedgerAPI, retrier *RateLimitRetrier) *CreditNoteExtractor {
	return &CreditNoteExtractor{api: api, retrier: retrier}
}

// Extract returns normalized rows for credit notes inside the date range.
func (e *CreditNoteExtractor) Extract(ctx context.Context, in ExtractInput) ([]domain.TransactionRow, error) {
	if in.SourceType != "" &&
		in.SourceType != domain.SourceTypeSalesCreditNote &&
		in.SourceType != domain.SourceTypePurchaseCreditNote {
		return nil, nil
	}

	where := in.dateWhere() + ` && Status != "DRAFT" && Status != "DELETED"`

	var rows []domain.TransactionRow
	for page := 1; ; page++ {
		var notes []xero.CreditNote
		err := e.retrier.Do(ctx, func() error {
			var fetchErr error
			notes, fetchErr = e.api.ListCreditNotes(ctx, xero.Query{
				Where:    where,
				Page:     page,
				PageSize: defaultPageSize,
			})
			return fetchErr
		})
		if err != nil {
			return nil, fmt.Errorf("fetching credit notes page %d: %w", page, err)
		}

		for _, note := range notes {
			if in.SourceType != "" && note.Type != string(in.SourceType) {
				continue
			}
			rows = append(rows, creditNoteRows(note, in.Matcher)...)
		}

		if len(notes) < defaultPageSize {
			break
		}
		if page > maxPagesPerEndpoint {
			break
		}
	}
	return rows, nil
}

func creditNoteRows(note xero.CreditNote, matcher *domain.AccountMatcher) []domain.TransactionRow {
	var label string
	debitToLineAccount := false
	switch note.Type {
	case string(domain.SourceTypeSalesCreditNote):
		label = domain.LabelSalesCreditNote
		debitToLineAccount = true
	case string(domain.SourceTypePurchaseCreditNote):
		label = domain.LabelPurchaseCreditNote
	default:
		return nil
	}

	var rows []domain.TransactionRow
	for _, line := range note.LineItems {
		if !matcher.Matches(line.AccountCode, line.AccountID) {
			continue
		}
		netToAccount := line.LineAmount
		if !debitToLineAccount {
			netToAccount = netToAccount.Neg()
		}

		row := domain.TransactionRow{
			Date:          note.Date,
			Source:        label,
			ContactName:   domain.StrPtr(note.Contact.Name),
			Description:   domain.StrPtr(line.Description),
			InvoiceNumber: domain.StrPtr(note.CreditNoteNumber),
			Reference:     domain.StrPtr(note.Reference),
			Net:           line.LineAmount,
			Gross:         line.LineAmount.Add(line.TaxAmount),
			VAT:           line.TaxAmount,
			AccountCode:   domain.StrPtr(line.AccountCode),
		}
		row.SetMovement(netToAccount)
		rows = append(rows, row)
	}
	return rows
}
