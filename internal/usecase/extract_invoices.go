package usecase

import (
	"context"
	"fmt"

	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/xero"
)

// InvoiceExtractor pages through sales and purchase invoices and emits one
// normalized row per matching line item.
//
// Double-entry convention: a purchase invoice (ACCPAY) debits the line's
// expense account, a sales invoice (ACCREC) credits it.
type InvoiceExtractor struct {
	api     LedgerAPI
	retrier *RateLimitRetrier
}

// NewInvoiceExtractor creates a new InvoiceExtractor.
func NewInvoiceExtractor(api LedgerAPI, retrier *RateLimitRetrier) *InvoiceExtractor {
	return &InvoiceExtractor{api: api, retrier: retrier}
}

// Extract returns normalized rows for invoices inside the date range.
func (e *InvoiceExtractor) Extract(ctx context.Context, in ExtractInput) ([]domain.TransactionRow, error) {
	if in.SourceType != "" &&
		in.SourceType != domain.SourceTypeSalesInvoice &&
		in.SourceType != domain.SourceTypePurchaseInvoice {
		return nil, nil
	}

	where := in.dateWhere() + ` && Status != "DRAFT" && Status != "DELETED"`

	var rows []domain.TransactionRow
	for page := 1; ; page++ {
		var invoices []xero.Invoice
		err := e.retrier.Do(ctx, func() error {
			var fetchErr error
			invoices, fetchErr = e.api.ListInvoices(ctx, xero.Query{
				Where:    where,
				Page:     page,
				PageSize: defaultPageSize,
			})
			return fetchErr
		})
		if err != nil {
			return nil, fmt.Errorf("fetching invoices page %d: %w", page, err)
		}

		for _, inv := range invoices {
			if in.SourceType != "" && inv.Type != string(in.SourceType) {
				continue
			}
			rows = append(rows, invoiceRows(inv, in.Matcher)...)
		}

		if len(invoices) < defaultPageSize {
			break
		}
		if page > maxPagesPerEndpoint {
			break
		}
	}
	return rows, nil
}

func invoiceRows(inv xero.Invoice, matcher *domain.AccountMatcher) []domain.TransactionRow {
	var label string
	debitToLineAccount := false
	switch inv.Type {
	case string(domain.SourceTypePurchaseInvoice):
		label = domain.LabelPurchaseInvoice
		debitToLineAccount = true
	case string(domain.SourceTypeSalesInvoice):
		label = domain.LabelSalesInvoice
	default:
		return nil
	}

	var rows []domain.TransactionRow
	for _, line := range inv.LineItems {
		if !matcher.Matches(line.AccountCode, line.AccountID) {
			continue
		}
		netToAccount := line.LineAmount
		if !debitToLineAccount {
			netToAccount = netToAccount.Neg()
		}

		row := domain.TransactionRow{
			Date:          inv.Date,
			Source:        label,
			ContactName:   domain.StrPtr(inv.Contact.Name),
			Description:   domain.StrPtr(line.Description),
			InvoiceNumber: domain.StrPtr(inv.InvoiceNumber),
			Reference:     domain.StrPtr(inv.Reference),
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
