package usecase

import (
	"context"
	"fmt"

	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/xero"
)

// BankTransactionExtractor pages through spend and receive money
// transactions. A matching transaction can yield up to two kinds of rows:
// one per matching non-bank line item, plus a synthetic row for the bank
// account side itself when the bank account matches the filter. Both may
// fire for the same transaction.
type BankTransactionExtractor struct {
	api     LedgerAPI
	retrier *RateLimitRetrier
}

// NewBankTransactionExtractor creates a new BankTransactionExtractor.
func NewBankTransactionExtractor(api LedgerAPI, retrier *RateLimitRetrier) *BankTransactionExtractor {
	return &BankTransactionExtractor{api: api, retrier: retrier}
}

// Extract returns normalized rows for bank transactions inside the date range.
func (e *BankTransactionExtractor) Extract(ctx context.Context, in ExtractInput) ([]domain.TransactionRow, error) {
	var wantType string
	switch in.SourceType {
	case "":
	case domain.SourceTypeReceiveMoney:
		wantType = "RECEIVE"
	case domain.SourceTypeSpendMoney:
		wantType = "SPEND"
	default:
		return nil, nil
	}

	where := in.dateWhere() + ` && Status != "DELETED"`

	var rows []domain.TransactionRow
	for page := 1; ; page++ {
		var txns []xero.BankTransaction
		err := e.retrier.Do(ctx, func() error {
			var fetchErr error
			txns, fetchErr = e.api.ListBankTransactions(ctx, xero.Query{
				Where:    where,
				Page:     page,
				PageSize: defaultPageSize,
			})
			return fetchErr
		})
		if err != nil {
			return nil, fmt.Errorf("fetching bank transactions page %d: %w", page, err)
		}

		for _, txn := range txns {
			if wantType != "" && txn.Type != wantType {
				continue
			}
			rows = append(rows, bankTransactionRows(txn, in.Matcher)...)
		}

		if len(txns) < defaultPageSize {
			break
		}
		if page > maxPagesPerEndpoint {
			break
		}
	}
	return rows, nil
}

func bankTransactionRows(txn xero.BankTransaction, matcher *domain.AccountMatcher) []domain.TransactionRow {
	var label string
	spend := false
	switch txn.Type {
	case "SPEND":
		label = domain.LabelSpendMoney
		spend = true
	case "RECEIVE":
		label = domain.LabelReceiveMoney
	default:
		return nil
	}

	var rows []domain.TransactionRow

	// Line-item side: money spent debits the line account, money received
	// credits it. The bank account is the other half of the movement.
	related := txn.BankAccount.Code
	if related != "" && txn.BankAccount.Name != "" {
		related += " - " + txn.BankAccount.Name
	}
	for _, line := range txn.LineItems {
		if !matcher.Matches(line.AccountCode, line.AccountID) {
			continue
		}
		netToAccount := line.LineAmount
		if !spend {
			netToAccount = netToAccount.Neg()
		}

		row := domain.TransactionRow{
			Date:           txn.Date,
			Source:         label,
			ContactName:    domain.StrPtr(txn.Contact.Name),
			Description:    domain.StrPtr(line.Description),
			Reference:      domain.StrPtr(txn.Reference),
			Net:            line.LineAmount,
			Gross:          line.LineAmount.Add(line.TaxAmount),
			VAT:            line.TaxAmount,
			AccountCode:    domain.StrPtr(line.AccountCode),
			RelatedAccount: domain.StrPtr(related),
		}
		row.SetMovement(netToAccount)
		rows = append(rows, row)
	}

	// Bank-account side: emitted only when the bank account itself matches
	// the filter. The movement mirrors the transaction total, and the related
	// account is the first line item's account code.
	if matcher.Matches(txn.BankAccount.Code, txn.BankAccount.AccountID) {
		netToAccount := txn.Total
		if spend {
			netToAccount = netToAccount.Neg()
		}

		var relatedCode *string
		if len(txn.LineItems) > 0 {
			relatedCode = domain.StrPtr(txn.LineItems[0].AccountCode)
		}

		row := domain.TransactionRow{
			Date:           txn.Date,
			Source:         label,
			ContactName:    domain.StrPtr(txn.Contact.Name),
			Reference:      domain.StrPtr(txn.Reference),
			Net:            txn.SubTotal,
			Gross:          txn.SubTotal.Add(txn.TotalTax),
			VAT:            txn.TotalTax,
			AccountCode:    domain.StrPtr(txn.BankAccount.Code),
			AccountName:    domain.StrPtr(txn.BankAccount.Name),
			RelatedAccount: relatedCode,
		}
		row.SetMovement(netToAccount)
		rows = append(rows, row)
	}

	return rows
}
