package domain

import (
	"github.com/shopspring/decimal"
)

// TransactionRow is one normalized ledger line emitted by a source extractor.
// Amount fields follow the double-entry convention: exactly one of Debit/Credit
// is set whenever the net movement toward the account is nonzero, and its
// magnitude equals that movement. Net excludes tax; Gross = Net + VAT.
type TransactionRow struct {
	Date           string           `json:"date"`
	Source         string           `json:"source"`
	ContactName    *string          `json:"contactName"`
	Description    *string          `json:"description"`
	InvoiceNumber  *string          `json:"invoiceNumber"`
	Reference      *string          `json:"reference"`
	Debit          *decimal.Decimal `json:"debit"`
	Credit         *decimal.Decimal `json:"credit"`
	Net            decimal.Decimal  `json:"net"`
	Gross          decimal.Decimal  `json:"gross"`
	VAT            decimal.Decimal  `json:"vat"`
	AccountCode    *string          `json:"accountCode"`
	AccountName    *string          `json:"accountName"`
	RelatedAccount *string          `json:"relatedAccount"`
}

// SetMovement fills Debit or Credit from the signed net movement toward the
// row's account. A zero movement leaves both unset.
func (r *TransactionRow) SetMovement(netToAccount decimal.Decimal) {
	switch {
	case netToAccount.IsPositive():
		d := netToAccount
		r.Debit = &d
	case netToAccount.IsNegative():
		c := netToAccount.Neg()
		r.Credit = &c
	}
}

// AccountTransactionsResult is the aggregate output of one report run.
// Results are exhaustive within the per-endpoint pagination caps, so HasMore
// is always false and NextOffset is always nil.
type AccountTransactionsResult struct {
	Rows       []TransactionRow `json:"rows"`
	HasMore    bool             `json:"hasMore"`
	NextOffset *int             `json:"nextOffset"`
	Warnings   []string         `json:"warnings"`
}

// StrPtr returns a pointer to s, or nil if s is empty.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
