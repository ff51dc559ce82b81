// Package xero is a minimal client for the Xero accounting API, covering the
// listing endpoints the aggregation engine reads from.
package xero

import (
	"time"

	"github.com/shopspring/decimal"
)

// Query holds the listing parameters shared by all paginated endpoints.
type Query struct {
	Where         string
	Page          int
	PageSize      int
	Order         string
	ModifiedAfter time.Time // zero value means no If-Modified-Since header
}

// Contact identifies the counterparty on a document.
type Contact struct {
	ContactID string `json:"ContactID"`
	Name      string `json:"Name"`
}

// LineItem is one line of an invoice, credit note or bank transaction.
type LineItem struct {
	Description string          `json:"Description"`
	LineAmount  decimal.Decimal `json:"LineAmount"`
	TaxAmount   decimal.Decimal `json:"TaxAmount"`
	AccountCode string          `json:"AccountCode"`
	AccountID   string          `json:"AccountID"`
}

// Invoice is a sales (ACCREC) or purchase (ACCPAY) invoice.
type Invoice struct {
	InvoiceID     string     `json:"InvoiceID"`
	Type          string     `json:"Type"` // ACCREC, ACCPAY
	InvoiceNumber string     `json:"InvoiceNumber"`
	Reference     string     `json:"Reference"`
	Date          string     `json:"DateString"` // YYYY-MM-DD
	Status        string     `json:"Status"`
	Contact       Contact    `json:"Contact"`
	LineItems     []LineItem `json:"LineItems"`
}

// CreditNote is a sales (ACCRECCREDIT) or purchase (ACCPAYCREDIT) credit note.
type CreditNote struct {
	CreditNoteID     string     `json:"CreditNoteID"`
	Type             string     `json:"Type"` // ACCRECCREDIT, ACCPAYCREDIT
	CreditNoteNumber string     `json:"CreditNoteNumber"`
	Reference        string     `json:"Reference"`
	Date             string     `json:"DateString"`
	Status           string     `json:"Status"`
	Contact          Contact    `json:"Contact"`
	LineItems        []LineItem `json:"LineItems"`
}

// BankAccountRef identifies the bank account side of a bank transaction.
type BankAccountRef struct {
	AccountID string `json:"AccountID"`
	Code      string `json:"Code"`
	Name      string `json:"Name"`
}

// BankTransaction is a spend or receive money transaction.
type BankTransaction struct {
	BankTransactionID string          `json:"BankTransactionID"`
	Type              string          `json:"Type"` // SPEND, RECEIVE
	Reference         string          `json:"Reference"`
	Date              string          `json:"DateString"`
	Status            string          `json:"Status"`
	Contact           Contact         `json:"Contact"`
	BankAccount       BankAccountRef  `json:"BankAccount"`
	LineItems         []LineItem      `json:"LineItems"`
	SubTotal          decimal.Decimal `json:"SubTotal"`
	TotalTax          decimal.Decimal `json:"TotalTax"`
	Total             decimal.Decimal `json:"Total"`
}

// JournalLine is one balanced side of a manual journal. LineAmount is signed:
// positive amounts are debits, negative amounts credits.
type JournalLine struct {
	Description string          `json:"Description"`
	LineAmount  decimal.Decimal `json:"LineAmount"`
	TaxAmount   decimal.Decimal `json:"TaxAmount"`
	AccountCode string          `json:"AccountCode"`
	AccountID   string          `json:"AccountID"`
}

// ManualJournal is a directly authored set of balanced journal lines.
type ManualJournal struct {
	ManualJournalID string        `json:"ManualJournalID"`
	Narration       string        `json:"Narration"`
	Date            string        `json:"DateString"`
	Status          string        `json:"Status"`
	JournalLines    []JournalLine `json:"JournalLines"`
}

// Account is one entry of the chart of accounts.
type Account struct {
	AccountID string `json:"AccountID"`
	Code      string `json:"Code"`
	Name      string `json:"Name"`
	Type      string `json:"Type"`
	Status    string `json:"Status"`
}
