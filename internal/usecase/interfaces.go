package usecase

import (
	"context"
	"time"

	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/xero"
)

// LedgerAPI is the authenticated remote accounting client the extractors
// read from. Every listing call may fail with *xero.RateLimitError or any
// other transport error.
type LedgerAPI interface {
	ListInvoices(ctx context.Context, q xero.Query) ([]xero.Invoice, error)
	ListCreditNotes(ctx context.Context, q xero.Query) ([]xero.CreditNote, error)
	ListBankTransactions(ctx context.Context, q xero.Query) ([]xero.BankTransaction, error)
	ListManualJournals(ctx context.Context, q xero.Query) ([]xero.ManualJournal, error)
	ListAccounts(ctx context.Context) ([]xero.Account, error)
}

// Authenticator validates the connection to the accounting platform. It runs
// once per aggregation call before any endpoint is queried; its failure is
// fatal to the whole call.
type Authenticator interface {
	Authenticate(ctx context.Context) error
}

// ReportStore persists aggregation runs for later inspection.
type ReportStore interface {
	Save(ctx context.Context, run *domain.ReportRun) error
	Get(ctx context.Context, id string) (*domain.ReportRun, error)
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}
