package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/iho/ledgerlens/internal/xero"
)

// MockLedgerAPI is a mock implementation of usecase.LedgerAPI. Each method
// delegates to its func field when set and returns empty otherwise. Calls
// records every listing invocation by endpoint name.
type MockLedgerAPI struct {
	mu    sync.Mutex
	calls map[string]int

	ListInvoicesFunc         func(ctx context.Context, q xero.Query) ([]xero.Invoice, error)
	ListCreditNotesFunc      func(ctx context.Context, q xero.Query) ([]xero.CreditNote, error)
	ListBankTransactionsFunc func(ctx context.Context, q xero.Query) ([]xero.BankTransaction, error)
	ListManualJournalsFunc   func(ctx context.Context, q xero.Query) ([]xero.ManualJournal, error)
	ListAccountsFunc         func(ctx context.Context) ([]xero.Account, error)
}

func NewMockLedgerAPI() *MockLedgerAPI {
	return &MockLedgerAPI{calls: make(map[string]int)}
}

// Calls returns how many times the named endpoint was listed.
func (m *MockLedgerAPI) Calls(endpoint string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[endpoint]
}

func (m *MockLedgerAPI) record(endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[endpoint]++
}

func (m *MockLedgerAPI) ListInvoices(ctx context.Context, q xero.Query) ([]xero.Invoice, error) {
	m.record("invoices")
	if m.ListInvoicesFunc != nil {
		return m.ListInvoicesFunc(ctx, q)
	}
	return nil, nil
}

func (m *MockLedgerAPI) ListCreditNotes(ctx context.Context, q xero.Query) ([]xero.CreditNote, error) {
	m.record("creditnotes")
	if m.ListCreditNotesFunc != nil {
		return m.ListCreditNotesFunc(ctx, q)
	}
	return nil, nil
}

func (m *MockLedgerAPI) ListBankTransactions(ctx context.Context, q xero.Query) ([]xero.BankTransaction, error) {
	m.record("banktransactions")
	if m.ListBankTransactionsFunc != nil {
		return m.ListBankTransactionsFunc(ctx, q)
	}
	return nil, nil
}

func (m *MockLedgerAPI) ListManualJournals(ctx context.Context, q xero.Query) ([]xero.ManualJournal, error) {
	m.record("manualjournals")
	if m.ListManualJournalsFunc != nil {
		return m.ListManualJournalsFunc(ctx, q)
	}
	return nil, nil
}

func (m *MockLedgerAPI) ListAccounts(ctx context.Context) ([]xero.Account, error) {
	m.record("accounts")
	if m.ListAccountsFunc != nil {
		return m.ListAccountsFunc(ctx)
	}
	return nil, nil
}

// MockAuthenticator is a mock implementation of usecase.Authenticator.
type MockAuthenticator struct {
	AuthenticateFunc func(ctx context.Context) error
}

func NewMockAuthenticator() *MockAuthenticator {
	return &MockAuthenticator{}
}

func (m *MockAuthenticator) Authenticate(ctx context.Context) error {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx)
	}
	return nil
}

// MockCache is a mock implementation of usecase.Cache backed by a map. TTLs
// are ignored.
type MockCache struct {
	mu      sync.RWMutex
	entries map[string][]byte

	GetFunc func(ctx context.Context, key string) ([]byte, error)
	SetFunc func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func NewMockCache() *MockCache {
	return &MockCache{entries: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[key], nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}
