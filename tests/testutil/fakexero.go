// Package testutil provides an in-process fake of the accounting API for
// integration tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/iho/ledgerlens/internal/xero"
)

// FakeLedger serves the listing endpoints the aggregation engine reads from.
// Fixtures are returned on page 1; later pages are empty, matching the
// single-page shape of small datasets.
type FakeLedger struct {
	mu sync.Mutex

	Invoices         []xero.Invoice
	CreditNotes      []xero.CreditNote
	BankTransactions []xero.BankTransaction
	ManualJournals   []xero.ManualJournal
	Accounts         []xero.Account

	// FailPaths[path] > 0 makes the next requests to path return 500.
	FailPaths map[string]int
	// RateLimitPaths[path] > 0 makes the next requests return 429 with the
	// given Retry-After value in seconds.
	RateLimitPaths map[string]int
	RetryAfter     int

	requests map[string]int
}

// NewFakeLedger creates an empty FakeLedger.
func NewFakeLedger() *FakeLedger {
	return &FakeLedger{
		FailPaths:      map[string]int{},
		RateLimitPaths: map[string]int{},
		RetryAfter:     1,
		requests:       map[string]int{},
	}
}

// Server starts the fake over httptest and registers cleanup with t.
func (f *FakeLedger) Server(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(server.Close)
	return server
}

// Requests returns how many times path was hit.
func (f *FakeLedger) Requests(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[path]
}

func (f *FakeLedger) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	path := r.URL.Path
	f.requests[path]++

	if f.RateLimitPaths[path] > 0 {
		f.RateLimitPaths[path]--
		f.mu.Unlock()
		w.Header().Set("Retry-After", strconv.Itoa(f.RetryAfter))
		w.WriteHeader(http.StatusTooManyRequests)
		return
	}
	if f.FailPaths[path] > 0 {
		f.FailPaths[path]--
		f.mu.Unlock()
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	f.mu.Unlock()

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	firstPage := page <= 1

	var payload any
	switch path {
	case "/Invoices":
		out := struct {
			Invoices []xero.Invoice `json:"Invoices"`
		}{}
		if firstPage {
			out.Invoices = f.Invoices
		}
		payload = out
	case "/CreditNotes":
		out := struct {
			CreditNotes []xero.CreditNote `json:"CreditNotes"`
		}{}
		if firstPage {
			out.CreditNotes = f.CreditNotes
		}
		payload = out
	case "/BankTransactions":
		out := struct {
			BankTransactions []xero.BankTransaction `json:"BankTransactions"`
		}{}
		if firstPage {
			out.BankTransactions = f.BankTransactions
		}
		payload = out
	case "/ManualJournals":
		out := struct {
			ManualJournals []xero.ManualJournal `json:"ManualJournals"`
		}{}
		if firstPage {
			out.ManualJournals = f.ManualJournals
		}
		payload = out
	case "/Accounts":
		payload = struct {
			Accounts []xero.Account `json:"Accounts"`
		}{Accounts: f.Accounts}
	default:
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
