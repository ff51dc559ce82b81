package xero

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api.xero.com/api.xro/2.0"

// Client calls the accounting API for a single tenant. All listing methods
// accept the shared Query parameters and return one page of results.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tenantID   string
	tokens     TokenSource
	logger     zerolog.Logger
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Client scoped to tenantID, authenticating via tokens.
func NewClient(tenantID string, tokens TokenSource, logger zerolog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		tenantID:   tenantID,
		tokens:     tokens,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListInvoices returns one page of invoices.
func (c *Client) ListInvoices(ctx context.Context, q Query) ([]Invoice, error) {
	var out struct {
		Invoices []Invoice `json:"Invoices"`
	}
	if err := c.get(ctx, "/Invoices", q, &out); err != nil {
		return nil, err
	}
	return out.Invoices, nil
}

// ListCreditNotes returns one page of credit notes.
func (c *Client) ListCreditNotes(ctx context.Context, q Query) ([]CreditNote, error) {
	var out struct {
		CreditNotes []CreditNote `json:"CreditNotes"`
	}
	if err := c.get(ctx, "/CreditNotes", q, &out); err != nil {
		return nil, err
	}
	return out.CreditNotes, nil
}

// ListBankTransactions returns one page of bank transactions.
func (c *Client) ListBankTransactions(ctx context.Context, q Query) ([]BankTransaction, error) {
	var out struct {
		BankTransactions []BankTransaction `json:"BankTransactions"`
	}
	if err := c.get(ctx, "/BankTransactions", q, &out); err != nil {
		return nil, err
	}
	return out.BankTransactions, nil
}

// ListManualJournals returns one page of manual journals.
func (c *Client) ListManualJournals(ctx context.Context, q Query) ([]ManualJournal, error) {
	var out struct {
		ManualJournals []ManualJournal `json:"ManualJournals"`
	}
	if err := c.get(ctx, "/ManualJournals", q, &out); err != nil {
		return nil, err
	}
	return out.ManualJournals, nil
}

// ListAccounts returns the full chart of accounts. The endpoint is not
// paginated.
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	var out struct {
		Accounts []Account `json:"Accounts"`
	}
	if err := c.get(ctx, "/Accounts", Query{}, &out); err != nil {
		return nil, err
	}
	return out.Accounts, nil
}

func (c *Client) get(ctx context.Context, path string, q Query, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("obtaining access token: %w", err)
	}

	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("building request URL: %w", err)
	}
	params := url.Values{}
	if q.Where != "" {
		params.Set("where", q.Where)
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Order != "" {
		params.Set("order", q.Order)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Xero-Tenant-Id", c.tenantID)
	req.Header.Set("Accept", "application/json")
	if !q.ModifiedAfter.IsZero() {
		req.Header.Set("If-Modified-Since", q.ModifiedAfter.UTC().Format(time.RFC1123))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("GET %s: reading body: %w", path, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := 0
		if v := resp.Header.Get("Retry-After"); v != "" {
			if secs, convErr := strconv.Atoi(v); convErr == nil {
				retryAfter = secs
			}
		}
		c.logger.Warn().Str("path", path).Int("retry_after", retryAfter).Msg("rate limited")
		return &RateLimitError{StatusCode: resp.StatusCode, RetryAfter: retryAfter}

	case resp.StatusCode == http.StatusNotModified:
		// No records modified since the hint; decode target stays empty.
		return nil

	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("GET %s: decoding response: %w", path, err)
	}
	return nil
}
