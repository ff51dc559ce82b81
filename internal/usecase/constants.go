package usecase

import "time"

const (
	// defaultPageSize is the page size for invoices, credit notes and bank
	// transactions.
	defaultPageSize = 100

	// journalPageSize is larger because manual journals arrive in bulk.
	journalPageSize = 1000

	// maxPagesPerEndpoint caps pagination on pathological date ranges.
	maxPagesPerEndpoint = 50

	// maxFetchAttempts bounds rate-limit retries for a single page fetch.
	maxFetchAttempts = 5

	// rateLimitBuffer is added on top of the server's retry-after hint.
	rateLimitBuffer = 2 * time.Second

	// defaultRetryAfter applies when the hint is absent or unparsable.
	defaultRetryAfter = 60 * time.Second

	accountNamesCacheKey = "account-names"
	accountNamesCacheTTL = 10 * time.Minute
)
