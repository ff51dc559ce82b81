package usecase

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/iho/ledgerlens/internal/xero"
)

// RateLimitRetrier wraps a single remote call with bounded retry on
// rate-limit responses. The wait before each retry is the server's
// retry-after hint (default 60s when absent) plus a fixed safety buffer.
// Every other failure propagates unchanged, as does a rate-limit failure
// once the attempt ceiling is reached.
type RateLimitRetrier struct {
	maxAttempts int
	buffer      time.Duration
	defaultWait time.Duration
	timer       backoff.Timer
	logger      zerolog.Logger
}

// RetrierOption customizes a RateLimitRetrier.
type RetrierOption func(*RateLimitRetrier)

// WithTimer overrides the timer used for retry sleeps. Used by tests.
func WithTimer(t backoff.Timer) RetrierOption {
	return func(r *RateLimitRetrier) { r.timer = t }
}

// NewRateLimitRetrier creates a retrier with the standard attempt ceiling
// and buffer.
func NewRateLimitRetrier(logger zerolog.Logger, opts ...RetrierOption) *RateLimitRetrier {
	r := &RateLimitRetrier{
		maxAttempts: maxFetchAttempts,
		buffer:      rateLimitBuffer,
		defaultWait: defaultRetryAfter,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// rateLimitBackOff replays the wait computed from the most recent rate-limit
// hint. The operation wrapper sets next before the backoff is consulted.
type rateLimitBackOff struct {
	next time.Duration
}

func (b *rateLimitBackOff) NextBackOff() time.Duration { return b.next }
func (b *rateLimitBackOff) Reset()                     {}

// Do executes op, retrying on rate-limit failures per the policy above.
func (r *RateLimitRetrier) Do(ctx context.Context, op func() error) error {
	b := &rateLimitBackOff{}
	attempt := 0

	return backoff.RetryNotifyWithTimer(func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}

		rl, ok := xero.AsRateLimit(err)
		if !ok {
			return backoff.Permanent(err)
		}
		if attempt >= r.maxAttempts {
			return backoff.Permanent(err)
		}

		wait := r.defaultWait
		if rl.RetryAfter > 0 {
			wait = time.Duration(rl.RetryAfter) * time.Second
		}
		b.next = wait + r.buffer

		r.logger.Warn().
			Int("attempt", attempt).
			Dur("wait", b.next).
			Msg("rate limited, backing off")

		return err
	}, backoff.WithContext(b, ctx), nil, r.timer)
}
