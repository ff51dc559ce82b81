package xero

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// RateLimitError is returned when the API responds with HTTP 429. RetryAfter
// carries the retry-after header value in seconds; 0 means the header was
// absent or unparsable.
type RateLimitError struct {
	StatusCode int
	RetryAfter int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited (status %d, retry-after %ds)", e.StatusCode, e.RetryAfter)
}

// apiFailure is the structured shape some upstream failures arrive in when
// the payload is a JSON-encoded string rather than a typed error.
type apiFailure struct {
	Response struct {
		StatusCode int               `json:"statusCode"`
		Headers    map[string]string `json:"headers"`
	} `json:"response"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// AsRateLimit extracts a rate-limit condition from err. It first checks for a
// typed *RateLimitError, then falls back to decoding the error text as a JSON
// failure payload. Errors that decode but do not carry status 429, and errors
// that do not decode at all, report false.
func AsRateLimit(err error) (*RateLimitError, bool) {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl, true
	}

	var payload apiFailure
	if jsonErr := json.Unmarshal([]byte(err.Error()), &payload); jsonErr != nil {
		return nil, false
	}
	status := payload.Response.StatusCode
	if status == 0 {
		status = payload.StatusCode
	}
	if status != http.StatusTooManyRequests {
		return nil, false
	}

	retryAfter := 0
	if v, ok := payload.Response.Headers["retry-after"]; ok {
		if secs, convErr := strconv.Atoi(v); convErr == nil {
			retryAfter = secs
		}
	}
	return &RateLimitError{StatusCode: status, RetryAfter: retryAfter}, true
}
