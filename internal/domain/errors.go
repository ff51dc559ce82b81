package domain

import "errors"

var (
	// Report errors
	ErrRunNotFound = errors.New("report run not found")

	// Authentication errors
	ErrNoStoredToken        = errors.New("no stored token: run the connect command first")
	ErrAuthenticationFailed = errors.New("authentication against the accounting platform failed")
)
