package service

import "context"

// LoginThrottle counts failed logins per identifier and blocks further
// attempts once a budget is exhausted.
type LoginThrottle interface {
	// Check returns ErrTooManyAttempts when the identifier is currently blocked.
	Check(ctx context.Context, identifier string) error

	// RecordFailure counts one failed attempt for the identifier.
	RecordFailure(ctx context.Context, identifier string) error

	// Reset clears the failure count, typically after a successful login.
	Reset(ctx context.Context, identifier string) error
}
