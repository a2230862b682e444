package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrTransientFetch marks a provider failure worth retrying on the next
	// cycle (network errors, 5xx, rate-limit responses).
	ErrTransientFetch = errors.New("transient fetch failure")

	// ErrFatalFetch marks an auth or configuration failure. The pipeline
	// stops new analysis and surfaces it loudly instead of retrying.
	ErrFatalFetch = errors.New("fatal fetch failure")

	// ErrDelivery marks a failed notification send. The value bet stays
	// undelivered and the next cycle retries it.
	ErrDelivery = errors.New("alert delivery failed")
)
