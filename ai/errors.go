package ai

import (
	"context"
	"errors"
)

var (
	// ErrInvalidInput indicates the service rejected the input itself
	// (malformed payload, unsupported format). Permanent: retrying the
	// same input cannot succeed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited indicates the service throttled the request.
	// Transient: eligible for retry with backoff.
	ErrRateLimited = errors.New("rate limited")
)

// IsTransient reports whether an external-service error is worth
// retrying. Input rejections and context cancellation are permanent;
// everything else from a network-bound service defaults to transient,
// since rate limits and connection failures are the common case.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidInput) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}
