package generation

import "errors"

// Common errors returned by the generation package.
var (
	// ErrRateLimited is returned when the provider rejects a call for
	// rate-limit reasons. Transient: retried with backoff.
	ErrRateLimited = errors.New("generation provider rate limited")

	// ErrServerError is returned for transient provider-side failures
	// (5xx responses). Retried with backoff like a rate limit.
	ErrServerError = errors.New("generation provider server error")

	// ErrGenerationFailed is returned for non-retryable failures: bad
	// requests, authentication problems, blocked content. Propagated
	// immediately without retry.
	ErrGenerationFailed = errors.New("summary generation failed")

	// ErrInvalidConfig is returned when the generator configuration is
	// invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// IsTransient reports whether err belongs to a retryable error class.
func IsTransient(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrServerError)
}
