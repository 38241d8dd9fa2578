package generation

import "context"

// SummaryGenerator defines the interface for generating course summaries
// from descriptive text. This interface is the seam between the worker
// executor and the external LLM provider.
type SummaryGenerator interface {
	// GenerateSummary produces a summary of the given course description.
	// The returned text is trimmed of surrounding whitespace; a blank
	// result is NOT an error from the generator's point of view, because
	// the call itself succeeded. Callers decide how to surface it.
	//
	// Errors are classified with the sentinels in errors.go:
	// ErrRateLimited and ErrServerError are transient and retried
	// internally up to the attempt cap before being surfaced; everything
	// else wraps ErrGenerationFailed and is not retried.
	GenerateSummary(ctx context.Context, description string) (string, error)
}
