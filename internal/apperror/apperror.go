// Package apperror defines the application's error taxonomy as a fixed
// enumeration of kinds. Each kind carries its structured context (ids,
// limits) and is rendered to a message by a single formatting function,
// so the same error value can drive logging, HTTP mapping, and tests.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Kind identifies a class of application error.
type Kind string

// The complete set of error kinds surfaced by the summary pipeline.
const (
	// KindRateLimitExceeded means admission was denied by the per-user quota.
	// The caller should retry after the window rolls over.
	KindRateLimitExceeded Kind = "rate_limit_exceeded"

	// KindGeneratorRateLimited means the external generation provider
	// rejected the call for rate-limit reasons. Retried internally;
	// surfaced only after exhausting attempts.
	KindGeneratorRateLimited Kind = "generator_rate_limited"

	// KindGeneratorServerError means the provider failed with a transient
	// server-side error. Retried internally like a rate limit.
	KindGeneratorServerError Kind = "generator_server_error"

	// KindGeneratorFatal means the provider failed in a way that retrying
	// cannot fix (bad request, auth, blocked content).
	KindGeneratorFatal Kind = "generator_fatal"

	// KindSummaryEmpty means generation succeeded but produced no usable
	// content. Distinct from a generator error: the call itself worked.
	KindSummaryEmpty Kind = "summary_empty"

	// KindJobNotFound means a status query named a job that does not exist
	// for the requesting owner. A job belonging to a different owner is
	// indistinguishable from a missing one.
	KindJobNotFound Kind = "job_not_found"

	// KindCourseNotFound means the referenced course does not exist for the
	// requesting owner.
	KindCourseNotFound Kind = "course_not_found"
)

// Error is a structured application error. Fields are populated per kind;
// unset fields are omitted from the formatted message.
type Error struct {
	Kind Kind

	// Identifiers relevant to the failing operation.
	UserID   uuid.UUID
	CourseID uuid.UUID
	JobID    uuid.UUID

	// Rate-limit context, set for KindRateLimitExceeded.
	MaxRequests int
	WindowHours int

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface, formatting the message by kind.
func (e *Error) Error() string {
	msg := formatMessage(e)
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped cause to support errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes errors.Is match two apperror values by kind, so sentinel
// comparisons like errors.Is(err, apperror.New(KindJobNotFound)) work
// regardless of the structured fields.
func (e *Error) Is(target error) bool {
	var appErr *Error
	if !errors.As(target, &appErr) {
		return false
	}
	return e.Kind == appErr.Kind
}

// New creates an Error of the given kind with no additional context.
func New(kind Kind) *Error {
	return &Error{Kind: kind}
}

// Wrap creates an Error of the given kind wrapping an underlying cause.
func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf extracts the Kind of err, or an empty Kind if err is not an
// application error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// formatMessage renders the user-facing message for an error, keyed by kind.
// Structured fields stay on the value and are formatted here in one place.
func formatMessage(e *Error) string {
	switch e.Kind {
	case KindRateLimitExceeded:
		return fmt.Sprintf("rate limit exceeded: max %d requests per %d hours",
			e.MaxRequests, e.WindowHours)
	case KindGeneratorRateLimited:
		return "generation provider rate limit exceeded"
	case KindGeneratorServerError:
		return "generation provider server error"
	case KindGeneratorFatal:
		return "generation request failed"
	case KindSummaryEmpty:
		if e.CourseID != uuid.Nil {
			return fmt.Sprintf("summary for course %s is empty", e.CourseID)
		}
		return "generated summary is empty"
	case KindJobNotFound:
		if e.JobID != uuid.Nil {
			return fmt.Sprintf("summary job %s not found", e.JobID)
		}
		return "summary job not found"
	case KindCourseNotFound:
		if e.CourseID != uuid.Nil {
			return fmt.Sprintf("course %s not found", e.CourseID)
		}
		return "course not found"
	default:
		return "internal error"
	}
}

// HTTPStatus maps an error kind to the HTTP status code used by the API
// layer. Kinds unknown to the mapping fall through to 500.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindRateLimitExceeded, KindGeneratorRateLimited:
		return http.StatusTooManyRequests
	case KindJobNotFound, KindCourseNotFound:
		return http.StatusNotFound
	case KindSummaryEmpty:
		return http.StatusUnprocessableEntity
	case KindGeneratorServerError, KindGeneratorFatal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
