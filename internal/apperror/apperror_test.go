package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessageByKind(t *testing.T) {
	t.Parallel()

	courseID := uuid.New()
	jobID := uuid.New()

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "rate limit exceeded carries quota context",
			err: &Error{
				Kind:        KindRateLimitExceeded,
				MaxRequests: 3,
				WindowHours: 1,
			},
			want: "rate limit exceeded: max 3 requests per 1 hours",
		},
		{
			name: "generator rate limited",
			err:  New(KindGeneratorRateLimited),
			want: "generation provider rate limit exceeded",
		},
		{
			name: "generator server error",
			err:  New(KindGeneratorServerError),
			want: "generation provider server error",
		},
		{
			name: "generator fatal",
			err:  New(KindGeneratorFatal),
			want: "generation request failed",
		},
		{
			name: "summary empty names the course",
			err:  &Error{Kind: KindSummaryEmpty, CourseID: courseID},
			want: fmt.Sprintf("summary for course %s is empty", courseID),
		},
		{
			name: "job not found names the job",
			err:  &Error{Kind: KindJobNotFound, JobID: jobID},
			want: fmt.Sprintf("summary job %s not found", jobID),
		},
		{
			name: "course not found without id",
			err:  New(KindCourseNotFound),
			want: "course not found",
		},
		{
			name: "unknown kind falls back to internal error",
			err:  New(Kind("mystery")),
			want: "internal error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestErrorWrapsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := Wrap(KindGeneratorServerError, cause)

	assert.Contains(t, err.Error(), "generation provider server error")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestErrorsIsMatchesByKind(t *testing.T) {
	t.Parallel()

	// Two values of the same kind match regardless of structured fields
	full := &Error{
		Kind:        KindRateLimitExceeded,
		UserID:      uuid.New(),
		MaxRequests: 3,
		WindowHours: 1,
	}
	assert.ErrorIs(t, full, New(KindRateLimitExceeded))

	// Different kinds do not match
	assert.NotErrorIs(t, full, New(KindJobNotFound))

	// Wrapped apperrors still match through fmt.Errorf chains
	wrapped := fmt.Errorf("dispatch failed: %w", New(KindCourseNotFound))
	assert.ErrorIs(t, wrapped, New(KindCourseNotFound))
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	require.Equal(t, KindJobNotFound, KindOf(New(KindJobNotFound)))

	wrapped := fmt.Errorf("outer: %w", New(KindSummaryEmpty))
	assert.Equal(t, KindSummaryEmpty, KindOf(wrapped))

	assert.Equal(t, Kind(""), KindOf(errors.New("plain error")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want int
	}{
		{KindRateLimitExceeded, http.StatusTooManyRequests},
		{KindGeneratorRateLimited, http.StatusTooManyRequests},
		{KindGeneratorServerError, http.StatusBadGateway},
		{KindGeneratorFatal, http.StatusBadGateway},
		{KindSummaryEmpty, http.StatusUnprocessableEntity},
		{KindJobNotFound, http.StatusNotFound},
		{KindCourseNotFound, http.StatusNotFound},
		{Kind("mystery"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, HTTPStatus(tc.kind), "kind %s", tc.kind)
	}
}
