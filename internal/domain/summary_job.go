package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of a summary job
type JobStatus string

// Possible job status values. A job is pending from the moment the worker
// first persists it and moves exactly once to either completed or failed.
// Terminal states are never left.
const (
	JobStatusPending   JobStatus = "pending"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Common validation errors for SummaryJob
var (
	ErrEmptyJobID         = errors.New("job ID cannot be empty")
	ErrEmptyJobUserID     = errors.New("job user ID cannot be empty")
	ErrEmptyJobCourseID   = errors.New("job course ID cannot be empty")
	ErrInvalidJobStatus   = errors.New("invalid job status")
	ErrJobAlreadyTerminal = errors.New("job is already in a terminal state")
)

// SummaryJob is the durable record of one asynchronous summary generation
// request: who asked, which course, where the work stands, and the result
// once there is one. The job ID is assigned at dispatch time, before the
// worker has written anything, so a status lookup can legitimately miss a
// job that was just submitted.
type SummaryJob struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	CourseID     uuid.UUID `json:"course_id"`
	Status       JobStatus `json:"status"`
	Result       string    `json:"result,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewSummaryJob creates a pending SummaryJob for the given dispatch handle.
// The caller supplies the job ID because the dispatch transport assigns it
// before the worker starts.
func NewSummaryJob(id, userID, courseID uuid.UUID) (*SummaryJob, error) {
	job := &SummaryJob{
		ID:        id,
		UserID:    userID,
		CourseID:  courseID,
		Status:    JobStatusPending,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}

	return job, nil
}

// Validate checks if the SummaryJob has valid data.
func (j *SummaryJob) Validate() error {
	if j.ID == uuid.Nil {
		return ErrEmptyJobID
	}

	if j.UserID == uuid.Nil {
		return ErrEmptyJobUserID
	}

	if j.CourseID == uuid.Nil {
		return ErrEmptyJobCourseID
	}

	if !isValidJobStatus(j.Status) {
		return ErrInvalidJobStatus
	}

	return nil
}

// IsTerminal reports whether the job has reached a state from which no
// further transition occurs.
func (j *SummaryJob) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// MarkCompleted transitions a pending job to completed and records the
// generated summary. Returns ErrJobAlreadyTerminal if the job has already
// reached a terminal state; status never moves backward.
func (j *SummaryJob) MarkCompleted(result string) error {
	if j.IsTerminal() {
		return ErrJobAlreadyTerminal
	}

	j.Status = JobStatusCompleted
	j.Result = result
	j.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkFailed transitions a pending job to failed with a diagnostic message.
// Returns ErrJobAlreadyTerminal if the job has already reached a terminal
// state.
func (j *SummaryJob) MarkFailed(message string) error {
	if j.IsTerminal() {
		return ErrJobAlreadyTerminal
	}

	j.Status = JobStatusFailed
	j.ErrorMessage = message
	j.UpdatedAt = time.Now().UTC()
	return nil
}

// isValidJobStatus checks if the given status is a valid JobStatus.
func isValidJobStatus(status JobStatus) bool {
	switch status {
	case JobStatusPending, JobStatusCompleted, JobStatusFailed:
		return true
	default:
		return false
	}
}
