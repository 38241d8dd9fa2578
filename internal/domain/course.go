package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CourseStatus represents the summary lifecycle state of a course
type CourseStatus string

// Possible course status values. A course starts out pending, moves to
// completed when a summary has been generated for it, and to finalized
// once a human has reviewed and accepted the summary.
const (
	CourseStatusPending   CourseStatus = "pending"
	CourseStatusCompleted CourseStatus = "completed"
	CourseStatusFinalized CourseStatus = "finalized"
)

// Common validation errors for Course
var (
	ErrEmptyCourseID          = errors.New("course ID cannot be empty")
	ErrEmptyCourseUserID      = errors.New("course user ID cannot be empty")
	ErrEmptyCourseTitle       = errors.New("course title cannot be empty")
	ErrEmptyCourseDescription = errors.New("course description cannot be empty")
	ErrInvalidCourseStatus    = errors.New("invalid course status")
	ErrCourseStatusTransition = errors.New("invalid course status transition")
)

// Course represents an online course owned by a user. The description is
// the source text for summary generation; Summary holds the generated
// result once a summarization job has completed.
type Course struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Summary     string       `json:"summary,omitempty"`
	Status      CourseStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewCourse creates a new Course with the given owner, title and description.
// It generates a new UUID for the course ID, sets the status to pending,
// and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewCourse(userID uuid.UUID, title, description string) (*Course, error) {
	course := &Course{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      CourseStatusPending,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := course.Validate(); err != nil {
		return nil, err
	}

	return course, nil
}

// Validate checks if the Course has valid data.
// Returns an error if any field fails validation.
func (c *Course) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCourseID
	}

	if c.UserID == uuid.Nil {
		return ErrEmptyCourseUserID
	}

	if c.Title == "" {
		return ErrEmptyCourseTitle
	}

	if c.Description == "" {
		return ErrEmptyCourseDescription
	}

	if !isValidCourseStatus(c.Status) {
		return ErrInvalidCourseStatus
	}

	return nil
}

// SetSummary records a generated summary on the course and moves it to the
// completed state. Only pending courses accept a generated summary; a later
// regeneration for an already-summarized course overwrites it (last write
// wins, no per-course mutual exclusion).
func (c *Course) SetSummary(summary string) error {
	if c.Status == CourseStatusFinalized {
		return ErrCourseStatusTransition
	}

	c.Summary = summary
	c.Status = CourseStatusCompleted
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// Finalize moves a completed course to the finalized state, optionally
// replacing the summary with a human-edited version. Returns an error if
// the course has no completed summary to finalize.
func (c *Course) Finalize(summary string) error {
	if c.Status != CourseStatusCompleted {
		return ErrCourseStatusTransition
	}

	if summary != "" {
		c.Summary = summary
	}
	c.Status = CourseStatusFinalized
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// isValidCourseStatus checks if the given status is a valid CourseStatus.
func isValidCourseStatus(status CourseStatus) bool {
	switch status {
	case CourseStatusPending, CourseStatusCompleted, CourseStatusFinalized:
		return true
	default:
		return false
	}
}
