package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewSummaryJob(t *testing.T) {
	t.Parallel() // Enable parallel execution
	jobID := uuid.New()
	userID := uuid.New()
	courseID := uuid.New()

	job, err := NewSummaryJob(jobID, userID, courseID)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if job.ID != jobID {
		t.Errorf("Expected job ID %s, got %s", jobID, job.ID)
	}

	if job.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, job.UserID)
	}

	if job.CourseID != courseID {
		t.Errorf("Expected course ID %s, got %s", courseID, job.CourseID)
	}

	if job.Status != JobStatusPending {
		t.Errorf("Expected status %s, got %s", JobStatusPending, job.Status)
	}

	if job.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	// Test invalid IDs
	_, err = NewSummaryJob(uuid.Nil, userID, courseID)
	if err != ErrEmptyJobID {
		t.Errorf("Expected error %v, got %v", ErrEmptyJobID, err)
	}

	_, err = NewSummaryJob(jobID, uuid.Nil, courseID)
	if err != ErrEmptyJobUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyJobUserID, err)
	}

	_, err = NewSummaryJob(jobID, userID, uuid.Nil)
	if err != ErrEmptyJobCourseID {
		t.Errorf("Expected error %v, got %v", ErrEmptyJobCourseID, err)
	}
}

func TestSummaryJobMarkCompleted(t *testing.T) {
	t.Parallel() // Enable parallel execution
	job, err := NewSummaryJob(uuid.New(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := job.MarkCompleted("a generated summary"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if job.Status != JobStatusCompleted {
		t.Errorf("Expected status %s, got %s", JobStatusCompleted, job.Status)
	}

	if job.Result != "a generated summary" {
		t.Errorf("Expected result to be recorded, got %q", job.Result)
	}

	if !job.IsTerminal() {
		t.Error("Expected completed job to be terminal")
	}

	// Terminal states never move again
	if err := job.MarkCompleted("another summary"); err != ErrJobAlreadyTerminal {
		t.Errorf("Expected error %v, got %v", ErrJobAlreadyTerminal, err)
	}

	if err := job.MarkFailed("late failure"); err != ErrJobAlreadyTerminal {
		t.Errorf("Expected error %v, got %v", ErrJobAlreadyTerminal, err)
	}

	if job.Status != JobStatusCompleted {
		t.Errorf("Expected status to remain %s, got %s", JobStatusCompleted, job.Status)
	}
}

func TestSummaryJobMarkFailed(t *testing.T) {
	t.Parallel() // Enable parallel execution
	job, err := NewSummaryJob(uuid.New(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := job.MarkFailed("provider unavailable"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if job.Status != JobStatusFailed {
		t.Errorf("Expected status %s, got %s", JobStatusFailed, job.Status)
	}

	if job.ErrorMessage != "provider unavailable" {
		t.Errorf("Expected error message to be recorded, got %q", job.ErrorMessage)
	}

	if !job.IsTerminal() {
		t.Error("Expected failed job to be terminal")
	}

	// A failed job cannot later complete
	if err := job.MarkCompleted("too late"); err != ErrJobAlreadyTerminal {
		t.Errorf("Expected error %v, got %v", ErrJobAlreadyTerminal, err)
	}
}

func TestSummaryJobValidate(t *testing.T) {
	t.Parallel() // Enable parallel execution
	job := SummaryJob{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		CourseID: uuid.New(),
		Status:   JobStatusPending,
	}

	if err := job.Validate(); err != nil {
		t.Errorf("Expected valid job, got error %v", err)
	}

	invalid := job
	invalid.Status = JobStatus("running")
	if err := invalid.Validate(); err != ErrInvalidJobStatus {
		t.Errorf("Expected error %v, got %v", ErrInvalidJobStatus, err)
	}
}
