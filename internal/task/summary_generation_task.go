package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/coursewise/coursewise/internal/apperror"
	"github.com/coursewise/coursewise/internal/domain"
	"github.com/coursewise/coursewise/internal/events"
	"github.com/coursewise/coursewise/internal/generation"
	"github.com/coursewise/coursewise/internal/store"
)

// Common errors
var (
	ErrNilCourseReader   = errors.New("course reader cannot be nil")
	ErrNilJobRecorder    = errors.New("job recorder cannot be nil")
	ErrNilGenerator      = errors.New("generator cannot be nil")
	ErrNilLogger         = errors.New("logger cannot be nil")
	ErrEmptyTaskJobID    = errors.New("job ID cannot be empty")
	ErrEmptyTaskUserID   = errors.New("user ID cannot be empty")
	ErrEmptyTaskCourseID = errors.New("course ID cannot be empty")
)

// CourseReader is the slice of the course service the task needs.
type CourseReader interface {
	// GetCourse retrieves a course by ID, scoped to the owner.
	GetCourse(ctx context.Context, courseID, userID uuid.UUID) (*domain.Course, error)
}

// JobRecorder persists job lifecycle transitions. RecordResult must write
// the course summary and the job completion atomically.
type JobRecorder interface {
	// CreateJob persists a new pending job row.
	CreateJob(ctx context.Context, job *domain.SummaryJob) error

	// FailJob marks a pending job as failed with a diagnostic message.
	FailJob(ctx context.Context, jobID uuid.UUID, message string) error

	// RecordResult stores the generated summary on the course and marks the
	// job completed in a single transaction.
	RecordResult(ctx context.Context, course *domain.Course, jobID uuid.UUID, summary string) error
}

// summaryGenerationPayload is the serialized dispatch data for the task.
type summaryGenerationPayload struct {
	JobID    uuid.UUID `json:"job_id"`
	UserID   uuid.UUID `json:"user_id"`
	CourseID uuid.UUID `json:"course_id"`
}

// SummaryGenerationTask implements the Task interface for generating a
// course summary. Its ID is the job ID handed to the client at dispatch.
//
// Execute owns the whole job lifecycle: it writes the pending job row as
// its first step, so until a worker picks the task up there is no durable
// record and status queries legitimately miss it. Every failure path ends
// with the job row marked failed; a job is never abandoned in pending by a
// worker that ran.
type SummaryGenerationTask struct {
	jobID    uuid.UUID
	userID   uuid.UUID
	courseID uuid.UUID

	courses   CourseReader
	jobs      JobRecorder
	generator generation.SummaryGenerator
	logger    *slog.Logger
	status    TaskStatus
}

// NewSummaryGenerationTask creates a summary generation task for the given
// dispatch identifiers.
func NewSummaryGenerationTask(
	jobID, userID, courseID uuid.UUID,
	courses CourseReader,
	jobs JobRecorder,
	generator generation.SummaryGenerator,
	logger *slog.Logger,
) (*SummaryGenerationTask, error) {
	if courses == nil {
		return nil, ErrNilCourseReader
	}
	if jobs == nil {
		return nil, ErrNilJobRecorder
	}
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	if jobID == uuid.Nil {
		return nil, ErrEmptyTaskJobID
	}
	if userID == uuid.Nil {
		return nil, ErrEmptyTaskUserID
	}
	if courseID == uuid.Nil {
		return nil, ErrEmptyTaskCourseID
	}

	return &SummaryGenerationTask{
		jobID:     jobID,
		userID:    userID,
		courseID:  courseID,
		courses:   courses,
		jobs:      jobs,
		generator: generator,
		logger: logger.With(
			slog.String("task_type", events.TaskTypeSummaryGeneration),
			slog.String("job_id", jobID.String()),
			slog.String("course_id", courseID.String()),
		),
		status: TaskStatusPending,
	}, nil
}

// ID returns the job ID this task was dispatched under.
func (t *SummaryGenerationTask) ID() uuid.UUID {
	return t.jobID
}

// Type returns the task type identifier
func (t *SummaryGenerationTask) Type() string {
	return events.TaskTypeSummaryGeneration
}

// Payload returns the task data as a byte slice
func (t *SummaryGenerationTask) Payload() []byte {
	data, err := json.Marshal(summaryGenerationPayload{
		JobID:    t.jobID,
		UserID:   t.userID,
		CourseID: t.courseID,
	})
	if err != nil {
		t.logger.Error("failed to marshal task payload", slog.String("error", err.Error()))
		return []byte{}
	}
	return data
}

// Status returns the current in-memory task status
func (t *SummaryGenerationTask) Status() TaskStatus {
	return t.status
}

// Execute runs the summary generation job.
func (t *SummaryGenerationTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting summary generation job")

	if err := ctx.Err(); err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	// 1. Persist the pending job row. A duplicate means this dispatch was
	// delivered more than once; the existing row wins.
	job, err := domain.NewSummaryJob(t.jobID, t.userID, t.courseID)
	if err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("invalid job: %w", err)
	}
	if err := t.jobs.CreateJob(ctx, job); err != nil {
		if !store.IsDuplicateError(err) {
			t.status = TaskStatusFailed
			return fmt.Errorf("failed to create job record: %w", err)
		}
		t.logger.Warn("job record already exists, continuing")
	}

	// 2. Load the course, scoped to the job's owner. A missing course is a
	// terminal job failure, not a retry.
	course, err := t.courses.GetCourse(ctx, t.courseID, t.userID)
	if err != nil {
		if errors.Is(err, store.ErrCourseNotFound) {
			return t.fail(ctx, &apperror.Error{
				Kind:     apperror.KindCourseNotFound,
				UserID:   t.userID,
				CourseID: t.courseID,
			})
		}
		return t.fail(ctx, fmt.Errorf("failed to load course: %w", err))
	}

	// 3. Generate the summary. The generator retries transient failures
	// internally; any error reaching here is final for this job.
	summary, err := t.generator.GenerateSummary(ctx, course.Description)
	if err != nil {
		return t.fail(ctx, classifyGenerationError(err, t.courseID))
	}

	// 4. A blank summary is a successful call with an unusable result.
	if summary == "" {
		return t.fail(ctx, &apperror.Error{
			Kind:     apperror.KindSummaryEmpty,
			UserID:   t.userID,
			CourseID: t.courseID,
		})
	}

	// 5. Record the result: course summary and job completion commit or
	// roll back together.
	if err := course.SetSummary(summary); err != nil {
		return t.fail(ctx, fmt.Errorf("cannot record summary: %w", err))
	}

	if err := t.jobs.RecordResult(ctx, course, t.jobID, summary); err != nil {
		return t.fail(ctx, err)
	}

	t.status = TaskStatusCompleted
	t.logger.Info("summary generation job completed")
	return nil
}

// fail marks the job row failed with the error's message and returns the
// error. The status write is best effort: if it fails the stale sweep will
// eventually fail the row, and the original error still propagates.
func (t *SummaryGenerationTask) fail(ctx context.Context, cause error) error {
	t.status = TaskStatusFailed

	if err := t.jobs.FailJob(ctx, t.jobID, cause.Error()); err != nil {
		t.logger.Error("failed to mark job as failed",
			slog.String("error", err.Error()),
			slog.String("cause", cause.Error()))
	}

	return cause
}

// classifyGenerationError maps generator errors onto the application error
// taxonomy so the stored failure message names the failure class.
func classifyGenerationError(err error, courseID uuid.UUID) error {
	var kind apperror.Kind
	switch {
	case errors.Is(err, generation.ErrRateLimited):
		kind = apperror.KindGeneratorRateLimited
	case errors.Is(err, generation.ErrServerError):
		kind = apperror.KindGeneratorServerError
	default:
		kind = apperror.KindGeneratorFatal
	}

	return &apperror.Error{Kind: kind, CourseID: courseID, Err: err}
}
