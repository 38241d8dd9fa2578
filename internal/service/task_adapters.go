package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/coursewise/coursewise/internal/domain"
	"github.com/coursewise/coursewise/internal/store"
	"github.com/coursewise/coursewise/internal/task"
)

// CourseReaderAdapter adapts a store.CourseStore to task.CourseReader so the
// task package does not depend on store implementations.
type CourseReaderAdapter struct {
	courses store.CourseStore
}

// NewCourseReaderAdapter creates an adapter implementing task.CourseReader.
func NewCourseReaderAdapter(courses store.CourseStore) *CourseReaderAdapter {
	return &CourseReaderAdapter{courses: courses}
}

// Ensure CourseReaderAdapter implements task.CourseReader
var _ task.CourseReader = (*CourseReaderAdapter)(nil)

// GetCourse implements task.CourseReader.GetCourse
func (a *CourseReaderAdapter) GetCourse(
	ctx context.Context,
	courseID, userID uuid.UUID,
) (*domain.Course, error) {
	return a.courses.GetByID(ctx, courseID, userID)
}

// JobRecorderAdapter implements task.JobRecorder over the course and job
// stores. RecordResult runs the course update and job completion in one
// transaction so a crash cannot leave a completed job without its summary
// on the course, or the reverse.
type JobRecorderAdapter struct {
	db      *sql.DB
	courses store.CourseStore
	jobs    store.SummaryJobStore
	logger  *slog.Logger
}

// NewJobRecorderAdapter creates an adapter implementing task.JobRecorder.
func NewJobRecorderAdapter(
	db *sql.DB,
	courses store.CourseStore,
	jobs store.SummaryJobStore,
	logger *slog.Logger,
) *JobRecorderAdapter {
	if logger == nil {
		logger = slog.Default()
	}

	return &JobRecorderAdapter{
		db:      db,
		courses: courses,
		jobs:    jobs,
		logger:  logger.With(slog.String("component", "job_recorder")),
	}
}

// Ensure JobRecorderAdapter implements task.JobRecorder
var _ task.JobRecorder = (*JobRecorderAdapter)(nil)

// CreateJob implements task.JobRecorder.CreateJob
func (a *JobRecorderAdapter) CreateJob(ctx context.Context, job *domain.SummaryJob) error {
	return a.jobs.Create(ctx, job)
}

// FailJob implements task.JobRecorder.FailJob
func (a *JobRecorderAdapter) FailJob(ctx context.Context, jobID uuid.UUID, message string) error {
	return a.jobs.MarkFailed(ctx, jobID, message)
}

// RecordResult implements task.JobRecorder.RecordResult
func (a *JobRecorderAdapter) RecordResult(
	ctx context.Context,
	course *domain.Course,
	jobID uuid.UUID,
	summary string,
) error {
	err := store.RunInTransaction(ctx, a.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := a.courses.WithTx(tx).Update(ctx, course); err != nil {
			return fmt.Errorf("failed to update course: %w", err)
		}
		if err := a.jobs.WithTx(tx).MarkCompleted(ctx, jobID, summary); err != nil {
			return fmt.Errorf("failed to complete job: %w", err)
		}
		return nil
	})
	if err != nil {
		a.logger.Error("failed to record summary result",
			slog.String("error", err.Error()),
			slog.String("job_id", jobID.String()),
			slog.String("course_id", course.ID.String()))
		return err
	}

	return nil
}
