package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/coursewise/coursewise/internal/config"
	"github.com/coursewise/coursewise/internal/domain"
	"github.com/coursewise/coursewise/internal/events"
	"github.com/coursewise/coursewise/internal/store"
)

// Admitter gates summary requests per user. Satisfied by ratelimit.Limiter.
type Admitter interface {
	// Allow admits or rejects one request for the given user.
	Allow(ctx context.Context, userID uuid.UUID) error
}

// SummaryJobReader is the read side of the job store used for polling and
// status queries.
type SummaryJobReader interface {
	// GetByID retrieves a job by ID, scoped to the owner.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.SummaryJob, error)
}

// JobHandle is what a client gets back from a fire-and-forget dispatch:
// the job ID to poll and the status it was dispatched in. At this point no
// job row exists yet; the worker writes it when it picks the job up.
type JobHandle struct {
	JobID  uuid.UUID        `json:"job_id"`
	Status domain.JobStatus `json:"status"`
}

// SummaryService dispatches summary generation jobs and answers status
// queries about them.
type SummaryService interface {
	// RequestSummary admits the request through the rate limiter, verifies
	// the course exists for the owner, and dispatches a generation job.
	// Returns the handle for polling. The rejection is an apperror of kind
	// KindRateLimitExceeded when the quota is exhausted.
	RequestSummary(ctx context.Context, userID, courseID uuid.UUID) (*JobHandle, error)

	// AwaitSummary dispatches a generation job like RequestSummary and then
	// polls the job store until the job reaches a terminal state or the
	// patience budget runs out. On timeout the handle is still returned
	// with ErrAwaitTimedOut: the job keeps running and can be polled later.
	// A failed job returns the job alongside ErrJobFailed.
	AwaitSummary(ctx context.Context, userID, courseID uuid.UUID) (*JobHandle, *domain.SummaryJob, error)

	// GetJobStatus retrieves the current state of a job, scoped to the
	// owner. Returns store.ErrJobNotFound for unknown jobs, including jobs
	// dispatched moments ago whose row the worker has not written yet.
	GetJobStatus(ctx context.Context, jobID, userID uuid.UUID) (*domain.SummaryJob, error)
}

// summaryServiceImpl implements the SummaryService interface
type summaryServiceImpl struct {
	admitter Admitter
	courses  store.CourseStore
	jobs     SummaryJobReader
	emitter  events.EventEmitter

	pollInterval time.Duration
	timeout      time.Duration

	logger *slog.Logger
}

// NewSummaryService creates a new SummaryService.
func NewSummaryService(
	admitter Admitter,
	courses store.CourseStore,
	jobs SummaryJobReader,
	emitter events.EventEmitter,
	cfg config.SummaryConfig,
	logger *slog.Logger,
) (SummaryService, error) {
	if admitter == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "admitter cannot be nil"}
	}
	if courses == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "course store cannot be nil"}
	}
	if jobs == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "job reader cannot be nil"}
	}
	if emitter == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "event emitter cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &summaryServiceImpl{
		admitter:     admitter,
		courses:      courses,
		jobs:         jobs,
		emitter:      emitter,
		pollInterval: time.Duration(cfg.PollIntervalSeconds * float64(time.Second)),
		timeout:      time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:       logger.With(slog.String("component", "summary_service")),
	}, nil
}

// RequestSummary admits, verifies ownership, and dispatches a job.
func (s *summaryServiceImpl) RequestSummary(
	ctx context.Context,
	userID, courseID uuid.UUID,
) (*JobHandle, error) {
	// 1. Admission gate. Checked before anything else so a rejected request
	// does no course lookup and dispatches nothing.
	if err := s.admitter.Allow(ctx, userID); err != nil {
		return nil, err
	}

	// 2. Verify the course exists for this owner.
	if _, err := s.courses.GetByID(ctx, courseID, userID); err != nil {
		return nil, err
	}

	// 3. Dispatch. The job ID is born here; the durable row appears only
	// once a worker starts the job.
	jobID := uuid.New()

	payload := struct {
		JobID    uuid.UUID `json:"job_id"`
		UserID   uuid.UUID `json:"user_id"`
		CourseID uuid.UUID `json:"course_id"`
	}{
		JobID:    jobID,
		UserID:   userID,
		CourseID: courseID,
	}

	event, err := events.NewTaskRequestEvent(events.TaskTypeSummaryGeneration, payload)
	if err != nil {
		s.logger.Error("failed to create summary generation event",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID.String()))
		return nil, &ServiceError{Operation: "request_summary", Message: "failed to create event", Err: err}
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit summary generation event",
			slog.String("error", err.Error()),
			slog.String("job_id", jobID.String()),
			slog.String("course_id", courseID.String()))
		return nil, &ServiceError{Operation: "request_summary", Message: "failed to dispatch job", Err: err}
	}

	s.logger.Info("summary job dispatched",
		slog.String("job_id", jobID.String()),
		slog.String("course_id", courseID.String()),
		slog.String("user_id", userID.String()))

	return &JobHandle{JobID: jobID, Status: domain.JobStatusPending}, nil
}

// AwaitSummary dispatches a job and polls until it settles or the budget
// runs out.
func (s *summaryServiceImpl) AwaitSummary(
	ctx context.Context,
	userID, courseID uuid.UUID,
) (*JobHandle, *domain.SummaryJob, error) {
	handle, err := s.RequestSummary(ctx, userID, courseID)
	if err != nil {
		return nil, nil, err
	}

	job, err := s.pollUntilTerminal(ctx, handle.JobID, userID)
	return handle, job, err
}

// pollUntilTerminal polls the job store at the configured interval until
// the job reaches a terminal state, the budget is spent, or ctx is done.
// A missing job row is not an error here: the worker may not have started.
func (s *summaryServiceImpl) pollUntilTerminal(
	ctx context.Context,
	jobID, userID uuid.UUID,
) (*domain.SummaryJob, error) {
	deadline := time.NewTimer(s.timeout)
	defer deadline.Stop()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		job, err := s.jobs.GetByID(ctx, jobID, userID)
		switch {
		case err == nil && job.Status == domain.JobStatusCompleted:
			return job, nil
		case err == nil && job.Status == domain.JobStatusFailed:
			return job, ErrJobFailed
		case err != nil && !errors.Is(err, store.ErrJobNotFound):
			return nil, fmt.Errorf("failed to poll job status: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			s.logger.Warn("gave up waiting for summary job",
				slog.String("job_id", jobID.String()),
				slog.Duration("timeout", s.timeout))
			return nil, ErrAwaitTimedOut
		case <-ticker.C:
		}
	}
}

// GetJobStatus retrieves the current state of a job for its owner.
func (s *summaryServiceImpl) GetJobStatus(
	ctx context.Context,
	jobID, userID uuid.UUID,
) (*domain.SummaryJob, error) {
	return s.jobs.GetByID(ctx, jobID, userID)
}
