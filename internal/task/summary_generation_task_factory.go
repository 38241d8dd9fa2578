package task

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/coursewise/coursewise/internal/generation"
)

// SummaryGenerationTaskFactory creates SummaryGenerationTask instances with
// their shared dependencies wired in.
type SummaryGenerationTaskFactory struct {
	courses   CourseReader
	jobs      JobRecorder
	generator generation.SummaryGenerator
	logger    *slog.Logger
}

// NewSummaryGenerationTaskFactory creates a new factory for summary
// generation tasks.
func NewSummaryGenerationTaskFactory(
	courses CourseReader,
	jobs JobRecorder,
	generator generation.SummaryGenerator,
	logger *slog.Logger,
) *SummaryGenerationTaskFactory {
	if logger == nil {
		logger = slog.Default()
	}

	return &SummaryGenerationTaskFactory{
		courses:   courses,
		jobs:      jobs,
		generator: generator,
		logger:    logger.With(slog.String("component", "summary_generation_task_factory")),
	}
}

// CreateTask creates a new SummaryGenerationTask for the given dispatch
// identifiers.
func (f *SummaryGenerationTaskFactory) CreateTask(jobID, userID, courseID uuid.UUID) (Task, error) {
	return NewSummaryGenerationTask(
		jobID,
		userID,
		courseID,
		f.courses,
		f.jobs,
		f.generator,
		f.logger,
	)
}
