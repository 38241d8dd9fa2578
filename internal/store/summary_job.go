package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/coursewise/coursewise/internal/domain"
)

// SummaryJobStore defines the interface for summary job persistence.
// The worker executor is the only writer; a job row does not exist until
// the worker has started, so readers must tolerate ErrJobNotFound for a
// freshly dispatched job.
type SummaryJobStore interface {
	// Create persists a new pending job. This is the first durable
	// evidence that the job exists.
	Create(ctx context.Context, job *domain.SummaryJob) error

	// GetByID retrieves a job by its ID, scoped to the given owner.
	// Returns ErrJobNotFound if the job does not exist or belongs to a
	// different user.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.SummaryJob, error)

	// MarkCompleted transitions a pending job to completed with its result.
	// The update is guarded on the current status being pending, so a
	// terminal job is never moved backward or re-entered.
	// Returns ErrUpdateFailed if the job is missing or already terminal.
	MarkCompleted(ctx context.Context, id uuid.UUID, result string) error

	// MarkFailed transitions a pending job to failed with a diagnostic
	// message, with the same pending-only guard as MarkCompleted.
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error

	// FailStalePending marks pending jobs older than the given age as
	// failed. Used by the runner's sweep so a crashed worker cannot leave
	// a job visibly pending forever. Returns the number of jobs failed.
	FailStalePending(ctx context.Context, olderThan time.Duration, message string) (int64, error)

	// WithTx returns a new SummaryJobStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) SummaryJobStore
}
