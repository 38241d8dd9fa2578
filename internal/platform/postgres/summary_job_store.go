package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/coursewise/coursewise/internal/domain"
	"github.com/coursewise/coursewise/internal/platform/logger"
	"github.com/coursewise/coursewise/internal/store"
)

// PostgresSummaryJobStore implements the store.SummaryJobStore interface
// using a PostgreSQL database as the storage backend.
//
// Terminal-state transitions are guarded in SQL (WHERE status = 'pending'),
// so a completed or failed job can never move backward even under
// duplicate worker executions.
type PostgresSummaryJobStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSummaryJobStore creates a new PostgreSQL implementation of
// the SummaryJobStore interface.
func NewPostgresSummaryJobStore(db store.DBTX, logger *slog.Logger) *PostgresSummaryJobStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSummaryJobStore{
		db:     db,
		logger: logger.With(slog.String("component", "summary_job_store")),
	}
}

// Ensure PostgresSummaryJobStore implements store.SummaryJobStore
var _ store.SummaryJobStore = (*PostgresSummaryJobStore)(nil)

// Create implements store.SummaryJobStore.Create
func (s *PostgresSummaryJobStore) Create(ctx context.Context, job *domain.SummaryJob) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := job.Validate(); err != nil {
		log.Warn("job validation failed during create",
			slog.String("error", err.Error()),
			slog.String("job_id", job.ID.String()))
		return err
	}

	query := `
		INSERT INTO summary_jobs (id, user_id, course_id, status, result, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		job.ID,
		job.UserID,
		job.CourseID,
		job.Status,
		nullableText(job.Result),
		nullableText(job.ErrorMessage),
		job.CreatedAt,
		job.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			// At-least-once dispatch can run the same job twice; the
			// second insert loses and that is fine.
			log.Warn("job row already exists",
				slog.String("job_id", job.ID.String()))
			return store.ErrDuplicate
		}

		log.Error("failed to create summary job",
			slog.String("error", err.Error()),
			slog.String("job_id", job.ID.String()))
		return store.NewStoreError("summary_job", "create", "insert failed", err)
	}

	log.Debug("summary job created",
		slog.String("job_id", job.ID.String()),
		slog.String("user_id", job.UserID.String()))
	return nil
}

// GetByID implements store.SummaryJobStore.GetByID
// Lookups are owner-scoped: a job owned by another user returns
// store.ErrJobNotFound.
func (s *PostgresSummaryJobStore) GetByID(
	ctx context.Context,
	id, userID uuid.UUID,
) (*domain.SummaryJob, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, course_id, status, result, error_message, created_at, updated_at
		FROM summary_jobs
		WHERE id = $1 AND user_id = $2
	`

	var job domain.SummaryJob
	var result, errorMessage sql.NullString
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&job.ID,
		&job.UserID,
		&job.CourseID,
		&job.Status,
		&result,
		&errorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrJobNotFound
		}
		log.Error("failed to get summary job",
			slog.String("error", err.Error()),
			slog.String("job_id", id.String()))
		return nil, store.NewStoreError("summary_job", "get", "query failed", err)
	}

	job.Result = result.String
	job.ErrorMessage = errorMessage.String
	return &job, nil
}

// MarkCompleted implements store.SummaryJobStore.MarkCompleted
func (s *PostgresSummaryJobStore) MarkCompleted(
	ctx context.Context,
	id uuid.UUID,
	result string,
) error {
	return s.finish(ctx, id, domain.JobStatusCompleted, nullableText(result), sql.NullString{})
}

// MarkFailed implements store.SummaryJobStore.MarkFailed
func (s *PostgresSummaryJobStore) MarkFailed(
	ctx context.Context,
	id uuid.UUID,
	message string,
) error {
	return s.finish(ctx, id, domain.JobStatusFailed, sql.NullString{}, nullableText(message))
}

// finish applies a terminal transition guarded on the job still being
// pending.
func (s *PostgresSummaryJobStore) finish(
	ctx context.Context,
	id uuid.UUID,
	status domain.JobStatus,
	result, errorMessage sql.NullString,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE summary_jobs
		SET status = $2, result = $3, error_message = $4, updated_at = $5
		WHERE id = $1 AND status = $6
	`
	res, err := s.db.ExecContext(ctx, query,
		id,
		status,
		result,
		errorMessage,
		time.Now().UTC(),
		domain.JobStatusPending,
	)
	if err != nil {
		log.Error("failed to finish summary job",
			slog.String("error", err.Error()),
			slog.String("job_id", id.String()),
			slog.String("status", string(status)))
		return store.NewStoreError("summary_job", "finish", "update failed", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return store.NewStoreError("summary_job", "finish", "rows affected unavailable", err)
	}
	if rows == 0 {
		// Missing row or already terminal; either way the transition did
		// not happen.
		return store.ErrUpdateFailed
	}

	return nil
}

// FailStalePending implements store.SummaryJobStore.FailStalePending
func (s *PostgresSummaryJobStore) FailStalePending(
	ctx context.Context,
	olderThan time.Duration,
	message string,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE summary_jobs
		SET status = $1, error_message = $2, updated_at = $3
		WHERE status = $4 AND updated_at < $5
	`
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, query,
		domain.JobStatusFailed,
		nullableText(message),
		now,
		domain.JobStatusPending,
		now.Add(-olderThan),
	)
	if err != nil {
		log.Error("failed to sweep stale pending jobs",
			slog.String("error", err.Error()))
		return 0, store.NewStoreError("summary_job", "sweep", "update failed", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, store.NewStoreError("summary_job", "sweep", "rows affected unavailable", err)
	}

	if rows > 0 {
		log.Warn("failed stale pending jobs", slog.Int64("count", rows))
	}
	return rows, nil
}

// WithTx implements store.SummaryJobStore.WithTx
func (s *PostgresSummaryJobStore) WithTx(tx *sql.Tx) store.SummaryJobStore {
	return &PostgresSummaryJobStore{
		db:     tx,
		logger: s.logger,
	}
}
