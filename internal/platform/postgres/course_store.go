package postgres

import (
	"database/sql"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/coursewise/coursewise/internal/domain"
	"github.com/coursewise/coursewise/internal/platform/logger"
	"github.com/coursewise/coursewise/internal/store"
)

// PostgresCourseStore implements the store.CourseStore interface using a
// PostgreSQL database as the storage backend.
type PostgresCourseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCourseStore creates a new PostgreSQL implementation of the
// CourseStore interface. The database connection or transaction is
// initialized and managed by the caller. If logger is nil, the default
// logger is used.
func NewPostgresCourseStore(db store.DBTX, logger *slog.Logger) *PostgresCourseStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCourseStore{
		db:     db,
		logger: logger.With(slog.String("component", "course_store")),
	}
}

// Ensure PostgresCourseStore implements store.CourseStore
var _ store.CourseStore = (*PostgresCourseStore)(nil)

// Create implements store.CourseStore.Create
func (s *PostgresCourseStore) Create(ctx context.Context, course *domain.Course) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := course.Validate(); err != nil {
		log.Warn("course validation failed during create",
			slog.String("error", err.Error()),
			slog.String("course_id", course.ID.String()))
		return err
	}

	query := `
		INSERT INTO courses (id, user_id, title, description, summary, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		course.ID,
		course.UserID,
		course.Title,
		course.Description,
		nullableText(course.Summary),
		course.Status,
		course.CreatedAt,
		course.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during course creation",
				slog.String("course_id", course.ID.String()),
				slog.String("user_id", course.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, course.UserID)
		}

		log.Error("failed to create course",
			slog.String("error", err.Error()),
			slog.String("course_id", course.ID.String()))
		return store.NewStoreError("course", "create", "insert failed", err)
	}

	log.Debug("course created",
		slog.String("course_id", course.ID.String()),
		slog.String("user_id", course.UserID.String()))
	return nil
}

// GetByID implements store.CourseStore.GetByID
// Lookups are owner-scoped: a course owned by another user returns
// store.ErrCourseNotFound.
func (s *PostgresCourseStore) GetByID(
	ctx context.Context,
	id, userID uuid.UUID,
) (*domain.Course, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, description, summary, status, created_at, updated_at
		FROM courses
		WHERE id = $1 AND user_id = $2
	`

	var course domain.Course
	var summary sql.NullString
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&course.ID,
		&course.UserID,
		&course.Title,
		&course.Description,
		&summary,
		&course.Status,
		&course.CreatedAt,
		&course.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCourseNotFound
		}
		log.Error("failed to get course",
			slog.String("error", err.Error()),
			slog.String("course_id", id.String()))
		return nil, store.NewStoreError("course", "get", "query failed", err)
	}

	course.Summary = summary.String
	return &course, nil
}

// Update implements store.CourseStore.Update
func (s *PostgresCourseStore) Update(ctx context.Context, course *domain.Course) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := course.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE courses
		SET title = $3, description = $4, summary = $5, status = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		course.ID,
		course.UserID,
		course.Title,
		course.Description,
		nullableText(course.Summary),
		course.Status,
		course.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update course",
			slog.String("error", err.Error()),
			slog.String("course_id", course.ID.String()))
		return store.NewStoreError("course", "update", "update failed", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("course", "update", "rows affected unavailable", err)
	}
	if rows == 0 {
		return store.ErrCourseNotFound
	}

	return nil
}

// WithTx implements store.CourseStore.WithTx
func (s *PostgresCourseStore) WithTx(tx *sql.Tx) store.CourseStore {
	return &PostgresCourseStore{
		db:     tx,
		logger: s.logger,
	}
}

// nullableText maps an empty string to SQL NULL.
func nullableText(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
