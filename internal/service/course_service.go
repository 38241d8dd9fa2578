// Package service contains the application's use-case layer: course
// management, summary job dispatch, and the polling client that waits on a
// dispatched job. Store sentinel errors pass through unchanged so callers
// can match them with errors.Is.
package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/coursewise/coursewise/internal/domain"
	"github.com/coursewise/coursewise/internal/store"
)

// CourseService provides course-related operations.
type CourseService interface {
	// CreateCourse creates a new course for the given owner.
	CreateCourse(ctx context.Context, userID uuid.UUID, title, description string) (*domain.Course, error)

	// GetCourse retrieves a course by ID, scoped to the owner.
	// Returns store.ErrCourseNotFound if it does not exist for the owner.
	GetCourse(ctx context.Context, courseID, userID uuid.UUID) (*domain.Course, error)

	// FinalizeSummary moves a completed course to finalized, optionally
	// replacing the summary with a human-edited version.
	// Returns domain.ErrCourseStatusTransition if the course has no
	// completed summary to finalize.
	FinalizeSummary(ctx context.Context, courseID, userID uuid.UUID, summary string) (*domain.Course, error)
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	db      *sql.DB
	courses store.CourseStore
	logger  *slog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(
	db *sql.DB,
	courses store.CourseStore,
	logger *slog.Logger,
) (CourseService, error) {
	if db == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if courses == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "course store cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &courseServiceImpl{
		db:      db,
		courses: courses,
		logger:  logger.With(slog.String("component", "course_service")),
	}, nil
}

// CreateCourse creates a new pending course for the owner.
func (s *courseServiceImpl) CreateCourse(
	ctx context.Context,
	userID uuid.UUID,
	title, description string,
) (*domain.Course, error) {
	course, err := domain.NewCourse(userID, title, description)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.courses.WithTx(tx).Create(ctx, course)
	})
	if err != nil {
		s.logger.Error("failed to create course",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	s.logger.Info("course created",
		slog.String("course_id", course.ID.String()),
		slog.String("user_id", userID.String()))
	return course, nil
}

// GetCourse retrieves a course by ID, scoped to the owner.
func (s *courseServiceImpl) GetCourse(
	ctx context.Context,
	courseID, userID uuid.UUID,
) (*domain.Course, error) {
	return s.courses.GetByID(ctx, courseID, userID)
}

// FinalizeSummary moves a completed course to finalized. The read, the
// domain transition, and the write share a transaction so two concurrent
// finalizations cannot both observe the completed state.
func (s *courseServiceImpl) FinalizeSummary(
	ctx context.Context,
	courseID, userID uuid.UUID,
	summary string,
) (*domain.Course, error) {
	var course *domain.Course

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCourses := s.courses.WithTx(tx)

		var err error
		course, err = txCourses.GetByID(ctx, courseID, userID)
		if err != nil {
			return err
		}

		if err := course.Finalize(summary); err != nil {
			return err
		}

		return txCourses.Update(ctx, course)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("course summary finalized",
		slog.String("course_id", courseID.String()),
		slog.String("user_id", userID.String()))
	return course, nil
}
