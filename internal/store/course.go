package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/coursewise/coursewise/internal/domain"
)

// CourseStore defines the interface for course data persistence.
// All lookups are scoped by owner: a course belonging to a different user
// is indistinguishable from a missing one.
type CourseStore interface {
	// Create saves a new course to the store.
	// Returns validation errors from the domain Course if data is invalid.
	Create(ctx context.Context, course *domain.Course) error

	// GetByID retrieves a course by its ID, scoped to the given owner.
	// Returns ErrCourseNotFound if the course does not exist or belongs
	// to a different user.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Course, error)

	// Update saves changes to an existing course, scoped to the owner.
	// Returns ErrCourseNotFound if the course does not exist for the owner.
	Update(ctx context.Context, course *domain.Course) error

	// WithTx returns a new CourseStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) CourseStore
}
