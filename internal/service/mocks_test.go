package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/coursewise/coursewise/internal/domain"
	"github.com/coursewise/coursewise/internal/events"
	"github.com/coursewise/coursewise/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockCourseStore implements store.CourseStore with function fields.
type mockCourseStore struct {
	CreateFn  func(ctx context.Context, course *domain.Course) error
	GetByIDFn func(ctx context.Context, id, userID uuid.UUID) (*domain.Course, error)
	UpdateFn  func(ctx context.Context, course *domain.Course) error
}

var _ store.CourseStore = (*mockCourseStore)(nil)

func (m *mockCourseStore) Create(ctx context.Context, course *domain.Course) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, course)
	}
	return nil
}

func (m *mockCourseStore) GetByID(
	ctx context.Context,
	id, userID uuid.UUID,
) (*domain.Course, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id, userID)
	}
	return nil, store.ErrCourseNotFound
}

func (m *mockCourseStore) Update(ctx context.Context, course *domain.Course) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, course)
	}
	return nil
}

func (m *mockCourseStore) WithTx(_ *sql.Tx) store.CourseStore {
	return m
}

// mockAdmitter implements Admitter with a function field.
type mockAdmitter struct {
	AllowFn func(ctx context.Context, userID uuid.UUID) error
}

func (m *mockAdmitter) Allow(ctx context.Context, userID uuid.UUID) error {
	if m.AllowFn != nil {
		return m.AllowFn(ctx, userID)
	}
	return nil
}

// mockJobReader implements SummaryJobReader with a function field.
type mockJobReader struct {
	GetByIDFn func(ctx context.Context, id, userID uuid.UUID) (*domain.SummaryJob, error)
}

func (m *mockJobReader) GetByID(
	ctx context.Context,
	id, userID uuid.UUID,
) (*domain.SummaryJob, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id, userID)
	}
	return nil, store.ErrJobNotFound
}

// mockEmitter implements events.EventEmitter, recording emitted events.
type mockEmitter struct {
	emitted []*events.TaskRequestEvent
	err     error
}

var _ events.EventEmitter = (*mockEmitter)(nil)

func (m *mockEmitter) EmitEvent(_ context.Context, event *events.TaskRequestEvent) error {
	if m.err != nil {
		return m.err
	}
	m.emitted = append(m.emitted, event)
	return nil
}
