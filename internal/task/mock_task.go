package task

import (
	"context"

	"github.com/google/uuid"
)

// MockTask is a configurable Task implementation for tests.
type MockTask struct {
	TaskID     uuid.UUID
	TaskType   string
	TaskStatus TaskStatus
	ExecuteFn  func(ctx context.Context) error
}

// NewMockTask creates a MockTask with a fresh ID and the given execute
// function. A nil executeFn succeeds immediately.
func NewMockTask(taskType string, executeFn func(ctx context.Context) error) *MockTask {
	return &MockTask{
		TaskID:     uuid.New(),
		TaskType:   taskType,
		TaskStatus: TaskStatusPending,
		ExecuteFn:  executeFn,
	}
}

// ID returns the task's unique identifier
func (t *MockTask) ID() uuid.UUID { return t.TaskID }

// Type returns the task type identifier
func (t *MockTask) Type() string { return t.TaskType }

// Payload returns the task data as a byte slice
func (t *MockTask) Payload() []byte { return []byte{} }

// Status returns the current in-memory task status
func (t *MockTask) Status() TaskStatus { return t.TaskStatus }

// Execute runs the configured function
func (t *MockTask) Execute(ctx context.Context) error {
	t.TaskStatus = TaskStatusProcessing
	if t.ExecuteFn == nil {
		t.TaskStatus = TaskStatusCompleted
		return nil
	}
	if err := t.ExecuteFn(ctx); err != nil {
		t.TaskStatus = TaskStatusFailed
		return err
	}
	t.TaskStatus = TaskStatusCompleted
	return nil
}
