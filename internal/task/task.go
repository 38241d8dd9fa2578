// Package task contains the background job runner and the summary
// generation job it executes. Submission enqueues only; the job row is
// persisted by the job itself as its first step, so the durable record
// appears when the worker starts rather than at dispatch.
package task

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// TaskStatus represents the in-memory state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// ErrQueueFull is returned by Submit when the in-memory queue has no room.
var ErrQueueFull = errors.New("task queue is full, try again later")

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier. For summary generation this
	// doubles as the job ID handed back to the submitting client.
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Payload returns the task data as a byte slice
	Payload() []byte

	// Status returns the current in-memory task status
	Status() TaskStatus

	// Execute runs the task logic
	Execute(ctx context.Context) error
}
