package task

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// staleJobMessage is recorded on jobs failed by the sweep.
const staleJobMessage = "job exceeded the maximum pending age"

// StaleJobFailer is the slice of the job store the runner needs for its
// sweep of jobs left pending by a crashed or wedged worker.
type StaleJobFailer interface {
	FailStalePending(ctx context.Context, olderThan time.Duration, message string) (int64, error)
}

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int

	// StuckJobAge defines how long a job row may stay pending before the
	// sweep fails it
	StuckJobAge time.Duration

	// StuckJobCheckInterval defines how often to run the sweep.
	// If zero, defaults to 5 minutes
	StuckJobCheckInterval time.Duration
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount:           2,
		QueueSize:             100,
		StuckJobAge:           30 * time.Minute,
		StuckJobCheckInterval: 5 * time.Minute,
	}
}

// TaskRunner manages background task processing. Submit is enqueue-only:
// nothing is persisted until a worker picks the task up and the task writes
// its own job row, so a status query can race the worker and miss the job.
type TaskRunner struct {
	jobStore   StaleJobFailer
	taskChan   chan Task
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     TaskRunnerConfig
	logger     *slog.Logger
	errHandler func(task Task, err error)
}

// NewTaskRunner creates a new TaskRunner. jobStore may be nil, which
// disables the stale-job sweep (used by tests that have no database).
func NewTaskRunner(jobStore StaleJobFailer, config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if config.StuckJobCheckInterval == 0 {
		config.StuckJobCheckInterval = 5 * time.Minute
	}

	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &TaskRunner{
		jobStore:   jobStore,
		taskChan:   make(chan Task, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger.With(slog.String("component", "task_runner")),
		errHandler: func(task Task, err error) {
			logger.Error("task execution failed",
				slog.String("task_id", task.ID().String()),
				slog.String("task_type", task.Type()),
				slog.String("error", err.Error()))
		},
	}
}

// SetErrorHandler allows setting a custom error handler function
func (r *TaskRunner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// Submit adds a task to the in-memory queue. Returns ErrQueueFull when the
// queue has no room; the caller decides whether that is a client error.
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	select {
	case r.taskChan <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start launches the worker pool and the stale-job sweep.
func (r *TaskRunner) Start() error {
	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	if r.jobStore != nil {
		r.wg.Add(1)
		go r.staleJobMonitor()
	}

	return nil
}

// Stop gracefully shuts down the task runner
func (r *TaskRunner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
	close(r.taskChan)
}

// worker processes tasks from the queue
func (r *TaskRunner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", slog.Int("worker_id", id))

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", slog.Int("worker_id", id))
			return

		case t, ok := <-r.taskChan:
			if !ok {
				return
			}
			r.processTask(t, id)
		}
	}
}

// processTask handles execution of a single task. Job row status updates
// are the task's own responsibility; the runner only logs and reports.
func (r *TaskRunner) processTask(t Task, workerID int) {
	ctx := r.ctx
	log := r.logger.With(
		slog.String("task_id", t.ID().String()),
		slog.String("task_type", t.Type()),
		slog.Int("worker_id", workerID),
	)

	log.Info("processing task")

	if err := t.Execute(ctx); err != nil {
		log.Error("task execution failed", slog.String("error", err.Error()))
		r.errHandler(t, err)
		return
	}

	log.Info("task completed")
}

// staleJobMonitor periodically fails job rows that have been pending for
// longer than StuckJobAge, so a crashed worker cannot leave a job visibly
// pending forever.
func (r *TaskRunner) staleJobMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckJobCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			failed, err := r.jobStore.FailStalePending(r.ctx, r.config.StuckJobAge, staleJobMessage)
			if err != nil {
				r.logger.Error("stale job sweep failed", slog.String("error", err.Error()))
				continue
			}
			if failed > 0 {
				r.logger.Warn("failed stale pending jobs", slog.Int64("count", failed))
			}
		}
	}
}
