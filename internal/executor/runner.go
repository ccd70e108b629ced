package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aryankumar/tabmon/internal/metrics"
)

// Task is one check run once per cycle
type Task struct {
	// Name identifies the check, e.g. "tsm"
	Name string

	// Execute collects the check's records. It returns either the complete
	// set or an error.
	Execute func(ctx context.Context) ([]metrics.Record, error)
}

// Result is the outcome of one task in one cycle
type Result struct {
	// CheckName identifies which check this result is from
	CheckName string

	// Records is nil when Error is set
	Records []metrics.Record

	// Error contains any error that occurred during execution (nil if successful)
	Error error

	// Duration is how long the task took to execute
	Duration time.Duration
}

// Runner executes registered tasks one after another in registration order.
// A failing or panicking task never prevents the following tasks from
// running. Tasks are registered once and run on every cycle.
type Runner struct {
	tasks []Task

	// mu protects the tasks slice
	mu sync.Mutex

	logger *slog.Logger

	// running guards against overlapping cycles
	running atomic.Bool
}

// NewRunner creates an empty runner
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		tasks:  make([]Task, 0),
		logger: logger,
	}
}

// Submit registers a task. Names must be unique.
func (r *Runner) Submit(task Task) error {
	if r.running.Load() {
		return fmt.Errorf("runner is running, cannot submit new tasks")
	}

	if task.Name == "" {
		return fmt.Errorf("task must have a name")
	}

	if task.Execute == nil {
		return fmt.Errorf("task must have an execute function")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.tasks {
		if existing.Name == task.Name {
			return fmt.Errorf("task %q already submitted", task.Name)
		}
	}

	r.tasks = append(r.tasks, task)
	r.logger.Debug("task submitted", "check", task.Name, "total_tasks", len(r.tasks))

	return nil
}

// Run executes every task once and returns the results in registration order
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	return r.RunWithCallback(ctx, nil)
}

// RunWithCallback executes every task once. onResult, when set, is called
// with each result as soon as its task finishes and before the next task
// starts. Overlapping runs are rejected.
func (r *Runner) RunWithCallback(ctx context.Context, onResult func(Result)) ([]Result, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("runner is already running")
	}
	defer r.running.Store(false)

	r.mu.Lock()
	tasks := make([]Task, len(r.tasks))
	copy(tasks, r.tasks)
	r.mu.Unlock()

	results := make([]Result, 0, len(tasks))
	for _, task := range tasks {
		result := r.executeTask(ctx, task)
		results = append(results, result)

		if onResult != nil {
			onResult(result)
		}
	}

	r.logger.Debug("cycle completed",
		"total", len(results),
		"successful", CountSuccessful(results),
		"failed", CountFailed(results))

	return results, nil
}

// executeTask runs a single task, turning a panic into an error result
func (r *Runner) executeTask(ctx context.Context, task Task) (result Result) {
	startTime := time.Now()
	result.CheckName = task.Name

	defer func() {
		if p := recover(); p != nil {
			result.Records = nil
			result.Error = fmt.Errorf("check panicked: %v", p)
		}
		result.Duration = time.Since(startTime)
	}()

	if err := ctx.Err(); err != nil {
		result.Error = fmt.Errorf("task cancelled before execution: %w", err)
		return result
	}

	records, err := task.Execute(ctx)
	if err != nil {
		result.Error = err
		return result
	}

	result.Records = records
	return result
}

// TaskNames returns the registered task names in run order
func (r *Runner) TaskNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.tasks))
	for _, t := range r.tasks {
		names = append(names, t.Name)
	}
	return names
}
