package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Runner executes pipeline tasks one at a time.
type Runner struct {
	timeout time.Duration
}

// NewRunner creates a runner. A zero timeout leaves tasks bounded only by
// the caller's context.
func NewRunner(timeout time.Duration) *Runner {
	return &Runner{timeout: timeout}
}

func (r *Runner) Run(ctx context.Context, task TaskInterface) error {
	task.Start()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	slog.Debug("Task started", "type", string(task.GetType()), "id", task.GetID())

	if err := task.Execute(ctx); err != nil {
		slog.Error("Task execution failed", "type", string(task.GetType()), "id", task.GetID(), "duration", task.GetDuration(), "error", err)
		return fmt.Errorf("%s task failed: %w", task.GetType(), err)
	}

	return nil
}
