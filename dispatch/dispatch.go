package dispatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// DefaultMaxWorkers bounds the pool when the caller passes a value
// below 1. Call sites in this codebase use 2-4 workers.
const DefaultMaxWorkers = 4

// Task is a named unit of work.
type Task struct {
	Name string
	Run  func(ctx context.Context) (any, error)
}

// Result is the outcome of one task. Exactly one of Value and Err is
// meaningful.
type Result struct {
	Value any
	Err   error
}

// RunAll executes all tasks concurrently on a fixed-size worker pool
// and blocks until every task has finished or failed. Results are
// keyed by task name; completion order is not observable through the
// returned map. A task's error (or recovered panic) lands in its own
// Result and does not cancel or affect sibling tasks. No task has an
// individual timeout: if one hangs, the whole call hangs.
func RunAll(ctx context.Context, tasks []Task, maxWorkers int) (map[string]Result, error) {
	if maxWorkers < 1 {
		maxWorkers = DefaultMaxWorkers
	}

	pool, err := ants.NewPool(maxWorkers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]Result, len(tasks))
	)

	for _, task := range tasks {
		task := task
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			value, err := runGuarded(ctx, task)

			mu.Lock()
			results[task.Name] = Result{Value: value, Err: err}
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			results[task.Name] = Result{Err: fmt.Errorf("submitting task %s: %w", task.Name, submitErr)}
			mu.Unlock()
		}
	}

	wg.Wait()
	return results, nil
}

// runGuarded runs one task, converting a panic into an error so a
// failing task cannot take down the batch.
func runGuarded(ctx context.Context, task Task) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", task.Name, r)
		}
	}()
	return task.Run(ctx)
}
