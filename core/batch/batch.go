// Package batch - Concurrent execution of independent calculations
// Cases run in parallel; results keep input order and a failing case never
// aborts the others.
package batch

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"steam-toolbox/core/result"
	"steam-toolbox/core/solver"
)

// DefaultWorkers is used when a non-positive worker count is given
const DefaultWorkers = 4

// Case is one named calculation
type Case struct {
	Name    string         `json:"name"`
	Request solver.Request `json:"request"`
}

// Item is the outcome of one case. Exactly one of Result and Err is set,
// unless the case was skipped by cancellation, in which case Err is the
// context error.
type Item struct {
	Index  int                 `json:"index"`
	Name   string              `json:"name"`
	Result *result.SolveResult `json:"result,omitempty"`
	Err    error               `json:"-"`

	// Error is Err rendered for JSON
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// OK reports whether the case produced a result
func (i Item) OK() bool {
	return i.Err == nil && i.Result != nil
}

// SolveFunc runs one request
type SolveFunc func(solver.Request) (*result.SolveResult, error)

// Stats summarises a batch run
type Stats struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	Elapsed   time.Duration `json:"elapsed_ns"`
}

// Runner fans cases out over a bounded number of goroutines
type Runner struct {
	workers int
	solve   SolveFunc
}

// NewRunner creates a runner. A nil solve uses solver.Solve.
func NewRunner(workers int, solve SolveFunc) *Runner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if solve == nil {
		solve = solver.Solve
	}
	return &Runner{workers: workers, solve: solve}
}

// Run solves every case and returns items in input order. Cancelling ctx
// stops scheduling new cases; unscheduled cases carry ctx.Err().
func (r *Runner) Run(ctx context.Context, cases []Case) ([]Item, Stats) {
	start := time.Now()
	items := make([]Item, len(cases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	var succeeded, failed atomic.Int64
	for i := range cases {
		items[i] = Item{Index: i, Name: cases[i].Name}
		if gctx.Err() != nil {
			items[i].Err = gctx.Err()
			items[i].Error = items[i].Err.Error()
			continue
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				items[i].Err = err
				items[i].Error = err.Error()
				return nil
			}
			t0 := time.Now()
			res, err := r.solve(cases[i].Request)
			items[i].Duration = time.Since(t0)
			if err != nil {
				items[i].Err = err
				items[i].Error = err.Error()
				failed.Add(1)
				return nil
			}
			items[i].Result = res
			succeeded.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	stats := Stats{
		Total:     len(cases),
		Succeeded: int(succeeded.Load()),
		Failed:    int(failed.Load()),
		Elapsed:   time.Since(start),
	}
	stats.Skipped = stats.Total - stats.Succeeded - stats.Failed
	return items, stats
}

// Run is a convenience wrapper around NewRunner(workers, solve).Run
func Run(ctx context.Context, cases []Case, solve SolveFunc, workers int) ([]Item, Stats) {
	return NewRunner(workers, solve).Run(ctx, cases)
}
