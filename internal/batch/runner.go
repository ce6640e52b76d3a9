// Package batch executes many method requests concurrently with a bounded
// number in flight.
package batch

import (
	"context"
	"time"

	"gostat/domain/stats"
	"gostat/internal"
	"gostat/ports"

	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one request in a batch, in input order
type Outcome struct {
	Index    int
	Method   string
	Envelope *stats.ResultEnvelope
	Err      error
	Duration time.Duration
}

// Runner fans requests out to a dispatcher
type Runner struct {
	dispatcher ports.Dispatcher
	limit      int
	logger     *internal.Logger
}

// NewRunner creates a runner allowing at most limit concurrent executions
func NewRunner(dispatcher ports.Dispatcher, limit int, logger *internal.Logger) *Runner {
	if limit < 1 {
		limit = 1
	}
	return &Runner{dispatcher: dispatcher, limit: limit, logger: logger}
}

// Run executes every request. A failing request is recorded in its Outcome
// and never stops the others. Requests not yet started when ctx is done get
// ctx.Err() as their error, which Run also returns.
func (r *Runner) Run(ctx context.Context, reqs []ports.ExecutionRequest) ([]Outcome, error) {
	outcomes := make([]Outcome, len(reqs))
	var g errgroup.Group
	g.SetLimit(r.limit)

	start := time.Now()
	for i, req := range reqs {
		i, req := i, req
		outcomes[i] =Outcome{Index: i, Method: req.Method}
		if err := ctx.Err(); err != nil {
			outcomes[i].Err = err
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i].Err = err
				return nil
			}
			began := time.Now()
			env, err := r.dispatcher.ExecuteMethod(ctx, req)
			outcomes[i].Envelope = env
			outcomes[i].Err = err
			outcomes[i].Duration = time.Since(began)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	r.logger.Info("batch of %d finished in %v: %d failed", len(reqs), time.Since(start), failed)
	return outcomes, ctx.Err()
}
