package app

import (
	"context"
	"fmt"
	"time"

	"gostat/domain/core"
	"gostat/domain/stats"
	"gostat/internal"
	"gostat/internal/locale"
	"gostat/ports"
)

// ExecutorDispatcher routes execution requests to the executor registered for
// the method id. It is immutable after construction and safe for concurrent use.
type ExecutorDispatcher struct {
	routes        map[string]ports.MethodExecutor
	order         []string
	defaultAlpha  float64
	defaultLocale string
	logger        *internal.Logger
}

// DispatcherDefaults are applied to requests that leave settings unset
type DispatcherDefaults struct {
	Alpha  float64
	Locale string
}

// NewExecutorDispatcher creates a dispatcher over explicit executor instances.
// Two executors claiming the same method id is an error.
func NewExecutorDispatcher(defaults DispatcherDefaults, logger *internal.Logger, executors ...ports.MethodExecutor) (*ExecutorDispatcher, error) {
	d := &ExecutorDispatcher{
		routes:        make(map[string]ports.MethodExecutor),
		defaultAlpha:  defaults.Alpha,
		defaultLocale: defaults.Locale,
		logger:        logger,
	}
	if d.defaultAlpha == 0 {
		d.defaultAlpha = 0.05
	}
	if d.defaultLocale == "" {
		d.defaultLocale = "en"
	}

	for _, exec := range executors {
		if exec == nil {
			return nil, fmt.Errorf("executor cannot be nil")
		}
		for _, id := range exec.Methods() {
			if prev, dup := d.routes[id]; dup {
				return nil, fmt.Errorf("method %q registered by both %s and %s", id, prev.Family(), exec.Family())
			}
			d.routes[id] = exec
			d.order = append(d.order, id)
		}
	}
	return d, nil
}

// ExecuteMethod runs req.Method with dispatcher defaults filled in
func (d *ExecutorDispatcher) ExecuteMethod(ctx context.Context, req ports.ExecutionRequest) (*stats.ResultEnvelope, error) {
	exec, ok := d.routes[req.Method]
	if !ok {
		return nil, &core.FieldError{Kind: core.ErrUnknownMethod, Field: "method", Detail: fmt.Sprintf("%q is not registered", req.Method)}
	}
	req.Settings = req.Settings.WithDefaults(d.defaultAlpha, d.defaultLocale)

	start := time.Now()
	env, err := exec.Execute(ctx, req)
	if err != nil {
		d.logger.Warn("%s failed after %v: %v", req.Method, time.Since(start), err)
		return nil, err
	}
	d.logger.Info("%s completed in %v (run %s, %d rows)", req.Method, time.Since(start), env.Metadata.RunID, len(req.Rows))
	return env, nil
}

// Methods lists every registered method in registration order
func (d *ExecutorDispatcher) Methods(loc string) []ports.MethodDescriptor {
	if loc == "" {
		loc = d.defaultLocale
	}
	out := make([]ports.MethodDescriptor, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, ports.MethodDescriptor{
			ID:     id,
			Family: d.routes[id].Family(),
			Label:  locale.Label(id, loc),
		})
	}
	return out
}

var _ ports.Dispatcher = (*ExecutorDispatcher)(nil)
