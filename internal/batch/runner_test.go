package batch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"gostat/domain/core"
	"gostat/domain/stats"
	"gostat/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDispatcher records peak concurrency and fails methods named "bad"
type fakeDispatcher struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeDispatcher) ExecuteMethod(ctx context.Context, req ports.ExecutionRequest) (*stats.ResultEnvelope, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.peak.Load()
		if n <= peak || f.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	if req.Method == "bad" {
		return nil, core.ErrUnknownMethod
	}
	return stats.NewEnvelope(stats.Metadata{Method: req.Method, MethodID: req.Method}), nil
}

func (f *fakeDispatcher) Methods(string) []ports.MethodDescriptor {
	return nil
}

func TestRunner_BoundsConcurrencyAndKeepsOrder(t *testing.T) {
	fake := &fakeDispatcher{}
	runner := NewRunner(fake, 3, nil)

	reqs := make([]ports.ExecutionRequest, 12)
	for i := range reqs {
		reqs[i].Method = "ok"
	}
	reqs[4].Method = "bad"

	outcomes, err := runner.Run(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, outcomes, 12)

	assert.LessOrEqual(t, fake.peak.Load(), int32(3))
	for i, o := range outcomes {
		assert.Equal(t, i, o.Index)
		if i == 4 {
			assert.ErrorIs(t, o.Err, core.ErrUnknownMethod)
			assert.Nil(t, o.Envelope)
			continue
		}
		require.NoError(t, o.Err)
		assert.Equal(t, "ok", o.Envelope.Metadata.MethodID)
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := NewRunner(&fakeDispatcher{}, 2, nil).Run(ctx, make([]ports.ExecutionRequest, 3))
	assert.ErrorIs(t, err, context.Canceled)
	for _, o := range outcomes {
		assert.ErrorIs(t, o.Err, context.Canceled)
	}
}

func TestNewRunner_ClampsLimit(t *testing.T) {
	assert.Equal(t, 1, NewRunner(&fakeDispatcher{}, 0, nil).limit)
}
