package app

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"gostat/app/executors"
	"gostat/domain/core"
	"gostat/domain/dataset"
	"gostat/domain/mapping"
	"gostat/domain/stats"
	"gostat/internal"
	"gostat/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDispatcher(t *testing.T) *ExecutorDispatcher {
	t.Helper()
	logger := internal.NewNopLogger()
	d, err := NewExecutorDispatcher(DispatcherDefaults{Alpha: 0.05, Locale: "en"}, logger, executors.All(logger)...)
	require.NoError(t, err)
	return d
}

func TestExecutorDispatcher_Methods(t *testing.T) {
	d := newDispatcher(t)

	methods := d.Methods("")
	require.Len(t, methods, 10)
	assert.Equal(t, ports.MethodDescriptor{
		ID:     executors.MethodIndependentTTest,
		Family: executors.FamilyTTest,
		Label:  "Independent Samples t-Test",
	}, methods[0])
	assert.Equal(t, executors.MethodROCCurve, methods[9].ID)

	ko := d.Methods("ko")
	assert.Equal(t, "ROC 곡선 분석", ko[9].Label)
}

func TestExecutorDispatcher_RoutesAndDefaults(t *testing.T) {
	d := newDispatcher(t)

	env, err := d.ExecuteMethod(context.Background(), ports.ExecutionRequest{
		Method: executors.MethodKaplanMeier,
		Mapping: mapping.VariableMapping{
			Times:  mapping.Literal{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			Events: mapping.Literal{1, 0, 1, 1, 0, 1, 0, 1, 1, 0},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, executors.FamilySurvival, env.Metadata.Family)
	assert.Equal(t, "en", env.Metadata.Locale)
	assert.Equal(t, 8.0, env.MainResults[stats.KeyMedianSurvival])
}

func TestExecutorDispatcher_UnknownMethod(t *testing.T) {
	d := newDispatcher(t)

	_, err := d.ExecuteMethod(context.Background(), ports.ExecutionRequest{Method: "chi-square"})
	assert.ErrorIs(t, err, core.ErrUnknownMethod)
	assert.Equal(t, "method", core.FieldOf(err))
}

func TestExecutorDispatcher_DuplicateRegistration(t *testing.T) {
	_, err := NewExecutorDispatcher(DispatcherDefaults{}, nil,
		executors.NewROCExecutor(nil), executors.NewROCExecutor(nil))
	assert.Error(t, err)

	_, err = NewExecutorDispatcher(DispatcherDefaults{}, nil, nil)
	assert.Error(t, err)
}

func TestExecutorDispatcher_ConcurrentCallsAreIndependent(t *testing.T) {
	d := newDispatcher(t)

	const workers = 32
	var wg sync.WaitGroup
	results := make([]*stats.ResultEnvelope, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			shift := float64(i)
			rows := dataset.Records{}
			for j := 0; j < 6; j++ {
				label := "ctl"
				value := float64(j)
				if j%2 == 1 {
					label = "trt"
					value += shift
				}
				rows = append(rows, dataset.Record{"arm": label, "y": value})
			}
			results[i], errs[i] = d.ExecuteMethod(context.Background(), ports.ExecutionRequest{
				Method:  executors.MethodMannWhitney,
				Rows:    rows,
				Mapping: mapping.VariableMapping{GroupVar: "arm", DependentVar: "y"},
			})
		}(i)
	}
	wg.Wait()

	runIDs := make(map[string]bool)
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i], fmt.Sprintf("worker %d", i))
		assert.Equal(t, []string{"ctl", "trt"}, results[i].AdditionalInfo[stats.InfoGroupLabels])
		runIDs[results[i].Metadata.RunID] = true
	}
	assert.Len(t, runIDs, workers)
}
