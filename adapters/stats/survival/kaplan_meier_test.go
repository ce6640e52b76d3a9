package survival

import (
	"testing"

	"gostat/domain/core"
	"gostat/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func survivalAt(t *testing.T, result *stats.SurvivalResult, time float64) stats.SurvivalPoint {
	t.Helper()
	for _, p := range result.Points {
		if p.Time == time {
			return p
		}
	}
	t.Fatalf("no survival point at time %v", time)
	return stats.SurvivalPoint{}
}

func TestEstimate_ReferenceScenario(t *testing.T) {
	times := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	events := []float64{1, 0, 1, 1, 0, 1, 0, 1, 1, 0}

	result, err := Estimate(times, events)
	require.NoError(t, err)

	require.Len(t, result.Points, 10)
	assert.InDelta(t, 0.900, survivalAt(t, result, 1).SurvivalProbability, 1e-9)
	assert.InDelta(t, 0.900, survivalAt(t, result, 2).SurvivalProbability, 1e-9)
	assert.InDelta(t, 0.7875, survivalAt(t, result, 3).SurvivalProbability, 1e-9)
	assert.InDelta(t, 0.675, survivalAt(t, result, 4).SurvivalProbability, 1e-9)
	assert.InDelta(t, 0.540, survivalAt(t, result, 6).SurvivalProbability, 1e-9)
	assert.InDelta(t, 0.360, survivalAt(t, result, 8).SurvivalProbability, 1e-9)
	assert.InDelta(t, 0.180, survivalAt(t, result, 9).SurvivalProbability, 1e-9)

	require.NotNil(t, result.MedianSurvival)
	assert.Equal(t, 8.0, *result.MedianSurvival)
	assert.Equal(t, []float64{2, 5, 7, 10}, result.CensoredTimes)
	assert.Equal(t, 6, result.TotalEvents)
	assert.Equal(t, 10, result.Subjects)

	first := survivalAt(t, result, 1)
	assert.Equal(t, 10, first.AtRisk)
	assert.InDelta(t, 0.47300, first.CILower, 1e-4)
	assert.InDelta(t, 0.98528, first.CIUpper, 1e-4)
	assert.Equal(t, 3, survivalAt(t, result, 8).AtRisk)
}

func TestEstimate_AllEvents(t *testing.T) {
	result, err := Estimate([]float64{3, 1, 2, 4}, []float64{1, 1, 1, 1})
	require.NoError(t, err)

	last := result.Points[len(result.Points)-1]
	assert.Equal(t, 4.0, last.Time)
	assert.InDelta(t, 0, last.SurvivalProbability, 1e-12)
	assert.Equal(t, 0.0, last.CILower)
	assert.Equal(t, 1.0, last.CIUpper)
	require.NotNil(t, result.MedianSurvival)
	assert.Equal(t, 2.0, *result.MedianSurvival)
	assert.Empty(t, result.CensoredTimes)
}

func TestEstimate_AllCensored(t *testing.T) {
	result, err := Estimate([]float64{5, 2, 9}, []float64{0, 0, 0})
	require.NoError(t, err)

	for _, p := range result.Points {
		assert.Equal(t, 1.0, p.SurvivalProbability)
		assert.Equal(t, 0.0, p.CILower)
		assert.Equal(t, 1.0, p.CIUpper)
	}
	assert.Nil(t, result.MedianSurvival)
	assert.Equal(t, []float64{2, 5, 9}, result.CensoredTimes)
}

func TestEstimate_TiedTimes(t *testing.T) {
	result, err := Estimate([]float64{2, 2, 2, 5}, []float64{1, 1, 0, 1})
	require.NoError(t, err)

	require.Len(t, result.Points, 2)
	p := result.Points[0]
	assert.Equal(t, 4, p.AtRisk)
	assert.Equal(t, 2, p.Events)
	assert.Equal(t, 1, p.Censored)
	assert.InDelta(t, 0.5, p.SurvivalProbability, 1e-12)
	assert.Equal(t, 2.0, *result.MedianSurvival)
	assert.Equal(t, 1, result.Points[1].AtRisk)
}

func TestEstimate_InputErrors(t *testing.T) {
	_, err := Estimate([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, core.ErrShapeMismatch)

	_, err = Estimate(nil, nil)
	assert.ErrorIs(t, err, core.ErrEmptyDataset)

	_, err = Estimate([]float64{1, 2}, []float64{1, 2})
	assert.ErrorIs(t, err, core.ErrInvalidLabel)

	_, err = Estimate([]float64{-1, 2}, []float64{1, 0})
	assert.ErrorIs(t, err, core.ErrInvalidValue)
}

func TestEstimate_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 60).Draw(rt, "n")
		times := make([]float64, n)
		events := make([]float64, n)
		for i := 0; i < n; i++ {
			times[i] = float64(rapid.IntRange(0, 20).Draw(rt, "time"))
			events[i] = float64(rapid.IntRange(0, 1).Draw(rt, "event"))
		}

		result, err := Estimate(times, events)
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}

		prevS, prevRisk := 1.0, n+1
		for _, p := range result.Points {
			if p.SurvivalProbability > prevS+1e-12 {
				rt.Fatalf("survival increased at t=%v: %v > %v", p.Time, p.SurvivalProbability, prevS)
			}
			if p.AtRisk > prevRisk {
				rt.Fatalf("at-risk increased at t=%v", p.Time)
			}
			if p.CILower < 0 || p.CILower > p.SurvivalProbability+1e-12 ||
				p.SurvivalProbability > p.CIUpper+1e-12 || p.CIUpper > 1 {
				rt.Fatalf("CI [%v,%v] does not bracket S=%v", p.CILower, p.CIUpper, p.SurvivalProbability)
			}
			prevS, prevRisk = p.SurvivalProbability, p.AtRisk
		}

		censored := make(map[float64]bool)
		allEvents, noEvents := true, true
		for i, e := range events {
			if e == 0 {
				censored[times[i]] = true
				allEvents = false
			} else {
				noEvents = false
			}
		}
		if len(censored) != len(result.CensoredTimes) {
			rt.Fatalf("censoredTimes %v does not match censoring set", result.CensoredTimes)
		}
		for _, ct := range result.CensoredTimes {
			if !censored[ct] {
				rt.Fatalf("time %v reported as censored", ct)
			}
		}

		last := result.Points[len(result.Points)-1]
		if allEvents && last.SurvivalProbability > 1e-12 {
			rt.Fatalf("all-event data ended at S=%v", last.SurvivalProbability)
		}
		if noEvents {
			for _, p := range result.Points {
				if p.SurvivalProbability != 1 {
					rt.Fatalf("censored-only data has S=%v", p.SurvivalProbability)
				}
			}
		}
	})
}
