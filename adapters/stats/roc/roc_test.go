package roc

import (
	"math"
	"testing"

	"gostat/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestAnalyze_PerfectSeparation(t *testing.T) {
	var actual, predicted []float64
	for i := 0; i < 10; i++ {
		actual = append(actual, 1)
		predicted = append(predicted, 0.51+float64(i)*0.0433)
	}
	for i := 0; i < 10; i++ {
		actual = append(actual, 0)
		predicted = append(predicted, 0.10+float64(i)*0.0433)
	}

	result, err := Analyze(actual, predicted)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, result.AUC, 1e-12)
	assert.InDelta(t, 1.0, result.Sensitivity, 1e-12)
	assert.InDelta(t, 1.0, result.Specificity, 1e-12)
	assert.InDelta(t, 0.51, result.OptimalThreshold, 1e-12)
	assert.Equal(t, 0.0, result.AUCSE)
	assert.Equal(t, 1.0, result.AUCCIHi)
	assert.Equal(t, 1.0, result.Accuracy)
	assert.Equal(t, 10, result.Positives)
	assert.Equal(t, 10, result.Negatives)
}

func TestAnalyze_ReferenceValues(t *testing.T) {
	actual := []float64{0, 0, 1, 1}
	predicted := []float64{0.1, 0.4, 0.35, 0.8}

	result, err := Analyze(actual, predicted)
	require.NoError(t, err)

	assert.InDelta(t, 0.75, result.AUC, 1e-12)
	assert.InDelta(t, 0.276295, result.AUCSE, 1e-6)
	assert.InDelta(t, 0.2084605, result.AUCCILo, 1e-7)
	assert.InDelta(t, result.AUC-1.96*result.AUCSE, result.AUCCILo, 1e-12)
	assert.Equal(t, 1.0, result.AUCCIHi)

	require.Len(t, result.Points, 5)
	assert.Equal(t, 0.0, result.Points[1].FalsePositiveRate)
	assert.Equal(t, 0.5, result.Points[1].TruePositiveRate)

	assert.Equal(t, 0.8, result.OptimalThreshold)
	assert.Equal(t, 0.5, result.Sensitivity)
	assert.Equal(t, 1.0, result.Specificity)
	assert.Equal(t, 1.0, result.PPV)
	assert.InDelta(t, 2.0/3.0, result.NPV, 1e-12)
	assert.Equal(t, 0.75, result.Accuracy)
}

func TestAnalyze_NonInformativeScores(t *testing.T) {
	actual := make([]float64, 20)
	predicted := make([]float64, 20)
	for i := range actual {
		if i%2 == 0 {
			actual[i] = 1
		}
		predicted[i] = 0.3
	}

	result, err := Analyze(actual, predicted)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, result.AUC, 1e-12)
	assert.Less(t, result.AUCCILo, 0.5)
	assert.Greater(t, result.AUCCIHi, 0.5)
	assert.Len(t, result.Points, 2)
	assert.True(t, math.IsInf(result.OptimalThreshold, 1))
	assert.InDelta(t, 1.0, result.AUCPValue, 1e-12)
}

func TestAnalyze_InvertedScores(t *testing.T) {
	result, err := Analyze([]float64{1, 1, 0, 0}, []float64{0.1, 0.2, 0.8, 0.9})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, result.AUC, 1e-12)
}

func TestAnalyze_Errors(t *testing.T) {
	_, err := Analyze([]float64{0, 1}, []float64{0.5})
	assert.ErrorIs(t, err, core.ErrShapeMismatch)

	_, err = Analyze(nil, nil)
	assert.ErrorIs(t, err, core.ErrEmptyDataset)

	_, err = Analyze([]float64{0, 2}, []float64{0.1, 0.2})
	assert.ErrorIs(t, err, core.ErrInvalidLabel)

	_, err = Analyze([]float64{1, 1}, []float64{0.1, 0.2})
	assert.ErrorIs(t, err, core.ErrInsufficientGroups)

	_, err = Analyze([]float64{0, 1}, []float64{math.NaN(), 0.2})
	assert.ErrorIs(t, err, core.ErrInvalidValue)
}

func TestAnalyze_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 80).Draw(rt, "n")
		actual := make([]float64, n)
		predicted := make([]float64, n)
		for i := 0; i < n; i++ {
			actual[i] = float64(rapid.IntRange(0, 1).Draw(rt, "label"))
			predicted[i] = float64(rapid.IntRange(0, 15).Draw(rt, "score")) / 15
		}
		actual[0], actual[1] = 0, 1

		result, err := Analyze(actual, predicted)
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}

		if result.AUC < 0 || result.AUC > 1 {
			rt.Fatalf("AUC %v outside [0,1]", result.AUC)
		}
		if result.AUCCILo < 0 || result.AUCCIHi > 1 || result.AUCCILo > result.AUCCIHi {
			rt.Fatalf("bad CI [%v,%v]", result.AUCCILo, result.AUCCIHi)
		}

		first, last := result.Points[0], result.Points[len(result.Points)-1]
		if first.FalsePositiveRate != 0 || first.TruePositiveRate != 0 {
			rt.Fatalf("curve starts at %+v", first)
		}
		if last.FalsePositiveRate != 1 || last.TruePositiveRate != 1 {
			rt.Fatalf("curve ends at %+v", last)
		}
		for i := 1; i < len(result.Points); i++ {
			if result.Points[i].FalsePositiveRate < result.Points[i-1].FalsePositiveRate {
				rt.Fatalf("FPR decreases at %d", i)
			}
		}

		// AUC equals the Mann-Whitney probability that a positive outranks a negative
		var wins, pairs float64
		for i := range actual {
			for j := range actual {
				if actual[i] != 1 || actual[j] != 0 {
					continue
				}
				pairs++
				switch {
				case predicted[i] > predicted[j]:
					wins++
				case predicted[i] == predicted[j]:
					wins += 0.5
				}
			}
		}
		if math.Abs(wins/pairs-result.AUC) > 1e-9 {
			rt.Fatalf("AUC %v differs from rank probability %v", result.AUC, wins/pairs)
		}
	})
}
