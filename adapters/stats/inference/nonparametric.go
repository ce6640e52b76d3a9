package inference

import (
	"math"

	"gostat/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// RankTestResult is the outcome of a two-sample or paired rank test
type RankTestResult struct {
	Statistic  float64 `json:"statistic"`
	Z          float64 `json:"z"`
	PValue     float64 `json:"pvalue"`
	EffectSize float64 `json:"effectSize"` // r = z / sqrt(N)
	N1         int     `json:"n1"`
	N2         int     `json:"n2,omitempty"`
}

// KruskalWallisResult is the outcome of the Kruskal-Wallis H test
type KruskalWallisResult struct {
	Statistic      float64   `json:"statistic"`
	DF             int       `json:"df"`
	PValue         float64   `json:"pvalue"`
	EpsilonSquared float64   `json:"epsilonSquared"`
	MeanRanks      []float64 `json:"meanRanks"`
	N              int       `json:"n"`
}

// MannWhitneyU tests whether a and b come from the same distribution.
// Statistic is U for the first sample; the p-value uses the normal
// approximation with tie and continuity corrections.
func MannWhitneyU(a, b []float64) (*RankTestResult, error) {
	if err := requireN("group1", a, 1); err != nil {
		return nil, err
	}
	if err := requireN("group2", b, 1); err != nil {
		return nil, err
	}

	n1, n2 := float64(len(a)), float64(len(b))
	combined := append(append(make([]float64, 0, len(a)+len(b)), a...), b...)
	ranks, ties := rank(combined)

	r1 := 0.0
	for i := range a {
		r1 += ranks[i]
	}
	u1 := r1 - n1*(n1+1)/2

	n := n1 + n2
	mu := n1 * n2 / 2
	sigma := math.Sqrt(n1 * n2 / 12 * ((n + 1) - tieSum(ties)/(n*(n-1))))

	result := &RankTestResult{Statistic: u1, PValue: 1, N1: len(a), N2: len(b)}
	if sigma > 0 {
		z := math.Max(0, math.Abs(u1-mu)-0.5) / sigma
		result.Z = math.Copysign(z, u1-mu)
		result.PValue = math.Min(1, 2*distuv.UnitNormal.Survival(z))
		result.EffectSize = result.Z / math.Sqrt(n)
	}
	return result, nil
}

// WilcoxonSignedRank tests whether paired differences before[i] - after[i]
// are symmetric around zero. Zero differences are dropped; Statistic is
// min(W+, W-) with a tie-corrected normal approximation.
func WilcoxonSignedRank(before, after []float64) (*RankTestResult, error) {
	if len(before) != len(after) {
		return nil, core.NewShapeMismatchError("before/after", len(before), len(after))
	}
	if err := requireN("pairs", before, 2); err != nil {
		return nil, err
	}

	var diffs []float64
	for i := range before {
		if d := before[i] - after[i]; d != 0 {
			diffs = append(diffs, d)
		}
	}

	result := &RankTestResult{PValue: 1, N1: len(before), N2: len(after)}
	if len(diffs) == 0 {
		return result, nil
	}

	abs := make([]float64, len(diffs))
	for i, d := range diffs {
		abs[i] = math.Abs(d)
	}
	ranks, ties := rank(abs)

	wPlus := 0.0
	for i, d := range diffs {
		if d > 0 {
			wPlus += ranks[i]
		}
	}
	n := float64(len(diffs))
	total := n * (n + 1) / 2
	wMinus := total - wPlus
	result.Statistic = math.Min(wPlus, wMinus)

	mu := total / 2
	sigma := math.Sqrt(n*(n+1)*(2*n+1)/24 - tieSum(ties)/48)
	if sigma > 0 {
		z := (wPlus - mu) / sigma
		result.Z = z
		result.PValue = math.Min(1, 2*distuv.UnitNormal.Survival(math.Abs(z)))
		result.EffectSize = z / math.Sqrt(n)
	}
	return result, nil
}

// KruskalWallis compares two or more independent samples by rank
func KruskalWallis(groups [][]float64) (*KruskalWallisResult, error) {
	if len(groups) < 2 {
		return nil, core.NewInsufficientGroupsError("groupVar", len(groups), 2)
	}

	var combined []float64
	for _, g := range groups {
		if len(g) == 0 {
			return nil, core.NewInsufficientDataError("group", 0, 1)
		}
		combined = append(combined, g...)
	}
	ranks, ties := rank(combined)

	n := float64(len(combined))
	result := &KruskalWallisResult{
		DF:        len(groups) - 1,
		PValue:    1,
		MeanRanks: make([]float64, len(groups)),
		N:         len(combined),
	}

	h := 0.0
	offset := 0
	for i, g := range groups {
		sum := 0.0
		for j := range g {
			sum += ranks[offset+j]
		}
		offset += len(g)
		result.MeanRanks[i] = sum / float64(len(g))
		h += sum * sum / float64(len(g))
	}
	h = 12/(n*(n+1))*h - 3*(n+1)

	correction := 1 - tieSum(ties)/(n*n*n-n)
	if correction <= 0 {
		return result, nil
	}
	h /= correction

	result.Statistic = h
	result.PValue = distuv.ChiSquared{K: float64(result.DF)}.Survival(h)
	if n > 1 {
		result.EpsilonSquared = h / (n - 1)
	}
	return result, nil
}
