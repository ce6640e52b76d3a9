package inference

import (
	"math"

	"gostat/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// TTestResult is the outcome of any t-test variant
type TTestResult struct {
	Statistic  float64 `json:"statistic"`
	DF         float64 `json:"df"`
	PValue     float64 `json:"pvalue"`
	MeanDiff   float64 `json:"meanDifference"`
	StdErr     float64 `json:"standardError"`
	CILower    float64 `json:"ciLower"`
	CIUpper    float64 `json:"ciUpper"`
	EffectSize float64 `json:"effectSize"` // Cohen's d
	N1         int     `json:"n1"`
	N2         int     `json:"n2,omitempty"`
}

// StudentTTest compares two independent means assuming equal variances
func StudentTTest(a, b []float64, alpha float64) (*TTestResult, error) {
	if err := requireN("group1", a, 2); err != nil {
		return nil, err
	}
	if err := requireN("group2", b, 2); err != nil {
		return nil, err
	}

	n1, n2 := float64(len(a)), float64(len(b))
	v1, v2 := sampleVariance(a), sampleVariance(b)
	df := n1 + n2 - 2
	pooled := ((n1-1)*v1 + (n2-1)*v2) / df
	se := math.Sqrt(pooled * (1/n1 + 1/n2))

	r := newTResult(mean(a)-mean(b), se, df, alpha)
	r.EffectSize = cohensD(r.MeanDiff, math.Sqrt(pooled))
	r.N1, r.N2 = len(a), len(b)
	return r, nil
}

// WelchTTest compares two independent means without assuming equal variances
func WelchTTest(a, b []float64, alpha float64) (*TTestResult, error) {
	if err := requireN("group1", a, 2); err != nil {
		return nil, err
	}
	if err := requireN("group2", b, 2); err != nil {
		return nil, err
	}

	n1, n2 := float64(len(a)), float64(len(b))
	v1, v2 := sampleVariance(a), sampleVariance(b)
	s1, s2 := v1/n1, v2/n2
	se := math.Sqrt(s1 + s2)

	// Welch-Satterthwaite; falls back to the pooled df when both variances vanish
	df := n1 + n2 - 2
	if se > 0 {
		df = (s1 + s2) * (s1 + s2) / (s1*s1/(n1-1) + s2*s2/(n2-1))
	}

	r := newTResult(mean(a)-mean(b), se, df, alpha)
	pooled := ((n1-1)*v1 + (n2-1)*v2) / (n1 + n2 - 2)
	r.EffectSize = cohensD(r.MeanDiff, math.Sqrt(pooled))
	r.N1, r.N2 = len(a), len(b)
	return r, nil
}

// PairedTTest tests the mean of before[i] - after[i] against zero
func PairedTTest(before, after []float64, alpha float64) (*TTestResult, error) {
	if len(before) != len(after) {
		return nil, core.NewShapeMismatchError("before/after", len(before), len(after))
	}
	diffs := make([]float64, len(before))
	for i := range before {
		diffs[i] = before[i] - after[i]
	}
	r, err := OneSampleTTest(diffs, 0, alpha)
	if err != nil {
		return nil, err
	}
	r.N2 = len(after)
	return r, nil
}

// OneSampleTTest tests the mean of x against mu
func OneSampleTTest(x []float64, mu, alpha float64) (*TTestResult, error) {
	if err := requireN("sample", x, 2); err != nil {
		return nil, err
	}

	n := float64(len(x))
	sd := math.Sqrt(sampleVariance(x))
	se := sd / math.Sqrt(n)

	r := newTResult(mean(x)-mu, se, n-1, alpha)
	r.EffectSize = cohensD(r.MeanDiff, sd)
	r.N1 = len(x)
	return r, nil
}

func newTResult(diff, se, df, alpha float64) *TTestResult {
	r := &TTestResult{MeanDiff: diff, StdErr: se, DF: df}
	r.Statistic, r.PValue = tStatistic(diff, se, df)

	crit := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile(1 - alpha/2)
	r.CILower = diff - crit*se
	r.CIUpper = diff + crit*se
	return r
}

// tStatistic returns t and its two-sided p-value. A zero standard error gives
// t = 0, p = 1 for a zero estimate and an infinite t with p = 0 otherwise.
func tStatistic(estimate, se, df float64) (float64, float64) {
	if se == 0 {
		if estimate == 0 {
			return 0, 1
		}
		return math.Copysign(math.Inf(1), estimate), 0
	}
	t := estimate / se
	p := 2 * distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Survival(math.Abs(t))
	return t, math.Min(1, p)
}

func cohensD(diff, sd float64) float64 {
	if sd == 0 {
		return 0
	}
	return diff / sd
}

func requireN(field string, x []float64, min int) error {
	if len(x) < min {
		return core.NewInsufficientDataError(field, len(x), min)
	}
	return nil
}
