// Package inference holds the hypothesis tests and models executors run on
// extracted vectors: t-tests, rank tests, one-way ANOVA and OLS regression.
package inference

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// Descriptive summarizes one sample
type Descriptive struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	SD     float64 `json:"sd"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Describe computes summary statistics; SD is the sample standard deviation
// and is 0 for fewer than two values.
func Describe(x []float64) Descriptive {
	d := Descriptive{N: len(x)}
	if len(x) == 0 {
		return d
	}

	data := stats.Float64Data(x)
	d.Mean, _ = data.Mean()
	d.Median, _ = data.Median()
	d.Min, _ = data.Min()
	d.Max, _ = data.Max()
	if len(x) > 1 {
		d.SD, _ = stats.StandardDeviationSample(data)
	}
	return d
}

func mean(x []float64) float64 {
	m, err := stats.Mean(x)
	if err != nil {
		return math.NaN()
	}
	return m
}

func sampleVariance(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	v, err := stats.SampleVariance(x)
	if err != nil {
		return 0
	}
	return v
}

// rank assigns average ranks (1-based) and returns the tie groups sizes
func rank(values []float64) (ranks []float64, ties []int) {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return values[order[a]] < values[order[b]] })

	ranks = make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[order[j+1]] == values[order[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		if size := j - i + 1; size > 1 {
			ties = append(ties, size)
		}
		i = j + 1
	}
	return ranks, ties
}

// tieSum returns Σ(t³ - t) over tie group sizes
func tieSum(ties []int) float64 {
	total := 0.0
	for _, t := range ties {
		ft := float64(t)
		total += ft*ft*ft - ft
	}
	return total
}
