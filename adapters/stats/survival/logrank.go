package survival

import (
	"sort"

	"gostat/domain/core"
	"gostat/domain/stats"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// LogRank runs the k-sample log-rank test. groups labels each observation;
// group order for the reduced covariance matrix is first-seen.
func LogRank(times, events []float64, groups []string) (*stats.LogRankResult, error) {
	obs, err := validate(times, events)
	if err != nil {
		return nil, err
	}
	if len(groups) != len(obs) {
		return nil, core.NewShapeMismatchError("times/groups", len(obs), len(groups))
	}

	var labels []string
	index := make(map[string]int)
	member := make([]int, len(obs))
	for i, g := range groups {
		idx, ok := index[g]
		if !ok {
			idx = len(labels)
			index[g] = idx
			labels = append(labels, g)
		}
		member[i] = idx
	}
	k := len(labels)
	if k < 2 {
		return nil, core.NewInsufficientGroupsError("groupVar", k, 2)
	}

	order := make([]int, len(obs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return obs[order[a]].time < obs[order[b]].time })

	atRisk := make([]float64, k)
	for _, g := range member {
		atRisk[g]++
	}

	observed := make([]float64, k)
	expected := make([]float64, k)
	variance := mat.NewDense(k, k, nil)

	for i := 0; i < len(order); {
		t := obs[order[i]].time
		deaths := make([]float64, k)
		leaving := make([]float64, k)
		for ; i < len(order) && obs[order[i]].time == t; i++ {
			idx := order[i]
			g := member[idx]
			if obs[idx].event {
				deaths[g]++
			}
			leaving[g]++
		}

		n, d := sum(atRisk), sum(deaths)
		if d > 0 {
			for g := 0; g < k; g++ {
				observed[g] += deaths[g]
				expected[g] += d * atRisk[g] / n
			}
			if n > 1 {
				scale := d * (n - d) / (n - 1)
				for g := 0; g < k; g++ {
					for h := 0; h < k; h++ {
						share := atRisk[g] / n
						delta := 0.0
						if g == h {
							delta = 1
						}
						variance.Set(g, h, variance.At(g, h)+scale*share*(delta-atRisk[h]/n))
					}
				}
			}
		}

		for g := 0; g < k; g++ {
			atRisk[g] -= leaving[g]
		}
	}

	result := &stats.LogRankResult{
		DF:       k - 1,
		PValue:   1,
		Observed: make(map[string]float64, k),
		Expected: make(map[string]float64, k),
	}
	for g, label := range labels {
		result.Observed[label] = observed[g]
		result.Expected[label] = expected[g]
	}

	diff := mat.NewVecDense(k-1, nil)
	for g := 0; g < k-1; g++ {
		diff.SetVec(g, observed[g]-expected[g])
	}
	reduced := variance.Slice(0, k-1, 0, k-1)

	var inv mat.Dense
	if err := inv.Inverse(reduced); err != nil {
		// No information to compare, e.g. no events or a single time point
		return result, nil
	}

	var tmp mat.VecDense
	tmp.MulVec(&inv, diff)
	chi := mat.Dot(diff, &tmp)
	if chi < 0 {
		chi = 0
	}
	result.ChiSquare = chi
	result.PValue = distuv.ChiSquared{K: float64(k - 1)}.Survival(chi)
	return result, nil
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
