package inference

import (
	"math"

	"gostat/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// AnovaResult is the outcome of a one-way analysis of variance
type AnovaResult struct {
	Statistic  float64 `json:"statistic"`
	DFBetween  int     `json:"dfBetween"`
	DFWithin   int     `json:"dfWithin"`
	PValue     float64 `json:"pvalue"`
	SSBetween  float64 `json:"ssBetween"`
	SSWithin   float64 `json:"ssWithin"`
	MSBetween  float64 `json:"msBetween"`
	MSWithin   float64 `json:"msWithin"`
	EtaSquared float64 `json:"etaSquared"`
	N          int     `json:"n"`
}

// OneWayANOVA tests equality of group means
func OneWayANOVA(groups [][]float64) (*AnovaResult, error) {
	k := len(groups)
	if k < 2 {
		return nil, core.NewInsufficientGroupsError("groupVar", k, 2)
	}

	n := 0
	grand := 0.0
	for _, g := range groups {
		if len(g) == 0 {
			return nil, core.NewInsufficientDataError("group", 0, 1)
		}
		n += len(g)
		for _, v := range g {
			grand += v
		}
	}
	if n <= k {
		return nil, core.NewInsufficientDataError("dependentVar", n, k+1)
	}
	grand /= float64(n)

	r := &AnovaResult{DFBetween: k - 1, DFWithin: n - k, N: n}
	for _, g := range groups {
		m := mean(g)
		r.SSBetween += float64(len(g)) * (m - grand) * (m - grand)
		for _, v := range g {
			r.SSWithin += (v - m) * (v - m)
		}
	}

	r.MSBetween = r.SSBetween / float64(r.DFBetween)
	r.MSWithin = r.SSWithin / float64(r.DFWithin)
	if total := r.SSBetween + r.SSWithin; total > 0 {
		r.EtaSquared = r.SSBetween / total
	}

	switch {
	case r.MSWithin > 0:
		r.Statistic = r.MSBetween / r.MSWithin
		r.PValue = distuv.F{D1: float64(r.DFBetween), D2: float64(r.DFWithin)}.Survival(r.Statistic)
	case r.MSBetween > 0:
		// Constant within groups but different between them
		r.Statistic = math.Inf(1)
		r.PValue = 0
	default:
		r.PValue = 1
	}
	return r, nil
}
