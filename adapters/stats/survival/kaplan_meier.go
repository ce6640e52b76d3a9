// Package survival estimates survival curves with the Kaplan-Meier product
// limit and compares groups with the log-rank test.
package survival

import (
	"math"
	"sort"

	"gostat/domain/core"
	"gostat/domain/stats"
)

// z-value of the two-sided 95% confidence band
const ciZ = 1.96

// medianTolerance absorbs rounding in products like 0.8 * 0.625
const medianTolerance = 1e-12

type observation struct {
	time  float64
	event bool
}

// Estimate computes the Kaplan-Meier survival curve for parallel time/event
// arrays, where event is 1 for an observed event and 0 for a censoring.
//
// One point is emitted per distinct observation time. Censoring-only times keep
// the previous survival value. Confidence bounds use the log-log transform of
// Greenwood's variance and degenerate to [0, 1] when S is 0 or 1 or the
// Greenwood sum is 0.
func Estimate(times, events []float64) (*stats.SurvivalResult, error) {
	obs, err := validate(times, events)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(obs, func(i, j int) bool { return obs[i].time < obs[j].time })

	result := &stats.SurvivalResult{
		Points:        make([]stats.SurvivalPoint, 0, len(obs)),
		CensoredTimes: []float64{},
		Subjects:      len(obs),
	}

	surv := 1.0
	greenwood := 0.0
	processed := 0

	for i := 0; i < len(obs); {
		t := obs[i].time
		deaths, censored := 0, 0
		for ; i < len(obs) && obs[i].time == t; i++ {
			if obs[i].event {
				deaths++
			} else {
				censored++
			}
		}

		atRisk := len(obs) - processed
		if deaths > 0 {
			n, d := float64(atRisk), float64(deaths)
			surv *= 1 - d/n
			if atRisk > deaths {
				greenwood += d / (n * (n - d))
			}
		}

		lo, hi := logLogBounds(surv, greenwood)
		result.Points = append(result.Points, stats.SurvivalPoint{
			Time:                t,
			SurvivalProbability: surv,
			CILower:             lo,
			CIUpper:             hi,
			AtRisk:              atRisk,
			Events:              deaths,
			Censored:            censored,
		})

		if deaths > 0 && result.MedianSurvival == nil && surv <= 0.5+medianTolerance {
			median := t
			result.MedianSurvival = &median
		}
		if censored > 0 {
			result.CensoredTimes = append(result.CensoredTimes, t)
		}

		result.TotalEvents += deaths
		processed += deaths + censored
	}

	return result, nil
}

// logLogBounds returns the 95% log-log confidence interval of a survival value
func logLogBounds(surv, greenwood float64) (float64, float64) {
	if surv <= 0 || surv >= 1 || greenwood <= 0 {
		return 0, 1
	}

	logS := math.Log(surv)
	se := math.Sqrt(greenwood) / math.Abs(logS)
	center := math.Log(-logS)

	lo := math.Exp(-math.Exp(center + ciZ*se))
	hi := math.Exp(-math.Exp(center - ciZ*se))
	return clamp01(lo), clamp01(hi)
}

func validate(times, events []float64) ([]observation, error) {
	if len(times) != len(events) {
		return nil, core.NewShapeMismatchError("times/events", len(times), len(events))
	}
	if len(times) == 0 {
		return nil, core.ErrEmptyDataset
	}

	obs := make([]observation, len(times))
	for i, t := range times {
		if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
			return nil, &core.FieldError{Kind: core.ErrInvalidValue, Field: "times", Detail: "survival times must be finite and non-negative"}
		}
		switch events[i] {
		case 0:
		case 1:
			obs[i].event = true
		default:
			return nil, core.NewInvalidLabelError("events", i, events[i])
		}
		obs[i].time = t
	}
	return obs, nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
