// Package roc builds receiver operating characteristic curves and their
// summary statistics from binary labels and continuous scores.
package roc

import (
	"math"
	"sort"

	"gostat/domain/core"
	"gostat/domain/stats"

	"gonum.org/v1/gonum/stat/distuv"
)

const ciZ = 1.96

// youdenTolerance keeps the first of several numerically equal optima
const youdenTolerance = 1e-12

// Analyze computes the ROC curve of predicted scores against actual 0/1 labels.
// A score at or above a threshold is classified positive. The curve always
// starts at (0,0) and ends at (1,1).
func Analyze(actual, predicted []float64) (*stats.RocResult, error) {
	nPos, nNeg, err := validate(actual, predicted)
	if err != nil {
		return nil, err
	}

	points := curve(actual, predicted, nPos, nNeg)
	auc := trapezoid(points)
	se := hanleyMcNeilSE(auc, nPos, nNeg)

	result := &stats.RocResult{
		Points:    points,
		AUC:       auc,
		AUCSE:     se,
		AUCCILo:   clamp01(auc - ciZ*se),
		AUCCIHi:   clamp01(auc + ciZ*se),
		AUCPValue: aucPValue(auc, se),
		Positives: nPos,
		Negatives: nNeg,
	}

	best := optimalPoint(points)
	result.OptimalThreshold = best.Threshold
	result.Sensitivity = best.TruePositiveRate
	result.Specificity = 1 - best.FalsePositiveRate

	tp := math.Round(best.TruePositiveRate * float64(nPos))
	fp := math.Round(best.FalsePositiveRate * float64(nNeg))
	fn := float64(nPos) - tp
	tn := float64(nNeg) - fp
	result.Accuracy = (tp + tn) / float64(nPos+nNeg)
	result.PPV = ratio(tp, tp+fp)
	result.NPV = ratio(tn, tn+fn)

	return result, nil
}

// curve sweeps thresholds from +Inf down through the distinct scores
func curve(actual, predicted []float64, nPos, nNeg int) []stats.RocPoint {
	order := make([]int, len(predicted))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return predicted[order[a]] > predicted[order[b]] })

	points := []stats.RocPoint{{FalsePositiveRate: 0, TruePositiveRate: 0, Threshold: math.Inf(1)}}
	seen := map[[2]float64]bool{{0, 0}: true}

	tp, fp := 0, 0
	for i := 0; i < len(order); {
		threshold := predicted[order[i]]
		for ; i < len(order) && predicted[order[i]] == threshold; i++ {
			if actual[order[i]] == 1 {
				tp++
			} else {
				fp++
			}
		}
		tpr := rate(tp, nPos)
		fpr := rate(fp, nNeg)
		key := [2]float64{fpr, tpr}
		if seen[key] {
			continue
		}
		seen[key] = true
		points = append(points, stats.RocPoint{FalsePositiveRate: fpr, TruePositiveRate: tpr, Threshold: threshold})
	}

	sort.SliceStable(points, func(a, b int) bool {
		if points[a].FalsePositiveRate != points[b].FalsePositiveRate {
			return points[a].FalsePositiveRate < points[b].FalsePositiveRate
		}
		return points[a].TruePositiveRate < points[b].TruePositiveRate
	})
	return points
}

func trapezoid(points []stats.RocPoint) float64 {
	area := 0.0
	for i := 1; i < len(points); i++ {
		dx := points[i].FalsePositiveRate - points[i-1].FalsePositiveRate
		area += dx * (points[i].TruePositiveRate + points[i-1].TruePositiveRate) / 2
	}
	return clamp01(area)
}

// hanleyMcNeilSE is the Hanley & McNeil (1982) standard error of the AUC
func hanleyMcNeilSE(auc float64, nPos, nNeg int) float64 {
	q1 := auc / (2 - auc)
	q2 := 2 * auc * auc / (1 + auc)
	p, n := float64(nPos), float64(nNeg)

	num := auc*(1-auc) + (p-1)*(q1-auc*auc) + (n-1)*(q2-auc*auc)
	if num <= 0 {
		return 0
	}
	return math.Sqrt(num / (p * n))
}

// aucPValue tests AUC against 0.5 with a two-sided normal approximation
func aucPValue(auc, se float64) float64 {
	if se == 0 {
		if auc == 0.5 {
			return 1
		}
		return 0
	}
	z := math.Abs(auc-0.5) / se
	return 2 * distuv.UnitNormal.Survival(z)
}

// optimalPoint maximizes Youden's J, keeping the first point on ties
func optimalPoint(points []stats.RocPoint) stats.RocPoint {
	best := points[0]
	bestJ := best.TruePositiveRate - best.FalsePositiveRate
	for _, p := range points[1:] {
		if j := p.TruePositiveRate - p.FalsePositiveRate; j > bestJ+youdenTolerance {
			best, bestJ = p, j
		}
	}
	return best
}

func validate(actual, predicted []float64) (nPos, nNeg int, err error) {
	if len(actual) != len(predicted) {
		return 0, 0, core.NewShapeMismatchError("actual/predicted", len(actual), len(predicted))
	}
	if len(actual) == 0 {
		return 0, 0, core.ErrEmptyDataset
	}
	for i, label := range actual {
		switch label {
		case 1:
			nPos++
		case 0:
			nNeg++
		default:
			return 0, 0, core.NewInvalidLabelError("actual", i, label)
		}
		if math.IsNaN(predicted[i]) || math.IsInf(predicted[i], 0) {
			return 0, 0, &core.FieldError{Kind: core.ErrInvalidValue, Field: "predicted", Detail: "scores must be finite"}
		}
	}

	classes := 0
	if nPos > 0 {
		classes++
	}
	if nNeg > 0 {
		classes++
	}
	if classes < 2 {
		return 0, 0, core.NewInsufficientGroupsError("actual", classes, 2)
	}
	return nPos, nNeg, nil
}

func rate(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
