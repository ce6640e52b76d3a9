package executors

import (
	"context"
	"math"

	"gostat/adapters/stats/extract"
	"gostat/adapters/stats/roc"
	"gostat/domain/core"
	"gostat/domain/mapping"
	"gostat/domain/stats"
	"gostat/internal"
	"gostat/ports"
)

// ROCExecutor runs ROC analysis. The binary outcome is dependentVar and the
// score is the single independentVar column; literal input uses y for the
// outcome and x for the score.
type ROCExecutor struct {
	base
}

// NewROCExecutor creates a new ROCExecutor
func NewROCExecutor(logger *internal.Logger) *ROCExecutor {
	return &ROCExecutor{base: newBase(FamilyROC, logger, MethodROCCurve)}
}

// Execute runs the ROC analysis
func (e *ROCExecutor) Execute(ctx context.Context, req ports.ExecutionRequest) (*stats.ResultEnvelope, error) {
	env, settings, err := e.begin(ctx, req)
	if err != nil {
		return nil, err
	}

	actual, predicted, err := labeledScores(req)
	if err != nil {
		return nil, err
	}
	r, err := roc.Analyze(actual, predicted)
	if err != nil {
		return nil, err
	}

	env.SetMain(stats.KeyAUC, r.AUC)
	env.SetMain(stats.KeyAUCSE, r.AUCSE)
	env.SetMain(stats.KeyAUCCILo, r.AUCCILo)
	env.SetMain(stats.KeyAUCCIHi, r.AUCCIHi)
	env.SetMain(stats.KeyPValue, r.AUCPValue)
	env.SetMain(stats.KeyOptimalThreshold, r.OptimalThreshold)
	env.SetMain(stats.KeySensitivity, r.Sensitivity)
	env.SetMain(stats.KeySpecificity, r.Specificity)
	env.SetMain(stats.KeyN, r.Positives+r.Negatives)
	if math.IsInf(r.OptimalThreshold, 0) {
		env.Warn("optimal operating point classifies every case as negative")
	}

	env.AdditionalInfo[stats.InfoCurve] = r.Points
	env.AdditionalInfo[stats.InfoOperating] = map[string]any{
		"accuracy":  r.Accuracy,
		"ppv":       r.PPV,
		"npv":       r.NPV,
		"positives": r.Positives,
		"negatives": r.Negatives,
	}
	return e.finish(env, r.AUCPValue, settings.Alpha)
}

func labeledScores(req ports.ExecutionRequest) (actual, predicted []float64, err error) {
	src, err := resolve(req, mapping.LiteralXY)
	if err != nil {
		return nil, nil, err
	}
	if src.Kind == mapping.SourceLiteral {
		return src.B, src.A, nil
	}

	m := src.Mapping
	scores := m.IndependentVar.Normalize()
	switch len(scores) {
	case 0:
		return nil, nil, core.NewMissingColumnError(mapping.RoleIndependentVar)
	case 1:
	default:
		return nil, nil, core.NewInvalidVariableCountError(mapping.RoleIndependentVar, len(scores), 1)
	}
	return extract.ExtractLabeledScores(req.Rows, m.DependentVar, scores[0])
}
