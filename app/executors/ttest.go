package executors

import (
	"context"

	"gostat/adapters/stats/extract"
	"gostat/adapters/stats/inference"
	"gostat/domain/mapping"
	"gostat/domain/stats"
	"gostat/internal"
	"gostat/ports"
)

// TTestExecutor runs independent, paired and one-sample t-tests
type TTestExecutor struct {
	base
}

// NewTTestExecutor creates a new TTestExecutor
func NewTTestExecutor(logger *internal.Logger) *TTestExecutor {
	return &TTestExecutor{base: newBase(FamilyTTest, logger,
		MethodIndependentTTest, MethodPairedTTest, MethodOneSampleTTest)}
}

// Execute runs the requested t-test
func (e *TTestExecutor) Execute(ctx context.Context, req ports.ExecutionRequest) (*stats.ResultEnvelope, error) {
	env, settings, err := e.begin(ctx, req)
	if err != nil {
		return nil, err
	}

	switch req.Method {
	case MethodIndependentTTest:
		return e.independent(env, req, settings)
	case MethodPairedTTest:
		return e.paired(env, req, settings)
	default:
		return e.oneSample(env, req, settings)
	}
}

// independent reports Student's pooled-variance test; Welch's variant goes to
// additionalInfo
func (e *TTestExecutor) independent(env *stats.ResultEnvelope, req ports.ExecutionRequest, settings mapping.Settings) (*stats.ResultEnvelope, error) {
	g, err := groups(req)
	if err != nil {
		return nil, err
	}
	a, b, labels := e.firstTwo(env, g)

	student, err := inference.StudentTTest(a, b, settings.Alpha)
	if err != nil {
		return nil, err
	}
	welch, err := inference.WelchTTest(a, b, settings.Alpha)
	if err != nil {
		return nil, err
	}

	setTTest(env, student)
	env.SetMain(stats.KeyN, student.N1+student.N2)
	env.AdditionalInfo[stats.InfoWelch] = map[string]any{
		stats.KeyStatistic: stats.Scalar(welch.Statistic),
		stats.KeyDF:        welch.DF,
		stats.KeyPValue:    welch.PValue,
		stats.KeyCILower:   welch.CILower,
		stats.KeyCIUpper:   welch.CIUpper,
	}
	env.AdditionalInfo[stats.InfoDescriptives] = describeGroups(labels, a, b)
	return e.finish(env, student.PValue, settings.Alpha)
}

func (e *TTestExecutor) paired(env *stats.ResultEnvelope, req ports.ExecutionRequest, settings mapping.Settings) (*stats.ResultEnvelope, error) {
	before, after, err := paired(req)
	if err != nil {
		return nil, err
	}

	r, err := inference.PairedTTest(before, after, settings.Alpha)
	if err != nil {
		return nil, err
	}

	setTTest(env, r)
	env.SetMain(stats.KeyN, r.N1)
	env.AdditionalInfo[stats.InfoDescriptives] = describeGroups(pairLabels(req), before, after)
	return e.finish(env, r.PValue, settings.Alpha)
}

func (e *TTestExecutor) oneSample(env *stats.ResultEnvelope, req ports.ExecutionRequest, settings mapping.Settings) (*stats.ResultEnvelope, error) {
	src, err := resolve(req, mapping.LiteralSeries)
	if err != nil {
		return nil, err
	}
	x := src.A
	label := "x"
	if src.Kind == mapping.SourceRoleBased {
		if x, err = extract.ExtractSeries(req.Rows, src.Mapping.DependentVar); err != nil {
			return nil, err
		}
		label = src.Mapping.DependentVar
	}

	r, err := inference.OneSampleTTest(x, settings.TestValue, settings.Alpha)
	if err != nil {
		return nil, err
	}

	setTTest(env, r)
	env.SetMain(stats.KeyN, r.N1)
	env.SetMain("testValue", settings.TestValue)
	env.AdditionalInfo[stats.InfoDescriptives] = describeGroups([]string{label}, x)
	return e.finish(env, r.PValue, settings.Alpha)
}

func setTTest(env *stats.ResultEnvelope, r *inference.TTestResult) {
	env.SetMain(stats.KeyStatistic, r.Statistic)
	env.SetMain(stats.KeyPValue, r.PValue)
	env.SetMain(stats.KeyDF, r.DF)
	env.SetMain(stats.KeyMeanDiff, r.MeanDiff)
	env.SetMain(stats.KeyCILower, r.CILower)
	env.SetMain(stats.KeyCIUpper, r.CIUpper)
	env.SetMain(stats.KeyEffectSize, r.EffectSize)
}

// pairLabels names the two paired vectors for descriptives
func pairLabels(req ports.ExecutionRequest) []string {
	if vars := req.Mapping.Variables; len(vars) == 2 && req.Mapping.Before == nil {
		return vars
	}
	return []string{"before", "after"}
}
