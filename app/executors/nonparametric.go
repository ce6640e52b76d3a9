package executors

import (
	"context"

	"gostat/adapters/stats/inference"
	"gostat/domain/mapping"
	"gostat/domain/stats"
	"gostat/internal"
	"gostat/ports"
)

// NonparametricExecutor runs rank-based tests
type NonparametricExecutor struct {
	base
}

// NewNonparametricExecutor creates a new NonparametricExecutor
func NewNonparametricExecutor(logger *internal.Logger) *NonparametricExecutor {
	return &NonparametricExecutor{base: newBase(FamilyNonparametric, logger,
		MethodMannWhitney, MethodWilcoxon, MethodKruskalWallis)}
}

// Execute runs the requested rank test
func (e *NonparametricExecutor) Execute(ctx context.Context, req ports.ExecutionRequest) (*stats.ResultEnvelope, error) {
	env, settings, err := e.begin(ctx, req)
	if err != nil {
		return nil, err
	}

	switch req.Method {
	case MethodMannWhitney:
		return e.mannWhitney(env, req, settings)
	case MethodWilcoxon:
		return e.wilcoxon(env, req, settings)
	default:
		return e.kruskalWallis(env, req, settings)
	}
}

func (e *NonparametricExecutor) mannWhitney(env *stats.ResultEnvelope, req ports.ExecutionRequest, settings mapping.Settings) (*stats.ResultEnvelope, error) {
	g, err := groups(req)
	if err != nil {
		return nil, err
	}
	a, b, labels := e.firstTwo(env, g)

	r, err := inference.MannWhitneyU(a, b)
	if err != nil {
		return nil, err
	}

	setRank(env, r)
	env.SetMain(stats.KeyN, r.N1+r.N2)
	env.AdditionalInfo[stats.InfoDescriptives] = describeGroups(labels, a, b)
	return e.finish(env, r.PValue, settings.Alpha)
}

func (e *NonparametricExecutor) wilcoxon(env *stats.ResultEnvelope, req ports.ExecutionRequest, settings mapping.Settings) (*stats.ResultEnvelope, error) {
	before, after, err := paired(req)
	if err != nil {
		return nil, err
	}

	r, err := inference.WilcoxonSignedRank(before, after)
	if err != nil {
		return nil, err
	}

	setRank(env, r)
	env.SetMain(stats.KeyN, r.N1)
	env.AdditionalInfo[stats.InfoDescriptives] = describeGroups(pairLabels(req), before, after)
	return e.finish(env, r.PValue, settings.Alpha)
}

// kruskalWallis uses every group, so nothing is dropped
func (e *NonparametricExecutor) kruskalWallis(env *stats.ResultEnvelope, req ports.ExecutionRequest, settings mapping.Settings) (*stats.ResultEnvelope, error) {
	g, err := groups(req)
	if err != nil {
		return nil, err
	}

	r, err := inference.KruskalWallis(g.Slices())
	if err != nil {
		return nil, err
	}

	env.SetMain(stats.KeyStatistic, r.Statistic)
	env.SetMain(stats.KeyDF, r.DF)
	env.SetMain(stats.KeyPValue, r.PValue)
	env.SetMain(stats.KeyEffectSize, r.EpsilonSquared)
	env.SetMain(stats.KeyN, r.N)

	meanRanks := make(map[string]float64, g.Len())
	for i, label := range g.Labels {
		meanRanks[label] = r.MeanRanks[i]
	}
	env.AdditionalInfo[stats.InfoGroupLabels] = g.Labels
	env.AdditionalInfo[stats.InfoMeanRanks] = meanRanks
	env.AdditionalInfo[stats.InfoDescriptives] = describeGroups(g.Labels, g.Slices()...)
	return e.finish(env, r.PValue, settings.Alpha)
}

func setRank(env *stats.ResultEnvelope, r *inference.RankTestResult) {
	env.SetMain(stats.KeyStatistic, r.Statistic)
	env.SetMain(stats.KeyZ, r.Z)
	env.SetMain(stats.KeyPValue, r.PValue)
	env.SetMain(stats.KeyEffectSize, r.EffectSize)
}
