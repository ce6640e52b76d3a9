package executors

import (
	"context"

	"gostat/adapters/stats/inference"
	"gostat/domain/stats"
	"gostat/internal"
	"gostat/ports"
)

// ANOVAExecutor runs one-way analysis of variance across every group
type ANOVAExecutor struct {
	base
}

// NewANOVAExecutor creates a new ANOVAExecutor
func NewANOVAExecutor(logger *internal.Logger) *ANOVAExecutor {
	return &ANOVAExecutor{base: newBase(FamilyANOVA, logger, MethodOneWayANOVA)}
}

// Execute runs one-way ANOVA
func (e *ANOVAExecutor) Execute(ctx context.Context, req ports.ExecutionRequest) (*stats.ResultEnvelope, error) {
	env, settings, err := e.begin(ctx, req)
	if err != nil {
		return nil, err
	}

	g, err := groups(req)
	if err != nil {
		return nil, err
	}
	r, err := inference.OneWayANOVA(g.Slices())
	if err != nil {
		return nil, err
	}

	env.SetMain(stats.KeyStatistic, r.Statistic)
	env.SetMain(stats.KeyDF, r.DFBetween)
	env.SetMain(stats.KeyDF2, r.DFWithin)
	env.SetMain(stats.KeyPValue, r.PValue)
	env.SetMain(stats.KeyEffectSize, r.EtaSquared)
	env.SetMain(stats.KeyN, r.N)

	env.AdditionalInfo[stats.InfoGroupLabels] = g.Labels
	env.AdditionalInfo[stats.InfoAnovaTable] = map[string]any{
		"ssBetween": r.SSBetween,
		"ssWithin":  r.SSWithin,
		"msBetween": r.MSBetween,
		"msWithin":  r.MSWithin,
		"dfBetween": r.DFBetween,
		"dfWithin":  r.DFWithin,
	}
	env.AdditionalInfo[stats.InfoDescriptives] = describeGroups(g.Labels, g.Slices()...)
	return e.finish(env, r.PValue, settings.Alpha)
}
