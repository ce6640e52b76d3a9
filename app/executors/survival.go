package executors

import (
	"context"

	"gostat/adapters/stats/extract"
	"gostat/adapters/stats/survival"
	"gostat/domain/mapping"
	"gostat/domain/stats"
	"gostat/internal"
	"gostat/ports"
)

// SurvivalExecutor estimates Kaplan-Meier curves. With a group column it also
// estimates one curve per group and compares them with the log-rank test.
type SurvivalExecutor struct {
	base
}

// NewSurvivalExecutor creates a new SurvivalExecutor
func NewSurvivalExecutor(logger *internal.Logger) *SurvivalExecutor {
	return &SurvivalExecutor{base: newBase(FamilySurvival, logger, MethodKaplanMeier)}
}

// Execute runs the Kaplan-Meier estimate
func (e *SurvivalExecutor) Execute(ctx context.Context, req ports.ExecutionRequest) (*stats.ResultEnvelope, error) {
	env, settings, err := e.begin(ctx, req)
	if err != nil {
		return nil, err
	}

	src, err := resolve(req, mapping.LiteralSurvival)
	if err != nil {
		return nil, err
	}
	data := &extract.SurvivalData{Times: src.A, Events: src.B}
	if src.Kind == mapping.SourceRoleBased {
		m := src.Mapping
		if data, err = extract.ExtractSurvival(req.Rows, m.TimeVar, m.EventVar, m.GroupVar); err != nil {
			return nil, err
		}
	}

	overall, err := survival.Estimate(data.Times, data.Events)
	if err != nil {
		return nil, err
	}
	setCurve(env, overall)

	if data.Groups == nil {
		// Without a comparison there is no test; significance reads false
		return e.finish(env, 1, settings.Alpha)
	}

	lr, err := survival.LogRank(data.Times, data.Events, data.Groups)
	if err != nil {
		return nil, err
	}
	curves, labels, err := groupCurves(data)
	if err != nil {
		return nil, err
	}

	env.SetMain(stats.KeyStatistic, lr.ChiSquare)
	env.SetMain(stats.KeyDF, lr.DF)
	env.SetMain(stats.KeyPValue, lr.PValue)
	env.AdditionalInfo[stats.InfoGroupLabels] = labels
	env.AdditionalInfo[stats.InfoGroupCurves] = curves
	env.AdditionalInfo[stats.InfoLogRank] = lr
	return e.finish(env, lr.PValue, settings.Alpha)
}

func setCurve(env *stats.ResultEnvelope, r *stats.SurvivalResult) {
	env.SetMain(stats.KeyN, r.Subjects)
	env.SetMain(stats.KeyTotalEvents, r.TotalEvents)
	env.SetMain(stats.KeyCensored, r.Subjects-r.TotalEvents)
	if r.MedianSurvival != nil {
		env.SetMain(stats.KeyMedianSurvival, *r.MedianSurvival)
	} else {
		env.Warn("median survival not reached")
	}
	env.AdditionalInfo[stats.InfoCurve] = r.Points
	env.AdditionalInfo[stats.InfoCensoredTimes] = r.CensoredTimes
}

// groupCurves estimates one curve per group in first-seen order
func groupCurves(data *extract.SurvivalData) (map[string]*stats.SurvivalResult, []string, error) {
	var labels []string
	times := make(map[string][]float64)
	events := make(map[string][]float64)
	for i, label := range data.Groups {
		if _, seen := times[label]; !seen {
			labels = append(labels, label)
		}
		times[label] = append(times[label], data.Times[i])
		events[label] = append(events[label], data.Events[i])
	}

	curves := make(map[string]*stats.SurvivalResult, len(labels))
	for _, label := range labels {
		r, err := survival.Estimate(times[label], events[label])
		if err != nil {
			return nil, nil, err
		}
		curves[label] = r
	}
	return curves, labels, nil
}
