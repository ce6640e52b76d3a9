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

// RegressionExecutor fits ordinary least squares models
type RegressionExecutor struct {
	base
}

// NewRegressionExecutor creates a new RegressionExecutor
func NewRegressionExecutor(logger *internal.Logger) *RegressionExecutor {
	return &RegressionExecutor{base: newBase(FamilyRegression, logger, MethodLinearRegression)}
}

// Execute fits y on the independent columns (or the literal x/y arrays)
func (e *RegressionExecutor) Execute(ctx context.Context, req ports.ExecutionRequest) (*stats.ResultEnvelope, error) {
	env, settings, err := e.begin(ctx, req)
	if err != nil {
		return nil, err
	}

	src, err := resolve(req, mapping.LiteralXY)
	if err != nil {
		return nil, err
	}
	var design *extract.DesignMatrix
	if src.Kind == mapping.SourceLiteral {
		design, err = extract.DesignFromLiteral(src.A, src.B)
	} else {
		design, err = extract.ExtractDesignMatrix(req.Rows, src.Mapping.DependentVar, src.Mapping.IndependentVar)
	}
	if err != nil {
		return nil, err
	}

	r, err := inference.OLS(design.Y, design.X, design.Columns)
	if err != nil {
		return nil, err
	}
	if dropped := len(req.Rows) - design.Rows(); src.Kind == mapping.SourceRoleBased && dropped > 0 {
		e.logger.Debug("%s: listwise deletion dropped %d of %d rows", req.Method, dropped, len(req.Rows))
	}

	env.SetMain(stats.KeyStatistic, r.FStatistic)
	env.SetMain(stats.KeyDF, r.DFModel)
	env.SetMain(stats.KeyDF2, r.DFResidual)
	env.SetMain(stats.KeyPValue, r.FPValue)
	env.SetMain(stats.KeyRSquared, r.RSquared)
	env.SetMain(stats.KeyAdjRSquared, r.AdjRSquared)
	env.SetMain(stats.KeyN, r.N)

	coefficients := make([]map[string]any, len(r.Coefficients))
	for i, c := range r.Coefficients {
		coefficients[i] = map[string]any{
			"name":          c.Name,
			"estimate":      c.Estimate,
			"standardError": c.StdErr,
			"t":             stats.Scalar(c.T),
			stats.KeyPValue: c.PValue,
		}
	}
	env.AdditionalInfo[stats.InfoCoefficients] = coefficients
	env.AdditionalInfo["residualStandardError"] = r.ResidualSE
	return e.finish(env, r.FPValue, settings.Alpha)
}
