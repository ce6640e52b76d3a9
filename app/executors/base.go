// Package executors implements one MethodExecutor per analysis family. Each
// executor resolves the variable source, extracts and validates vectors, runs
// the numeric routine and fills a ResultEnvelope.
package executors

import (
	"context"
	"fmt"
	"slices"

	"gostat/adapters/stats/extract"
	"gostat/adapters/stats/inference"
	"gostat/domain/core"
	"gostat/domain/mapping"
	"gostat/domain/stats"
	"gostat/internal"
	"gostat/internal/locale"
	"gostat/ports"
)

// Analysis families
const (
	FamilyTTest         = "ttest"
	FamilyNonparametric = "nonparametric"
	FamilyANOVA         = "anova"
	FamilyRegression    = "regression"
	FamilySurvival      = "survival"
	FamilyROC           = "roc"
)

// Method identifiers
const (
	MethodIndependentTTest = "independent-ttest"
	MethodPairedTTest      = "paired-ttest"
	MethodOneSampleTTest   = "one-sample-ttest"
	MethodMannWhitney      = "mann-whitney"
	MethodWilcoxon         = "wilcoxon-signed-rank"
	MethodKruskalWallis    = "kruskal-wallis"
	MethodOneWayANOVA      = "one-way-anova"
	MethodLinearRegression = "linear-regression"
	MethodKaplanMeier      = "kaplan-meier"
	MethodROCCurve         = "roc-curve"
)

// Used when a request reaches an executor without dispatcher defaults
const (
	defaultAlpha  = 0.05
	defaultLocale = "en"
)

// base carries what every executor shares. It holds no per-call state.
type base struct {
	family  string
	methods []string
	logger  *internal.Logger
}

func newBase(family string, logger *internal.Logger, methods ...string) base {
	return base{family: family, methods: methods, logger: logger}
}

// Family returns the analysis family name
func (b *base) Family() string {
	return b.family
}

// Methods returns the method ids this executor handles
func (b *base) Methods() []string {
	return slices.Clone(b.methods)
}

// begin checks the request and opens the envelope for it
func (b *base) begin(ctx context.Context, req ports.ExecutionRequest) (*stats.ResultEnvelope, mapping.Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, mapping.Settings{}, err
	}
	if !slices.Contains(b.methods, req.Method) {
		return nil, mapping.Settings{}, fmt.Errorf("%w: %q is not a %s method", core.ErrUnknownMethod, req.Method, b.family)
	}

	settings := req.Settings.WithDefaults(defaultAlpha, defaultLocale)
	if err := settings.Validate(); err != nil {
		return nil, settings, err
	}

	env := stats.NewEnvelope(stats.Metadata{
		Method:   locale.Label(req.Method, settings.Locale),
		MethodID: req.Method,
		Family:   b.family,
		RunID:    core.NewRunID().String(),
		Locale:   locale.Match(settings.Locale).String(),
	})
	return env, settings, nil
}

// resolve picks the variable source for shape. A role-based source needs rows.
func resolve(req ports.ExecutionRequest, shape mapping.LiteralShape) (mapping.VariableSource, error) {
	src, err := req.Mapping.Resolve(shape)
	if err != nil {
		return src, err
	}
	if src.Kind == mapping.SourceRoleBased && len(req.Rows) == 0 {
		return src, core.ErrEmptyDataset
	}
	return src, nil
}

// groups extracts labelled groups from either source kind
func groups(req ports.ExecutionRequest) (*extract.Groups, error) {
	src, err := resolve(req, mapping.LiteralGroups)
	if err != nil {
		return nil, err
	}
	if src.Kind == mapping.SourceLiteral {
		return extract.GroupsFromLiteral(src.A, src.B)
	}
	return extract.ExtractGroups(req.Rows, src.Mapping.GroupVar, src.Mapping.DependentVar)
}

// paired extracts two aligned vectors from before/after or variables
func paired(req ports.ExecutionRequest) (before, after []float64, err error) {
	src, err := resolve(req, mapping.LiteralPaired)
	if err != nil {
		return nil, nil, err
	}
	if src.Kind == mapping.SourceLiteral {
		if len(src.A) != len(src.B) {
			return nil, nil, core.NewShapeMismatchError("before/after", len(src.A), len(src.B))
		}
		return src.A, src.B, nil
	}
	return extract.ExtractPaired(req.Rows, src.Mapping.Variables)
}

// firstTwo narrows groups to the first two in first-seen order. Any further
// groups are reported as a warning and listed under droppedGroups.
func (b *base) firstTwo(env *stats.ResultEnvelope, g *extract.Groups) (x, y []float64, labels []string) {
	x, y, dropped := g.FirstTwo()
	labels = slices.Clone(g.Labels[:2])
	if len(dropped) > 0 {
		env.Warn("%s has %d groups; only %q and %q were compared", g.GroupVar, g.Len(), labels[0], labels[1])
		env.AdditionalInfo[stats.InfoDroppedGroups] = dropped
		b.logger.Warn("%s: %s has %d groups, dropped %v", env.Metadata.MethodID, g.GroupVar, g.Len(), dropped)
	}
	env.AdditionalInfo[stats.InfoGroupLabels] = labels
	return x, y, labels
}

func describeGroups(labels []string, values ...[]float64) map[string]inference.Descriptive {
	out := make(map[string]inference.Descriptive, len(labels))
	for i, label := range labels {
		out[label] = inference.Describe(values[i])
	}
	return out
}

// finish records significance, checks the main results and logs the run
func (b *base) finish(env *stats.ResultEnvelope, pvalue, alpha float64) (*stats.ResultEnvelope, error) {
	env.SetMain(stats.KeySignificant, pvalue < alpha)
	if err := env.ValidateMain(); err != nil {
		return nil, fmt.Errorf("%s: %w", env.Metadata.MethodID, err)
	}
	b.logger.Debug("%s run %s: p=%.6g", env.Metadata.MethodID, env.Metadata.RunID, pvalue)
	return env, nil
}
