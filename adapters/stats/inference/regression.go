package inference

import (
	"fmt"
	"math"

	"gostat/domain/core"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Coefficient is one fitted regression term
type Coefficient struct {
	Name     string  `json:"name"`
	Estimate float64 `json:"estimate"`
	StdErr   float64 `json:"standardError"`
	T        float64 `json:"t"`
	PValue   float64 `json:"pvalue"`
}

// OLSResult is a fitted ordinary least squares model with intercept
type OLSResult struct {
	Coefficients []Coefficient `json:"coefficients"`
	RSquared     float64       `json:"rSquared"`
	AdjRSquared  float64       `json:"adjustedRSquared"`
	FStatistic   float64       `json:"fStatistic"`
	FPValue      float64       `json:"fPValue"`
	DFModel      int           `json:"dfModel"`
	DFResidual   int           `json:"dfResidual"`
	ResidualSE   float64       `json:"residualStandardError"`
	N            int           `json:"n"`
}

// InterceptName labels the constant term
const InterceptName = "(Intercept)"

// OLS regresses y on the columns of x plus an intercept. x has one row per
// observation.
func OLS(y []float64, x [][]float64, names []string) (*OLSResult, error) {
	n := len(y)
	if len(x) != n {
		return nil, core.NewShapeMismatchError("y/X", n, len(x))
	}
	p := len(names) + 1
	if n <= p {
		return nil, core.NewInsufficientDataError("dependentVar", n, p+1)
	}

	design := mat.NewDense(n, p, nil)
	for i, row := range x {
		if len(row) != len(names) {
			return nil, core.NewShapeMismatchError("X", len(row), len(names))
		}
		design.Set(i, 0, 1)
		for j, v := range row {
			design.Set(i, j+1, v)
		}
	}
	yVec := mat.NewVecDense(n, append([]float64(nil), y...))

	var qr mat.QR
	qr.Factorize(design)
	var rFull mat.Dense
	qr.RTo(&rFull)
	rTop := rFull.Slice(0, p, 0, p)
	if err := checkRank(design, rTop); err != nil {
		return nil, err
	}

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, yVec); err != nil {
		return nil, &core.FieldError{Kind: core.ErrSingularDesign, Field: "independentVar", Detail: err.Error()}
	}
	// (X'X)^-1 = R^-1 R^-T
	var rInv mat.Dense
	if err := rInv.Inverse(rTop); err != nil {
		return nil, &core.FieldError{Kind: core.ErrSingularDesign, Field: "independentVar", Detail: err.Error()}
	}

	var fitted mat.VecDense
	fitted.MulVec(design, &beta)

	ybar := mean(y)
	sse, sst := 0.0, 0.0
	for i := 0; i < n; i++ {
		res := y[i] - fitted.AtVec(i)
		sse += res * res
		sst += (y[i] - ybar) * (y[i] - ybar)
	}

	dfModel, dfResid := p-1, n-p
	sigma2 := sse / float64(dfResid)

	r := &OLSResult{
		Coefficients: make([]Coefficient, p),
		DFModel:      dfModel,
		DFResidual:   dfResid,
		ResidualSE:   math.Sqrt(sigma2),
		N:            n,
	}
	if sst > 0 {
		r.RSquared = 1 - sse/sst
		r.AdjRSquared = 1 - (1-r.RSquared)*float64(n-1)/float64(dfResid)
	}

	for j := 0; j < p; j++ {
		name := InterceptName
		if j > 0 {
			name = names[j-1]
		}
		est := beta.AtVec(j)
		se := math.Sqrt(math.Max(0, sigma2*rowNormSquared(&rInv, j)))
		t, pv := tStatistic(est, se, float64(dfResid))
		r.Coefficients[j] = Coefficient{Name: name, Estimate: est, StdErr: se, T: t, PValue: pv}
	}

	ssr := sst - sse
	switch {
	case sigma2 > 0:
		r.FStatistic = (ssr / float64(dfModel)) / sigma2
		r.FPValue = distuv.F{D1: float64(dfModel), D2: float64(dfResid)}.Survival(r.FStatistic)
	case ssr > 0:
		r.FStatistic = math.Inf(1)
	default:
		r.FPValue = 1
	}
	return r, nil
}

// rankTol is the smallest |R_jj| relative to the norm of design column j that
// still counts as linearly independent of the columns before it
const rankTol = 1e-10

func checkRank(design *mat.Dense, r mat.Matrix) error {
	_, p := design.Dims()
	for j := 0; j < p; j++ {
		norm := mat.Norm(design.ColView(j), 2)
		if d := math.Abs(r.At(j, j)); norm == 0 || d <= rankTol*norm {
			return &core.FieldError{Kind: core.ErrSingularDesign, Field: "independentVar", Detail: fmt.Sprintf("design column %d is linearly dependent", j)}
		}
	}
	return nil
}

func rowNormSquared(m *mat.Dense, i int) float64 {
	sum := 0.0
	for _, v := range m.RawRowView(i) {
		sum += v * v
	}
	return sum
}
