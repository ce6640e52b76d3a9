package extract

import (
	"gostat/domain/core"
	"gostat/domain/dataset"
	"gostat/domain/mapping"
)

// DesignMatrix is a complete-case regression design without the intercept column
type DesignMatrix struct {
	Y       []float64
	X       [][]float64 // one row per observation, one column per predictor
	Columns []string
}

// Rows returns the number of observations
func (d *DesignMatrix) Rows() int {
	return len(d.Y)
}

// ExtractDesignMatrix builds y and X from dependentVar and the independent
// columns. A row missing any selected value is dropped (listwise deletion).
func ExtractDesignMatrix(rows dataset.Records, dependentVar string, independentVar mapping.ColumnList) (*DesignMatrix, error) {
	if err := checkRows(rows); err != nil {
		return nil, err
	}
	if dependentVar == "" {
		return nil, core.NewMissingColumnError(mapping.RoleDependentVar)
	}
	independentVar = independentVar.Normalize()
	if len(independentVar) == 0 {
		return nil, core.NewMissingColumnError(mapping.RoleIndependentVar)
	}

	roles := make([]role, 0, len(independentVar)+1)
	roles = append(roles, role{mapping.RoleDependentVar, dependentVar})
	for _, col := range independentVar {
		roles = append(roles, role{mapping.RoleIndependentVar, col})
	}

	cols, err := extractAligned(rows, roles...)
	if err != nil {
		return nil, err
	}

	n := len(cols[0])
	d := &DesignMatrix{
		Y:       cols[0],
		X:       make([][]float64, n),
		Columns: append([]string(nil), independentVar...),
	}
	for i := 0; i < n; i++ {
		row := make([]float64, len(independentVar))
		for j := range independentVar {
			row[j] = cols[j+1][i]
		}
		d.X[i] = row
	}
	return d, nil
}

// DesignFromLiteral builds a single-predictor design from the legacy x/y arrays
func DesignFromLiteral(x, y []float64) (*DesignMatrix, error) {
	if len(x) != len(y) {
		return nil, core.NewShapeMismatchError("x/y", len(x), len(y))
	}
	d := &DesignMatrix{Y: y, X: make([][]float64, len(x)), Columns: []string{"x"}}
	for i, v := range x {
		d.X[i] = []float64{v}
	}
	return d, nil
}
