// Package extract turns row-oriented records and a variable mapping into the
// numeric vectors statistical routines consume.
//
// Only native numeric cells are accepted. Missing cells (nil, absent, blank
// string) and non-finite numbers are dropped; any other present value in a
// numeric column fails the whole extraction with core.ErrTypeMismatch.
package extract

import (
	"fmt"

	"gostat/domain/core"
	"gostat/domain/dataset"
	"gostat/domain/mapping"
)

// Groups holds numeric values split by a categorical column. Labels keep the
// first-seen order of the groups in the input rows.
type Groups struct {
	GroupVar string
	Labels   []string
	Values   map[string][]float64
}

// Len returns the number of groups
func (g *Groups) Len() int {
	return len(g.Labels)
}

// Total returns the number of values across all groups
func (g *Groups) Total() int {
	n := 0
	for _, label := range g.Labels {
		n += len(g.Values[label])
	}
	return n
}

// Slices returns group values in label order
func (g *Groups) Slices() [][]float64 {
	out := make([][]float64, len(g.Labels))
	for i, label := range g.Labels {
		out[i] = g.Values[label]
	}
	return out
}

// FirstTwo returns the first two groups in first-seen order and the labels of
// any further groups that were left out.
func (g *Groups) FirstTwo() (a, b []float64, dropped []string) {
	if len(g.Labels) < 2 {
		return nil, nil, nil
	}
	if len(g.Labels) > 2 {
		dropped = append([]string(nil), g.Labels[2:]...)
	}
	return g.Values[g.Labels[0]], g.Values[g.Labels[1]], dropped
}

// GroupsFromLiteral wraps the legacy group1/group2 arrays
func GroupsFromLiteral(group1, group2 []float64) (*Groups, error) {
	g := &Groups{
		GroupVar: "group1/group2",
		Values:   make(map[string][]float64, 2),
	}
	for i, values := range [][]float64{group1, group2} {
		if len(values) == 0 {
			continue
		}
		label := fmt.Sprintf("group%d", i+1)
		g.Labels = append(g.Labels, label)
		g.Values[label] = values
	}
	if g.Len() < 2 {
		return nil, core.NewInsufficientGroupsError(g.GroupVar, g.Len(), 2)
	}
	return g, nil
}

// ExtractGroups groups dependentVar values by the string value of groupVar.
// Fewer than two non-empty groups is an error.
func ExtractGroups(rows dataset.Records, groupVar, dependentVar string) (*Groups, error) {
	if err := checkRows(rows); err != nil {
		return nil, err
	}
	if err := checkRoles(rows, role{mapping.RoleGroupVar, groupVar}, role{mapping.RoleDependentVar, dependentVar}); err != nil {
		return nil, err
	}
	if err := checkNumeric(rows, dependentVar); err != nil {
		return nil, err
	}

	g := &Groups{GroupVar: groupVar, Values: make(map[string][]float64)}
	for _, row := range rows {
		label, ok := dataset.Label(row[groupVar])
		if !ok {
			continue
		}
		v, kind := dataset.Numeric(row[dependentVar])
		if kind != dataset.KindNumeric {
			continue
		}
		if _, seen := g.Values[label]; !seen {
			g.Labels = append(g.Labels, label)
		}
		g.Values[label] = append(g.Values[label], v)
	}

	if g.Len() < 2 {
		return nil, core.NewInsufficientGroupsError(groupVar, g.Len(), 2)
	}
	return g, nil
}

// ExtractPaired returns two index-aligned vectors for the two columns named in
// variables. A row missing either value is dropped from both.
func ExtractPaired(rows dataset.Records, variables []string) (a, b []float64, err error) {
	if len(variables) == 0 {
		return nil, nil, core.NewMissingColumnError(mapping.RoleVariables)
	}
	if len(variables) != 2 {
		return nil, nil, core.NewInvalidVariableCountError(mapping.RoleVariables, len(variables), 2)
	}
	cols, err := extractAligned(rows,
		role{mapping.RoleVariables + "[0]", variables[0]},
		role{mapping.RoleVariables + "[1]", variables[1]},
	)
	if err != nil {
		return nil, nil, err
	}
	return cols[0], cols[1], nil
}

// ExtractSeries returns the non-missing values of a single column
func ExtractSeries(rows dataset.Records, dependentVar string) ([]float64, error) {
	cols, err := extractAligned(rows, role{mapping.RoleDependentVar, dependentVar})
	if err != nil {
		return nil, err
	}
	return cols[0], nil
}

// ExtractLabeledScores returns aligned (label, score) vectors for ROC analysis.
// Label values are not checked here.
func ExtractLabeledScores(rows dataset.Records, labelVar, scoreVar string) (labels, scores []float64, err error) {
	cols, err := extractAligned(rows,
		role{mapping.RoleDependentVar, labelVar},
		role{mapping.RoleIndependentVar, scoreVar},
	)
	if err != nil {
		return nil, nil, err
	}
	return cols[0], cols[1], nil
}

type role struct {
	name   string
	column string
}

// extractAligned applies complete-case filtering across all columns
func extractAligned(rows dataset.Records, roles ...role) ([][]float64, error) {
	if err := checkRows(rows); err != nil {
		return nil, err
	}
	if err := checkRoles(rows, roles...); err != nil {
		return nil, err
	}
	for _, r := range roles {
		if err := checkNumeric(rows, r.column); err != nil {
			return nil, err
		}
	}

	out := make([][]float64, len(roles))
	values := make([]float64, len(roles))
	for _, row := range rows {
		complete := true
		for j, r := range roles {
			v, kind := dataset.Numeric(row[r.column])
			if kind != dataset.KindNumeric {
				complete = false
				break
			}
			values[j] = v
		}
		if !complete {
			continue
		}
		for j := range roles {
			out[j] = append(out[j], values[j])
		}
	}
	for j := range out {
		if out[j] == nil {
			out[j] = []float64{}
		}
	}
	return out, nil
}

func checkRows(rows dataset.Records) error {
	if len(rows) == 0 {
		return core.ErrEmptyDataset
	}
	return nil
}

func checkRoles(rows dataset.Records, roles ...role) error {
	for _, r := range roles {
		if r.column == "" {
			return core.NewMissingColumnError(r.name)
		}
	}
	for _, r := range roles {
		if !rows.HasColumn(r.column) {
			return core.NewUnknownColumnError(r.column)
		}
	}
	return nil
}

// checkNumeric scans the whole column so a malformed cell fails the call even
// when its row would be dropped for another reason.
func checkNumeric(rows dataset.Records, column string) error {
	for i, row := range rows {
		value, ok := row[column]
		if !ok {
			continue
		}
		if _, kind := dataset.Numeric(value); kind == dataset.KindNonNumeric {
			return core.NewTypeMismatchError(column, i, value)
		}
	}
	return nil
}
