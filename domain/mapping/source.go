package mapping

import "gostat/domain/core"

// SourceKind tags how a VariableSource carries its data
type SourceKind int

const (
	// SourceRoleBased names columns to extract from rows
	SourceRoleBased SourceKind = iota
	// SourceLiteral carries numeric arrays taken verbatim from the mapping
	SourceLiteral
)

func (k SourceKind) String() string {
	if k == SourceLiteral {
		return "literal"
	}
	return "roleBased"
}

// LiteralShape selects which legacy alias pair an executor understands
type LiteralShape int

const (
	LiteralGroups   LiteralShape = iota // group1 / group2
	LiteralPaired                       // before / after
	LiteralXY                           // x / y
	LiteralSurvival                     // times / events
	LiteralSeries                       // x alone
)

// VariableSource is the resolved input of one execution
type VariableSource struct {
	Kind    SourceKind
	Shape   LiteralShape
	A       []float64
	B       []float64
	Mapping VariableMapping
}

// Resolve picks the literal arrays for shape when present, otherwise returns a
// role-based source. Supplying only half of a literal pair is an error.
func (m VariableMapping) Resolve(shape LiteralShape) (VariableSource, error) {
	var a, b Literal
	var nameA, nameB string
	switch shape {
	case LiteralGroups:
		a, b, nameA, nameB = m.Group1, m.Group2, "group1", "group2"
	case LiteralPaired:
		a, b, nameA, nameB = m.Before, m.After, "before", "after"
	case LiteralXY:
		a, b, nameA, nameB = m.X, m.Y, "x", "y"
	case LiteralSurvival:
		a, b, nameA, nameB = m.Times, m.Events, "times", "events"
	case LiteralSeries:
		if m.X != nil {
			return VariableSource{Kind: SourceLiteral, Shape: shape, A: []float64(m.X), Mapping: m}, nil
		}
		return VariableSource{Kind: SourceRoleBased, Shape: shape, Mapping: m}, nil
	}

	switch {
	case a != nil && b != nil:
		return VariableSource{Kind: SourceLiteral, Shape: shape, A: []float64(a), B: []float64(b), Mapping: m}, nil
	case a != nil:
		return VariableSource{}, core.NewMissingColumnError(nameB)
	case b != nil:
		return VariableSource{}, core.NewMissingColumnError(nameA)
	}
	return VariableSource{Kind: SourceRoleBased, Shape: shape, Mapping: m}, nil
}
