package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gostat/domain/core"
)

// Role names as they appear in a variable mapping
const (
	RoleGroupVar       = "groupVar"
	RoleDependentVar   = "dependentVar"
	RoleIndependentVar = "independentVar"
	RoleVariables      = "variables"
	RoleTimeVar        = "timeVar"
	RoleEventVar       = "eventVar"
)

// VariableMapping declares which columns play which statistical role.
// The legacy literal aliases carry data directly instead of naming columns.
type VariableMapping struct {
	GroupVar       string     `json:"groupVar,omitempty"`
	DependentVar   string     `json:"dependentVar,omitempty"`
	IndependentVar ColumnList `json:"independentVar,omitempty"`
	Variables      []string   `json:"variables,omitempty"`
	TimeVar        string     `json:"timeVar,omitempty"`
	EventVar       string     `json:"eventVar,omitempty"`

	Group1 Literal `json:"group1,omitempty"`
	Group2 Literal `json:"group2,omitempty"`
	Before Literal `json:"before,omitempty"`
	After  Literal `json:"after,omitempty"`
	X      Literal `json:"x,omitempty"`
	Y      Literal `json:"y,omitempty"`
	Times  Literal `json:"times,omitempty"`
	Events Literal `json:"events,omitempty"`
}

// ColumnList is an ordered list of column names. It decodes from a JSON array
// or from a single comma-separated string.
type ColumnList []string

// ParseColumnList splits a comma-separated list and trims each entry
func ParseColumnList(s string) ColumnList {
	var cols ColumnList
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			cols = append(cols, part)
		}
	}
	return cols
}

// Normalize splits any comma-separated entries and drops blanks, so
// ColumnList{"a, b"} and ColumnList{"a", "b"} name the same columns
func (c ColumnList) Normalize() ColumnList {
	var cols ColumnList
	for _, entry := range c {
		cols = append(cols, ParseColumnList(entry)...)
	}
	return cols
}

// UnmarshalJSON accepts "a, b" as well as ["a", "b"]
func (c *ColumnList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = ParseColumnList(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("%w: independentVar must be a string or an array of strings", core.ErrInvalidPayload)
	}
	var cols ColumnList
	for _, name := range list {
		if name = strings.TrimSpace(name); name != "" {
			cols = append(cols, name)
		}
	}
	*c = cols
	return nil
}

// Literal is a numeric array supplied directly in the mapping
type Literal []float64

// UnmarshalJSON rejects null or non-numeric entries instead of zero-filling them
func (l *Literal) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = nil
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: literal data must be an array of numbers", core.ErrInvalidPayload)
	}
	out := make(Literal, len(raw))
	for i, item := range raw {
		var f float64
		if bytes.Equal(bytes.TrimSpace(item), []byte("null")) || json.Unmarshal(item, &f) != nil {
			return &core.FieldError{
				Kind:   core.ErrTypeMismatch,
				Field:  "literal",
				Detail: fmt.Sprintf("entry %d is %s, numeric value required", i, string(item)),
			}
		}
		out[i] = f
	}
	*l = out
	return nil
}

// Alternative hypothesis direction
const (
	AlternativeTwoSided = "two-sided"
)

// Settings tune a single execution
type Settings struct {
	Alpha       float64 `json:"alpha,omitempty"`
	Locale      string  `json:"locale,omitempty"`
	TestValue   float64 `json:"testValue,omitempty"`
	Alternative string  `json:"alternative,omitempty"`
}

// WithDefaults fills unset fields from application defaults
func (s Settings) WithDefaults(alpha float64, locale string) Settings {
	if s.Alpha == 0 {
		s.Alpha = alpha
	}
	if s.Locale == "" {
		s.Locale = locale
	}
	if s.Alternative == "" {
		s.Alternative = AlternativeTwoSided
	}
	return s
}

// Validate checks settings ranges
func (s Settings) Validate() error {
	if s.Alpha <= 0 || s.Alpha >= 1 {
		return &core.FieldError{Kind: core.ErrInvalidSetting, Field: "alpha", Detail: fmt.Sprintf("%v is outside (0, 1)", s.Alpha)}
	}
	if s.Alternative != AlternativeTwoSided {
		return &core.FieldError{Kind: core.ErrInvalidSetting, Field: "alternative", Detail: fmt.Sprintf("%q is not supported", s.Alternative)}
	}
	return nil
}
