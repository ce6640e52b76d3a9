package mapping

import (
	"encoding/json"
	"testing"

	"gostat/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnListDecoding(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ColumnList
	}{
		{"comma string", `{"independentVar":"age, income ,, height"}`, ColumnList{"age", "income", "height"}},
		{"single string", `{"independentVar":"age"}`, ColumnList{"age"}},
		{"array", `{"independentVar":[" age ","income",""]}`, ColumnList{"age", "income"}},
		{"null", `{"independentVar":null}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m VariableMapping
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &m))
			assert.Equal(t, tt.want, m.IndependentVar)
		})
	}
}

func TestColumnListNormalize(t *testing.T) {
	assert.Equal(t, ColumnList{"a", "b", "c"}, ColumnList{"a, b", " c ", ""}.Normalize())
	assert.Nil(t, ColumnList(nil).Normalize())
}

func TestColumnListRejectsNumbers(t *testing.T) {
	var m VariableMapping
	err := json.Unmarshal([]byte(`{"independentVar":[1,2]}`), &m)
	assert.ErrorIs(t, err, core.ErrInvalidPayload)
}

func TestLiteralRejectsNull(t *testing.T) {
	var m VariableMapping
	err := json.Unmarshal([]byte(`{"group1":[1,null,3]}`), &m)
	assert.ErrorIs(t, err, core.ErrTypeMismatch)

	err = json.Unmarshal([]byte(`{"group1":[1,"2"]}`), &m)
	assert.ErrorIs(t, err, core.ErrTypeMismatch)
}

func TestResolvePrefersLiteral(t *testing.T) {
	m := VariableMapping{
		GroupVar:     "group",
		DependentVar: "score",
		Group1:       Literal{1, 2, 3},
		Group2:       Literal{4, 5, 6},
	}

	src, err := m.Resolve(LiteralGroups)
	require.NoError(t, err)
	assert.Equal(t, SourceLiteral, src.Kind)
	assert.Equal(t, []float64{1, 2, 3}, src.A)
	assert.Equal(t, []float64{4, 5, 6}, src.B)

	src, err = m.Resolve(LiteralPaired)
	require.NoError(t, err)
	assert.Equal(t, SourceRoleBased, src.Kind)
}

func TestResolveHalfPair(t *testing.T) {
	m := VariableMapping{Before: Literal{1, 2}}

	_, err := m.Resolve(LiteralPaired)
	assert.ErrorIs(t, err, core.ErrMissingColumn)
	assert.Equal(t, "after", core.FieldOf(err))
}

func TestResolveSeries(t *testing.T) {
	src, err := VariableMapping{X: Literal{1}}.Resolve(LiteralSeries)
	require.NoError(t, err)
	assert.Equal(t, SourceLiteral, src.Kind)
	assert.Nil(t, src.B)
}

func TestSettingsDefaultsAndValidation(t *testing.T) {
	s := Settings{}.WithDefaults(0.05, "en")
	assert.Equal(t, 0.05, s.Alpha)
	assert.Equal(t, "en", s.Locale)
	assert.NoError(t, s.Validate())

	s.Alpha = 1.5
	assert.ErrorIs(t, s.Validate(), core.ErrInvalidSetting)

	s = Settings{Alternative: "less"}.WithDefaults(0.05, "en")
	err := s.Validate()
	assert.ErrorIs(t, err, core.ErrInvalidSetting)
	assert.Equal(t, "alternative", core.FieldOf(err))
}
