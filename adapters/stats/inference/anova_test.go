package inference

import (
	"math"
	"testing"

	"gostat/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOneWayANOVA_ReferenceValues(t *testing.T) {
	r, err := OneWayANOVA([][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	require.NoError(t, err)

	assert.InDelta(t, 27.0, r.Statistic, 1e-9)
	assert.Equal(t, 2, r.DFBetween)
	assert.Equal(t, 6, r.DFWithin)
	assert.InDelta(t, 0.001, r.PValue, 1e-9)
	assert.InDelta(t, 54.0, r.SSBetween, 1e-9)
	assert.InDelta(t, 6.0, r.SSWithin, 1e-9)
	assert.InDelta(t, 0.9, r.EtaSquared, 1e-12)
	assert.InDelta(t, 27.0, r.MSBetween, 1e-9)
	assert.InDelta(t, 1.0, r.MSWithin, 1e-9)
}

func TestOneWayANOVA_UnbalancedGroups(t *testing.T) {
	r, err := OneWayANOVA([][]float64{
		{4.2, 4.8, 5.1, 4.5},
		{5.9, 6.3, 5.5, 6.1, 5.8},
		{4.9, 5.2, 5.6},
	})
	require.NoError(t, err)

	assert.InDelta(t, 15.291406, r.Statistic, 1e-5)
	assert.InDelta(t, 0.00127442, r.PValue, 1e-7)
	assert.InDelta(t, 0.772629, r.EtaSquared, 1e-5)
}

func TestOneWayANOVA_Degenerate(t *testing.T) {
	r, err := OneWayANOVA([][]float64{{1, 1}, {2, 2}})
	require.NoError(t, err)
	assert.True(t, math.IsInf(r.Statistic, 1))
	assert.Equal(t, 0.0, r.PValue)

	r, err = OneWayANOVA([][]float64{{3, 3}, {3, 3}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, r.PValue)
}

func TestOneWayANOVA_Errors(t *testing.T) {
	_, err := OneWayANOVA([][]float64{{1, 2, 3}})
	assert.ErrorIs(t, err, core.ErrInsufficientGroups)

	_, err = OneWayANOVA([][]float64{{1}, {2}})
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}
