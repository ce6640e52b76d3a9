package stats

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeSetMainNonFinite(t *testing.T) {
	env := NewEnvelope(Metadata{Method: "ROC Curve"})
	env.SetMain(KeyOptimalThreshold, math.Inf(1))
	env.SetMain(KeyAUC, 0.75)
	env.SetMain(KeySignificant, true)

	assert.Equal(t, "Infinity", env.MainResults[KeyOptimalThreshold])
	require.NoError(t, env.ValidateMain())

	_, err := json.Marshal(env)
	require.NoError(t, err)
}

func TestEnvelopeValidateMainRejectsStructures(t *testing.T) {
	env := NewEnvelope(Metadata{Method: "x"})
	env.MainResults["points"] = []float64{1, 2}

	assert.Error(t, env.ValidateMain())
}

func TestEnvelopeWarnings(t *testing.T) {
	env := NewEnvelope(Metadata{Method: "x"})
	assert.Empty(t, env.Warnings())

	env.Warn("dropped %d groups", 2)
	env.Warn("second")
	assert.Equal(t, []string{"dropped 2 groups", "second"}, env.Warnings())
}

func TestRocPointOmitsThreshold(t *testing.T) {
	raw, err := json.Marshal(RocPoint{FalsePositiveRate: 0, TruePositiveRate: 0, Threshold: math.Inf(1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"falsePositiveRate":0,"truePositiveRate":0}`, string(raw))
}

func TestScalar(t *testing.T) {
	assert.Equal(t, 1.5, Scalar(1.5))
	assert.Equal(t, "Infinity", Scalar(math.Inf(1)))
	assert.Equal(t, "-Infinity", Scalar(math.Inf(-1)))
	assert.Equal(t, "NaN", Scalar(math.NaN()))
}
