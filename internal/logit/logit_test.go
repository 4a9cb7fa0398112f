package logit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredict_ZeroParamsIsHalf(t *testing.T) {
	p := Params{Weights: make([]float64, 4)}
	assert.InDelta(t, 0.5, Predict([]float64{1, 2, 3, 4}, p), 1e-12)
}

func TestPredict_OpenInterval(t *testing.T) {
	p := Params{Weights: []float64{100}, Bias: 50}
	hi := Predict([]float64{10}, p)
	lo := Predict([]float64{-100}, p)
	assert.Greater(t, hi, 0.0)
	assert.Less(t, lo, 1.0)
	assert.Greater(t, hi, lo)
}

func TestPredict_ExtraInputDimensionsIgnored(t *testing.T) {
	p := Params{Weights: []float64{2}, Bias: 0}
	// The second component has no weight and must not contribute.
	assert.Equal(t, Predict([]float64{1}, p), Predict([]float64{1, 999}, p))
}

// separable builds a toy set where the first feature alone decides the label.
func separable() ([][]float64, []float64) {
	X := [][]float64{
		{1, 0.2}, {0.9, 0.1}, {0.8, 0.3}, {1, 0.5},
		{0, 0.2}, {0.1, 0.1}, {0.2, 0.3}, {0, 0.5},
	}
	y := []float64{1, 1, 1, 1, 0, 0, 0, 0}
	return X, y
}

func TestTrain_LearnsSeparablePattern(t *testing.T) {
	X, y := separable()
	p := Train(X, y, nil, DefaultOptions())

	require.Len(t, p.Weights, 2)
	assert.Positive(t, p.Weights[0])
	assert.Greater(t, Predict([]float64{1, 0.2}, p), Predict([]float64{0, 0.2}, p))
}

func TestTrain_Deterministic(t *testing.T) {
	X, y := separable()
	a := Train(X, y, nil, DefaultOptions())
	b := Train(X, y, nil, DefaultOptions())

	// Bit-identical, not merely close.
	assert.Equal(t, a, b)
}

func TestTrain_ZeroEpochsReturnsInit(t *testing.T) {
	init := &Params{ID: "m", Weights: []float64{0.4, -0.2}, Bias: 0.1}
	X, y := separable()
	p := Train(X, y, init, Options{LearningRate: 0.05, Epochs: 0, L2: 1e-4})

	assert.Equal(t, init.Weights, p.Weights)
	assert.Equal(t, init.Bias, p.Bias)
	assert.Equal(t, "m", p.ID)
}

func TestTrain_WarmStartDoesNotMutateInit(t *testing.T) {
	init := &Params{Weights: []float64{0.4, -0.2}, Bias: 0.1}
	before := append([]float64(nil), init.Weights...)
	X, y := separable()
	p := Train(X, y, init, DefaultOptions())

	assert.Equal(t, before, init.Weights)
	assert.NotEqual(t, before, p.Weights)
}

func TestTrain_WarmStartConverges(t *testing.T) {
	X, y := separable()
	first := Train(X, y, nil, DefaultOptions())
	second := Train(X, y, &first, DefaultOptions())

	// Continuing from a fitted model keeps separating the classes.
	assert.Greater(t, Predict(X[0], second), 0.5)
	assert.Less(t, Predict(X[4], second), 0.5)
}

func TestTrain_DefaultID(t *testing.T) {
	X, y := separable()
	p := Train(X, y, nil, DefaultOptions())
	assert.Equal(t, "moodRiskV1", p.ID)
}

func TestTrain_EmptySamples(t *testing.T) {
	p := Train(nil, nil, nil, Options{LearningRate: 0.05, Epochs: 0})
	assert.Empty(t, p.Weights)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 0.05, opts.LearningRate)
	assert.Equal(t, 120, opts.Epochs)
	assert.Equal(t, 1e-4, opts.L2)
}
