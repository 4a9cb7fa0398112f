// Package logit implements the tiny logistic-regression classifier behind
// the daily mood-risk estimate.
package logit

import "math"

// Params are the persisted model parameters. Weights are positionally
// aligned with the feature vector order.
type Params struct {
	ID            string    `json:"id"`
	Weights       []float64 `json:"weights"`
	Bias          float64   `json:"bias"`
	LastTrainedAt int64     `json:"lastTrainedAt,omitempty"` // epoch ms
}

// Options are the fixed training hyperparameters. They are not tuned
// adaptively; training always runs the full epoch count.
type Options struct {
	LearningRate float64
	Epochs       int
	L2           float64
}

// DefaultOptions returns the standard hyperparameters.
func DefaultOptions() Options {
	return Options{LearningRate: 0.05, Epochs: 120, L2: 1e-4}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// Predict returns sigmoid(bias + x·weights), strictly in (0,1).
// Vector indices beyond the weight vector are treated as weight 0.
func Predict(x []float64, p Params) float64 {
	z := p.Bias
	for i, xi := range x {
		if i < len(p.Weights) {
			z += xi * p.Weights[i]
		}
	}
	return sigmoid(z)
}

// Train runs full-batch gradient descent with L2 regularization over the
// sample matrix X and labels y. When init is non-nil its weights and bias
// seed the run (warm start); otherwise weights start at zero, sized to the
// input dimensionality. Deterministic given identical inputs: no randomness,
// no clock. The caller stamps LastTrainedAt.
//
// An empty X yields a zero-dimension weight vector; callers guard against
// training with no samples.
func Train(X [][]float64, y []float64, init *Params, opts Options) Params {
	dim := 0
	if len(X) > 0 {
		dim = len(X[0])
	}

	var w []float64
	var b float64
	id := "moodRiskV1"
	if init != nil {
		w = append([]float64(nil), init.Weights...)
		b = init.Bias
		if init.ID != "" {
			id = init.ID
		}
	}
	if w == nil {
		w = make([]float64, dim)
	}

	for ep := 0; ep < opts.Epochs; ep++ {
		db := 0.0
		dw := make([]float64, dim)
		for i := range X {
			p := Predict(X[i], Params{Weights: w, Bias: b})
			err := p - y[i]
			db += err
			for j := 0; j < dim; j++ {
				dw[j] += err * X[i][j]
			}
		}
		n := float64(len(X))
		b -= opts.LearningRate * (db / n)
		for j := 0; j < dim && j < len(w); j++ {
			w[j] -= opts.LearningRate * (dw[j]/n + opts.L2*w[j])
		}
	}

	return Params{ID: id, Weights: w, Bias: b}
}
