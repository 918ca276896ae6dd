package sim

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Softmax turns a vector of logits into a probability distribution.
// The largest logit is subtracted before exponentiating so that the
// exponentials stay bounded for large logit magnitudes.
func Softmax(logits []float64) []float64 {
	out := make([]float64, len(logits))
	largest := floats.Max(logits)

	sum := float64(0)
	for i, v := range logits {
		out[i] = math.Exp(v - largest)
		sum += out[i]
	}
	floats.Scale(1/sum, out)
	return out
}
