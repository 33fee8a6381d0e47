package churn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAUC(t *testing.T) {
	y := []float64{0, 0, 1, 1}

	assert.InDelta(t, 1.0, AUC(y, []float64{0.1, 0.2, 0.8, 0.9}), 1e-12, "perfect ranking")
	assert.InDelta(t, 0.0, AUC(y, []float64{0.9, 0.8, 0.2, 0.1}), 1e-12, "inverted ranking")
}

func TestF1(t *testing.T) {
	y := []float64{1, 1, 0, 0}

	assert.InDelta(t, 1.0, F1(y, []float64{1, 1, 0, 0}), 1e-12)
	// tp=1 fp=1 fn=1: F1 = 2/(2+1+1) = 0.5
	assert.InDelta(t, 0.5, F1(y, []float64{1, 0, 1, 0}), 1e-12)
	assert.Zero(t, F1([]float64{0, 0}, []float64{0, 0}))
}

func TestDecisions_ThresholdMonotonic(t *testing.T) {
	proba := []float64{0.1, 0.4, 0.5, 0.9}

	low := Decisions(proba, 0.3)
	high := Decisions(proba, 0.7)

	// raising the threshold can only flip 1 -> 0
	for i := range proba {
		if low[i] == 0 {
			assert.Zero(t, high[i], "row %d flipped 0 -> 1", i)
		}
	}
	assert.Equal(t, []float64{0, 1, 1, 1}, low)
	assert.Equal(t, []float64{0, 0, 0, 1}, high)
}

func TestDecisions_ThresholdInclusive(t *testing.T) {
	got := Decisions([]float64{0.5}, 0.5)
	assert.Equal(t, []float64{1}, got, "decision is proba >= threshold")
}
