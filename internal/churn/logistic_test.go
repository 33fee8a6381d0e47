package churn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// separable returns a small, well-scaled dataset where the positive class
// lives at higher feature values.
func separable() (*mat.Dense, []float64) {
	X := mat.NewDense(8, 1, []float64{
		-2.0, -1.5, -1.0, -0.5,
		0.5, 1.0, 1.5, 2.0,
	})
	y := []float64{0, 0, 0, 0, 1, 1, 1, 1}
	return X, y
}

func TestLogisticRegression_FitAndPredict(t *testing.T) {
	for _, solver := range []string{"lbfgs", "gradient-descent"} {
		t.Run(solver, func(t *testing.T) {
			X, y := separable()
			clf := NewLogisticRegression(solver, 1000, "")
			require.NoError(t, clf.Fit(X, y))

			proba, err := clf.PredictProba(X)
			require.NoError(t, err)
			for i, p := range proba {
				assert.Greater(t, p, 0.0)
				assert.Less(t, p, 1.0)
				if y[i] == 1 {
					assert.Greater(t, p, 0.5, "row %d", i)
				} else {
					assert.Less(t, p, 0.5, "row %d", i)
				}
			}
		})
	}
}

func TestLogisticRegression_Deterministic(t *testing.T) {
	X, y := separable()

	a := NewLogisticRegression("lbfgs", 1000, "")
	require.NoError(t, a.Fit(X, y))
	b := NewLogisticRegression("lbfgs", 1000, "")
	require.NoError(t, b.Fit(X, y))

	assert.Equal(t, a.Weights, b.Weights)
	assert.Equal(t, a.Bias, b.Bias)
}

func TestLogisticRegression_UnsupportedSolver(t *testing.T) {
	X, y := separable()
	clf := NewLogisticRegression("liblinear", 100, "")
	assert.Error(t, clf.Fit(X, y))
}

func TestLogisticRegression_BalancedWeights(t *testing.T) {
	clf := NewLogisticRegression("lbfgs", 100, "balanced")

	w, err := clf.sampleWeights([]float64{1, 0, 0, 0})
	require.NoError(t, err)
	// n=4, npos=1, nneg=3: pos weight 4/2=2, neg weight 4/6
	assert.InDelta(t, 2.0, w[0], 1e-12)
	assert.InDelta(t, 4.0/6.0, w[1], 1e-12)

	_, err = clf.sampleWeights([]float64{0, 0})
	assert.Error(t, err, "single-class data cannot be balanced")
}

func TestLogisticRegression_PredictBeforeFit(t *testing.T) {
	X, _ := separable()
	clf := NewLogisticRegression("lbfgs", 100, "")
	_, err := clf.PredictProba(X)
	assert.Error(t, err)
}

func TestLogisticRegression_DimensionMismatch(t *testing.T) {
	X, y := separable()
	clf := NewLogisticRegression("lbfgs", 1000, "")
	require.NoError(t, clf.Fit(X, y))

	wide := mat.NewDense(1, 3, []float64{1, 2, 3})
	_, err := clf.PredictProba(wide)
	assert.Error(t, err)
}

func TestLogisticRegression_LabelCountMismatch(t *testing.T) {
	X, _ := separable()
	clf := NewLogisticRegression("lbfgs", 100, "")
	assert.Error(t, clf.Fit(X, []float64{0, 1}))
}
