package pipeline

import (
	"math"
	"math/rand"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/mat"

	"github.com/sells-group/churn-cli/internal/churn"
)

const (
	// backgroundCap bounds the reference sample the attributions are
	// computed against.
	backgroundCap = 200

	// permutationsPerRow is the number of sampled feature orderings per
	// explained row.
	permutationsPerRow = 32

	attributionSeed = 42
)

// globalAttribution estimates per-feature Shapley attributions of the
// classifier's positive-class probability by sampling feature permutations
// against a fixed-seed background drawn from X, then reduces them to one
// scalar per feature via the mean absolute value across rows.
func globalAttribution(clf churn.Classifier, X *mat.Dense) ([]float64, error) {
	n, d := X.Dims()
	if n == 0 || d == 0 {
		return nil, eris.New("pipeline: empty matrix for attribution")
	}

	rng := rand.New(rand.NewSource(attributionSeed))

	bn := backgroundCap
	if n < bn {
		bn = n
	}
	bgIdx := rng.Perm(n)[:bn]

	importance := make([]float64, d)
	row := make([]float64, d)
	for i := 0; i < n; i++ {
		mat.Row(row, i, X)
		phi, err := shapleyRow(clf, row, X, bgIdx, rng)
		if err != nil {
			return nil, err
		}
		for j := 0; j < d; j++ {
			importance[j] += math.Abs(phi[j])
		}
	}
	for j := 0; j < d; j++ {
		importance[j] /= float64(n)
	}
	return importance, nil
}

// shapleyRow accumulates marginal contributions along sampled permutations:
// starting from a background row, features flip to the explained row's
// values one at a time, and each feature is credited the probability change
// it causes. Coalition probabilities are evaluated in one batched call.
func shapleyRow(clf churn.Classifier, x []float64, X *mat.Dense, bgIdx []int, rng *rand.Rand) ([]float64, error) {
	d := len(x)
	steps := d + 1

	coalitions := mat.NewDense(permutationsPerRow*steps, d, nil)
	orders := make([][]int, permutationsPerRow)
	z := make([]float64, d)
	for p := 0; p < permutationsPerRow; p++ {
		mat.Row(z, bgIdx[rng.Intn(len(bgIdx))], X)
		coalitions.SetRow(p*steps, z)

		orders[p] = rng.Perm(d)
		for s, j := range orders[p] {
			z[j] = x[j]
			coalitions.SetRow(p*steps+s+1, z)
		}
	}

	proba, err := clf.PredictProba(coalitions)
	if err != nil {
		return nil, err
	}

	phi := make([]float64, d)
	for p := 0; p < permutationsPerRow; p++ {
		for s, j := range orders[p] {
			phi[j] += proba[p*steps+s+1] - proba[p*steps+s]
		}
	}
	for j := 0; j < d; j++ {
		phi[j] /= permutationsPerRow
	}
	return phi, nil
}
