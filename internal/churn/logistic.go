package churn

import (
	"math"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// KindLogisticRegression is the artifact tag of the default classifier.
const KindLogisticRegression = "logistic_regression"

// LogisticRegression is an L2-regularized binary logistic regression fitted
// with a gonum optimizer selected by the configured solver name. Optimization
// starts from the zero vector, so fitting is deterministic.
type LogisticRegression struct {
	Solver      string    `json:"solver"`
	MaxIter     int       `json:"max_iter"`
	ClassWeight string    `json:"class_weight"`
	L2          float64   `json:"l2"`
	Weights     []float64 `json:"weights"`
	Bias        float64   `json:"bias"`
}

// NewLogisticRegression builds an unfitted classifier from hyperparameters.
func NewLogisticRegression(solver string, maxIter int, classWeight string) *LogisticRegression {
	return &LogisticRegression{
		Solver:      solver,
		MaxIter:     maxIter,
		ClassWeight: classWeight,
		L2:          1.0,
	}
}

func (l *LogisticRegression) Kind() string { return KindLogisticRegression }

func (l *LogisticRegression) method() (optimize.Method, error) {
	switch l.Solver {
	case "lbfgs":
		return &optimize.LBFGS{}, nil
	case "gradient-descent":
		return &optimize.GradientDescent{}, nil
	default:
		return nil, eris.Errorf("churn: unsupported solver %q", l.Solver)
	}
}

// sampleWeights returns the per-sample weights implied by the class-weight
// policy: "balanced" scales each class by n / (2 * n_class).
func (l *LogisticRegression) sampleWeights(y []float64) ([]float64, error) {
	w := make([]float64, len(y))
	switch l.ClassWeight {
	case "", "none":
		for i := range w {
			w[i] = 1
		}
	case "balanced":
		var npos float64
		for _, v := range y {
			npos += v
		}
		nneg := float64(len(y)) - npos
		if npos == 0 || nneg == 0 {
			return nil, eris.New("churn: balanced weighting needs both classes present")
		}
		n := float64(len(y))
		for i, v := range y {
			if v == 1 {
				w[i] = n / (2 * npos)
			} else {
				w[i] = n / (2 * nneg)
			}
		}
	default:
		return nil, eris.Errorf("churn: unsupported class_weight %q", l.ClassWeight)
	}
	return w, nil
}

// Fit minimizes the weighted cross-entropy plus an L2 penalty on the weights
// (not the intercept).
func (l *LogisticRegression) Fit(X *mat.Dense, y []float64) error {
	n, d := X.Dims()
	if n == 0 {
		return eris.New("churn: empty training matrix")
	}
	if len(y) != n {
		return eris.Errorf("churn: %d labels for %d rows", len(y), n)
	}

	sw, err := l.sampleWeights(y)
	if err != nil {
		return err
	}
	method, err := l.method()
	if err != nil {
		return err
	}

	// theta = [weights..., bias]
	loss := func(theta []float64) float64 {
		var sum float64
		for i := 0; i < n; i++ {
			z := theta[d]
			for j := 0; j < d; j++ {
				z += theta[j] * X.At(i, j)
			}
			// log(1+exp(z)) - y*z, in the stable form
			if z > 0 {
				sum += sw[i] * (z + math.Log1p(math.Exp(-z)) - y[i]*z)
			} else {
				sum += sw[i] * (math.Log1p(math.Exp(z)) - y[i]*z)
			}
		}
		for j := 0; j < d; j++ {
			sum += 0.5 * l.L2 * theta[j] * theta[j]
		}
		return sum
	}
	grad := func(g, theta []float64) {
		for j := range g {
			g[j] = 0
		}
		for i := 0; i < n; i++ {
			z := theta[d]
			for j := 0; j < d; j++ {
				z += theta[j] * X.At(i, j)
			}
			r := sw[i] * (sigmoid(z) - y[i])
			for j := 0; j < d; j++ {
				g[j] += r * X.At(i, j)
			}
			g[d] += r
		}
		for j := 0; j < d; j++ {
			g[j] += l.L2 * theta[j]
		}
	}

	problem := optimize.Problem{Func: loss, Grad: grad}
	settings := &optimize.Settings{
		MajorIterations:   l.MaxIter,
		GradientThreshold: 1e-6,
	}

	result, err := optimize.Minimize(problem, make([]float64, d+1), settings, method)
	if err != nil {
		return eris.Wrap(err, "churn: fit logistic regression")
	}

	l.Weights = result.X[:d]
	l.Bias = result.X[d]
	return nil
}

// PredictProba returns sigmoid(w·x + b) per row.
func (l *LogisticRegression) PredictProba(X *mat.Dense) ([]float64, error) {
	if l.Weights == nil {
		return nil, eris.New("churn: classifier is not fitted")
	}
	n, d := X.Dims()
	if d != len(l.Weights) {
		return nil, eris.Errorf("churn: matrix has %d features, model has %d", d, len(l.Weights))
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		z := l.Bias
		for j := 0; j < d; j++ {
			z += l.Weights[j] * X.At(i, j)
		}
		out[i] = sigmoid(z)
	}
	return out, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
