// Package churn couples the fitted encoding pipeline with a binary
// classifier into one persisted artifact and owns the fit / predict
// probability contract.
package churn

import (
	"gonum.org/v1/gonum/mat"
)

// Classifier is the capability set the pipeline needs from any binary
// classifier. The choice of implementation is a configuration-time decision;
// nothing downstream may assume logistic regression.
type Classifier interface {
	// Fit trains on the encoded matrix and the binary label vector.
	Fit(X *mat.Dense, y []float64) error

	// PredictProba returns the positive-class probability per row.
	PredictProba(X *mat.Dense) ([]float64, error)

	// Kind identifies the classifier for artifact round-tripping.
	Kind() string
}

// classifierKinds maps artifact kind tags to empty instances ready for
// deserialization. Registering here is the extension point for new
// classifier variants.
var classifierKinds = map[string]func() Classifier{
	KindLogisticRegression: func() Classifier { return &LogisticRegression{} },
}
