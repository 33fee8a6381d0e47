package churn

import (
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// AUC computes the area under the ROC curve for binary labels and predicted
// positive-class probabilities.
func AUC(y, proba []float64) float64 {
	type pair struct {
		score float64
		pos   bool
	}
	pairs := make([]pair, len(y))
	for i := range y {
		pairs[i] = pair{score: proba[i], pos: y[i] == 1}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].score < pairs[j].score })

	scores := make([]float64, len(pairs))
	classes := make([]bool, len(pairs))
	for i, p := range pairs {
		scores[i] = p.score
		classes[i] = p.pos
	}

	tpr, fpr, _ := stat.ROC(nil, scores, classes, nil)
	return integrate.Trapezoidal(fpr, tpr)
}

// F1 computes the F1 score of binary decisions against binary labels.
// Returns 0 when there are no positive predictions and no positive labels.
func F1(y, preds []float64) float64 {
	var tp, fp, fn float64
	for i := range y {
		switch {
		case preds[i] == 1 && y[i] == 1:
			tp++
		case preds[i] == 1 && y[i] == 0:
			fp++
		case preds[i] == 0 && y[i] == 1:
			fn++
		}
	}
	denom := 2*tp + fp + fn
	if denom == 0 {
		return 0
	}
	return 2 * tp / denom
}

// Decisions applies the probability threshold: churn = proba >= threshold.
func Decisions(proba []float64, threshold float64) []float64 {
	out := make([]float64, len(proba))
	for i, p := range proba {
		if p >= threshold {
			out[i] = 1
		}
	}
	return out
}
