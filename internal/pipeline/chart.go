package pipeline

import (
	"github.com/rotisserie/eris"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// renderImportanceChart draws a horizontal bar chart of feature importances,
// largest on top, and saves it at path (format from the extension).
func renderImportanceChart(names []string, scores []float64, path string) error {
	// NominalY stacks bottom-up; reverse so the top feature lands on top.
	rev := make(plotter.Values, len(scores))
	revNames := make([]string, len(names))
	for i := range scores {
		rev[i] = scores[len(scores)-1-i]
		revNames[i] = names[len(names)-1-i]
	}

	p := plot.New()
	p.Title.Text = "Global Feature Importance (churn)"
	p.X.Label.Text = "Mean |attribution|"

	bars, err := plotter.NewBarChart(rev, vg.Points(12))
	if err != nil {
		return eris.Wrap(err, "pipeline: build bar chart")
	}
	bars.Horizontal = true
	p.Add(bars)
	p.NominalY(revNames...)

	if err := p.Save(9*vg.Inch, 6*vg.Inch, path); err != nil {
		return eris.Wrapf(err, "pipeline: save chart %s", path)
	}
	return nil
}
