package pipeline

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/churn-cli/internal/churn"
	"github.com/sells-group/churn-cli/internal/config"
	"github.com/sells-group/churn-cli/internal/dataset"
	"github.com/sells-group/churn-cli/internal/feature"
)

// topFeatures caps the attribution report length.
const topFeatures = 20

// Explainer runs the explainability flow.
type Explainer struct {
	cfg *config.Config
	log *zap.Logger
}

// NewExplainer creates an Explainer.
func NewExplainer(cfg *config.Config, log *zap.Logger) *Explainer {
	return &Explainer{cfg: cfg, log: log}
}

// Run loads the persisted artifact, recomputes the numeric matrix over the
// full source file, computes global attributions, and renders the ranked
// report image.
func (e *Explainer) Run(_ context.Context) error {
	model, err := churn.Load(e.cfg.Data.ModelPath)
	if err != nil {
		return err
	}

	raw, err := dataset.ReadCSV(e.cfg.Data.Path)
	if err != nil {
		return err
	}
	frame, err := feature.PrepareInferenceFrame(raw)
	if err != nil {
		return err
	}

	e.log.Info("pipeline: transforming data for attribution", zap.Int("rows", frame.Rows()))
	X, err := model.Encoder.Transform(frame)
	if err != nil {
		return err
	}
	_, d := X.Dims()

	names := model.Encoder.FeatureNames()
	if len(names) != d {
		names = make([]string, d)
		for i := range names {
			names[i] = fmt.Sprintf("feat_%d", i)
		}
	}

	e.log.Info("pipeline: computing attributions",
		zap.Int("features", d),
		zap.String("classifier", model.Classifier.Kind()),
	)
	importance, err := globalAttribution(model.Classifier, X)
	if err != nil {
		return err
	}

	order := make([]int, d)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return importance[order[a]] > importance[order[b]]
	})

	top := topFeatures
	if d < top {
		top = d
	}
	rankedNames := make([]string, top)
	rankedScores := make([]float64, top)
	for i := 0; i < top; i++ {
		rankedNames[i] = names[order[i]]
		rankedScores[i] = importance[order[i]]
	}

	if err := renderImportanceChart(rankedNames, rankedScores, e.cfg.Report.GlobalImportance); err != nil {
		return err
	}
	e.log.Info("pipeline: importance report saved",
		zap.String("path", e.cfg.Report.GlobalImportance),
		zap.Int("features", top),
	)
	return nil
}
