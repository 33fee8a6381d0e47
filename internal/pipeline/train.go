// Package pipeline orchestrates the three one-shot flows: train, predict,
// and explain.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/churn-cli/internal/churn"
	"github.com/sells-group/churn-cli/internal/config"
	"github.com/sells-group/churn-cli/internal/feature"
	"github.com/sells-group/churn-cli/internal/source"
)

// Trainer runs the training flow.
type Trainer struct {
	cfg *config.Config
	log *zap.Logger
}

// NewTrainer creates a Trainer.
func NewTrainer(cfg *config.Config, log *zap.Logger) *Trainer {
	return &Trainer{cfg: cfg, log: log}
}

// Run acquires training rows, fits the model pipeline, reports in-sample
// metrics, and persists the artifact, overwriting any previous one.
// Metrics are computed on the training data itself; there is no held-out
// split.
func (t *Trainer) Run(ctx context.Context) error {
	var src source.Source
	if t.cfg.SQL.Enabled {
		s := source.NewSQLite(t.cfg.SQL, t.cfg.Data.Path, t.log)
		if err := s.Init(ctx); err != nil {
			return err
		}
		src = s
	} else {
		src = source.NewFile(t.cfg.Data.Path, t.log)
	}

	raw, err := src.FetchTrainingRows(ctx)
	if err != nil {
		return err
	}

	frame, y, enc, err := feature.PrepareTrainingFrame(raw)
	if err != nil {
		return err
	}
	t.log.Info("pipeline: training frame prepared",
		zap.Int("rows", frame.Rows()),
		zap.Int("numeric", len(frame.NumCols)),
		zap.Int("categorical", len(frame.CatCols)),
	)

	clf := churn.NewLogisticRegression(t.cfg.Model.Solver, t.cfg.Model.MaxIter, t.cfg.Model.ClassWeight)
	model := churn.NewPipeline(enc, clf)

	t.log.Info("pipeline: fitting model", zap.String("solver", t.cfg.Model.Solver))
	if err := model.Fit(frame, y); err != nil {
		return err
	}

	proba, err := model.PredictProba(frame)
	if err != nil {
		return err
	}
	preds := churn.Decisions(proba, t.cfg.Model.Threshold)
	t.log.Info("pipeline: training metrics (in-sample)",
		zap.Float64("auc", churn.AUC(y, proba)),
		zap.Float64("f1", churn.F1(y, preds)),
		zap.Float64("threshold", t.cfg.Model.Threshold),
	)

	if err := model.Save(t.cfg.Data.ModelPath); err != nil {
		return err
	}
	t.log.Info("pipeline: model saved", zap.String("path", t.cfg.Data.ModelPath))
	return nil
}
