package pipeline

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/sells-group/churn-cli/internal/churn"
	"github.com/sells-group/churn-cli/internal/config"
	"github.com/sells-group/churn-cli/internal/feature"
	"github.com/sells-group/churn-cli/internal/source"
)

// predictionsTable is the sqlite destination for prediction writeback.
const predictionsTable = "predictions"

// PredictOptions carries the caller-supplied overrides of the predict flow.
type PredictOptions struct {
	InputPath  string // flat-file input override; empty means configured default
	OutputPath string // CSV output override; empty means configured default
	JoinedOnly bool   // restrict to newly joined customers (sqlite backend)
	SQLSave    bool   // also replace the sqlite predictions table
}

// Predictor runs the prediction flow.
type Predictor struct {
	cfg *config.Config
	log *zap.Logger
}

// NewPredictor creates a Predictor.
func NewPredictor(cfg *config.Config, log *zap.Logger) *Predictor {
	return &Predictor{cfg: cfg, log: log}
}

// Run loads the persisted artifact, scores the requested rows, and writes
// the raw rows plus churn_prob and prediction columns. Columns are only ever
// added to the output, never removed.
func (p *Predictor) Run(ctx context.Context, opts PredictOptions) error {
	model, err := churn.Load(p.cfg.Data.ModelPath)
	if err != nil {
		return err
	}

	var src source.Source
	var sqlSrc *source.SQLiteSource
	if p.cfg.SQL.Enabled {
		sqlSrc = source.NewSQLite(p.cfg.SQL, p.cfg.Data.Path, p.log)
		src = sqlSrc
	} else {
		in := opts.InputPath
		if in == "" {
			in = p.cfg.Data.Path
		}
		src = source.NewFile(in, p.log)
	}

	raw, err := src.FetchInferenceRows(ctx, opts.JoinedOnly)
	if err != nil {
		return err
	}

	frame, err := feature.PrepareInferenceFrame(raw)
	if err != nil {
		return err
	}

	proba, err := model.PredictProba(frame)
	if err != nil {
		return err
	}
	preds := churn.Decisions(proba, p.cfg.Model.Threshold)

	probCol := make([]string, len(proba))
	predCol := make([]string, len(preds))
	for i := range proba {
		probCol[i] = strconv.FormatFloat(proba[i], 'f', 4, 64)
		predCol[i] = strconv.Itoa(int(preds[i]))
	}

	out, err := raw.WithColumn("churn_prob", probCol)
	if err != nil {
		return err
	}
	out, err = out.WithColumn("prediction", predCol)
	if err != nil {
		return err
	}

	outPath := opts.OutputPath
	if outPath == "" {
		outPath = p.cfg.Data.PredOut
	}
	if sqlSrc != nil {
		if err := out.WriteCSV(outPath); err != nil {
			return err
		}
		p.log.Info("pipeline: predictions saved",
			zap.Int("rows", out.NumRows()),
			zap.String("path", outPath),
		)
		if opts.SQLSave {
			if err := sqlSrc.PersistPredictions(ctx, out, predictionsTable); err != nil {
				return err
			}
		}
		return nil
	}
	return src.PersistPredictions(ctx, out, outPath)
}
