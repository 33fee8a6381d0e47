package source

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/churn-cli/internal/dataset"
)

// FileSource reads and writes flat CSV files.
type FileSource struct {
	path string
	log  *zap.Logger
}

// NewFile creates a FileSource over the given CSV path.
func NewFile(path string, log *zap.Logger) *FileSource {
	return &FileSource{path: path, log: log}
}

func (s *FileSource) FetchTrainingRows(_ context.Context) (dataset.Table, error) {
	s.log.Info("source: loading training data", zap.String("path", s.path))
	return dataset.ReadCSV(s.path)
}

func (s *FileSource) FetchInferenceRows(_ context.Context, joinedOnly bool) (dataset.Table, error) {
	if joinedOnly {
		return dataset.Table{}, eris.New("source: joined-only mode requires the sqlite backend")
	}
	s.log.Info("source: loading inference data", zap.String("path", s.path))
	return dataset.ReadCSV(s.path)
}

func (s *FileSource) PersistPredictions(_ context.Context, t dataset.Table, destination string) error {
	if err := t.WriteCSV(destination); err != nil {
		return err
	}
	s.log.Info("source: predictions saved",
		zap.Int("rows", t.NumRows()),
		zap.String("path", destination),
	)
	return nil
}
