// Package source abstracts row acquisition and prediction persistence over
// the two supported backends: flat CSV files and a local sqlite store.
package source

import (
	"context"

	"github.com/sells-group/churn-cli/internal/dataset"
)

// Source defines the data access contract shared by the train and predict
// flows. Implementations hold no open connections between calls.
type Source interface {
	// FetchTrainingRows returns the rows used for supervised training.
	FetchTrainingRows(ctx context.Context) (dataset.Table, error)

	// FetchInferenceRows returns rows for prediction. joinedOnly restricts
	// the result to newly joined customers and requires the sqlite backend.
	FetchInferenceRows(ctx context.Context, joinedOnly bool) (dataset.Table, error)

	// PersistPredictions replaces the destination wholesale with the table.
	PersistPredictions(ctx context.Context, t dataset.Table, destination string) error
}
