package churn

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/churn-cli/internal/dataset"
	"github.com/sells-group/churn-cli/internal/feature"
)

func fittedPipeline(t *testing.T) (*Pipeline, feature.Frame) {
	t.Helper()
	tbl, err := dataset.New(
		[]string{"Age", "Monthly_Charge", "Contract", "Customer_Status"},
		[][]string{
			{"25", "30.0", "Month-to-Month", "Churned"},
			{"30", "45.5", "Month-to-Month", "Churned"},
			{"28", "50.0", "One Year", "Churned"},
			{"55", "70.0", "Two Year", "Stayed"},
			{"60", "85.5", "Two Year", "Stayed"},
			{"48", "65.0", "One Year", "Stayed"},
		},
	)
	require.NoError(t, err)

	frame, y, enc, err := feature.PrepareTrainingFrame(tbl)
	require.NoError(t, err)

	p := NewPipeline(enc, NewLogisticRegression("lbfgs", 1000, "balanced"))
	require.NoError(t, p.Fit(frame, y))
	return p, frame
}

func TestPipeline_FitPredict(t *testing.T) {
	p, frame := fittedPipeline(t)

	proba, err := p.PredictProba(frame)
	require.NoError(t, err)
	require.Len(t, proba, frame.Rows())
	for _, v := range proba {
		assert.Greater(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestPipeline_SaveLoadRoundTrip(t *testing.T) {
	p, frame := fittedPipeline(t)
	path := filepath.Join(t.TempDir(), "model.json")

	before, err := p.PredictProba(frame)
	require.NoError(t, err)

	require.NoError(t, p.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)

	after, err := loaded.PredictProba(frame)
	require.NoError(t, err)
	assert.Equal(t, before, after, "probabilities must survive the round trip exactly")
}

func TestPipeline_SaveOverwrites(t *testing.T) {
	p, _ := fittedPipeline(t)
	path := filepath.Join(t.TempDir(), "model.json")

	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))
	require.NoError(t, p.Save(path))

	_, err := Load(path)
	require.NoError(t, err)
}

func TestLoad_MissingArtifact(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoad_UnknownKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	blob := `{"version":1,"encoder":{"fitted":true},"classifier_kind":"random_forest","classifier":{}}`
	require.NoError(t, os.WriteFile(path, []byte(blob), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_VersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	blob := `{"version":99,"encoder":{"fitted":true},"classifier_kind":"logistic_regression","classifier":{}}`
	require.NoError(t, os.WriteFile(path, []byte(blob), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
