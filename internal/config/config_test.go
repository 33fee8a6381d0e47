package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Data: DataConfig{
			Path:      "data/Customer_Data.csv",
			PredOut:   "data/predictions.csv",
			ModelPath: "artifacts/churn_model.json",
		},
		Model: ModelConfig{
			Threshold:   0.5,
			Solver:      "lbfgs",
			MaxIter:     1000,
			ClassWeight: "balanced",
		},
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_ThresholdRange(t *testing.T) {
	for _, th := range []float64{-0.1, 1.1} {
		cfg := validConfig()
		cfg.Model.Threshold = th
		assert.Error(t, cfg.Validate(), "threshold %v", th)
	}

	for _, th := range []float64{0, 0.5, 1} {
		cfg := validConfig()
		cfg.Model.Threshold = th
		assert.NoError(t, cfg.Validate(), "threshold %v", th)
	}
}

func TestValidate_Solver(t *testing.T) {
	cfg := validConfig()
	cfg.Model.Solver = "liblinear"
	assert.Error(t, cfg.Validate())

	cfg.Model.Solver = "gradient-descent"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ClassWeight(t *testing.T) {
	cfg := validConfig()
	cfg.Model.ClassWeight = "quadratic"
	assert.Error(t, cfg.Validate())

	for _, cw := range []string{"", "none", "balanced"} {
		cfg.Model.ClassWeight = cw
		assert.NoError(t, cfg.Validate(), "class_weight %q", cw)
	}
}

func TestValidate_SQLDescriptorRequired(t *testing.T) {
	cfg := validConfig()
	cfg.SQL.Enabled = true
	cfg.SQL.DBPath = "churn.db"
	assert.Error(t, cfg.Validate(), "missing table name must fail")

	cfg.SQL.TableName = "prod_Churn"
	assert.Error(t, cfg.Validate(), "missing churn view must fail")

	cfg.SQL.ViewChurn = "vw_ChurnData"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MaxIter(t *testing.T) {
	cfg := validConfig()
	cfg.Model.MaxIter = 0
	assert.Error(t, cfg.Validate())
}
