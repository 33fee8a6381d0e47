// Package config loads and validates the application configuration.
package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	Model  ModelConfig  `yaml:"model" mapstructure:"model"`
	SQL    SQLConfig    `yaml:"sql" mapstructure:"sql"`
	Report ReportConfig `yaml:"report" mapstructure:"report"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// DataConfig configures input and output file paths.
type DataConfig struct {
	Path      string `yaml:"path" mapstructure:"path"`
	PredOut   string `yaml:"pred_out" mapstructure:"pred_out"`
	Artifacts string `yaml:"artifacts_dir" mapstructure:"artifacts_dir"`
	ModelPath string `yaml:"model_path" mapstructure:"model_path"`
}

// ModelConfig configures the classifier and the decision rule.
type ModelConfig struct {
	Threshold   float64 `yaml:"threshold" mapstructure:"threshold"`
	Solver      string  `yaml:"solver" mapstructure:"solver"`
	MaxIter     int     `yaml:"max_iter" mapstructure:"max_iter"`
	ClassWeight string  `yaml:"class_weight" mapstructure:"class_weight"`
}

// SQLConfig configures the optional sqlite backend.
type SQLConfig struct {
	Enabled    bool   `yaml:"enabled" mapstructure:"enabled"`
	DBPath     string `yaml:"db_path" mapstructure:"db_path"`
	TableName  string `yaml:"table_name" mapstructure:"table_name"`
	ViewChurn  string `yaml:"view_churn" mapstructure:"view_churn"`
	ViewJoined string `yaml:"view_joined" mapstructure:"view_joined"`
	ScriptPath string `yaml:"script_path" mapstructure:"script_path"`
}

// ReportConfig configures explainability report output.
type ReportConfig struct {
	Dir              string `yaml:"dir" mapstructure:"dir"`
	GlobalImportance string `yaml:"global_importance" mapstructure:"global_importance"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

var supportedSolvers = map[string]bool{
	"lbfgs":            true,
	"gradient-descent": true,
}

var supportedClassWeights = map[string]bool{
	"":         true,
	"none":     true,
	"balanced": true,
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CHURN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.path", "data/Customer_Data.csv")
	v.SetDefault("data.pred_out", "data/predictions.csv")
	v.SetDefault("data.artifacts_dir", "artifacts")
	v.SetDefault("data.model_path", "artifacts/churn_model.json")
	v.SetDefault("model.threshold", 0.5)
	v.SetDefault("model.solver", "lbfgs")
	v.SetDefault("model.max_iter", 1000)
	v.SetDefault("model.class_weight", "balanced")
	v.SetDefault("sql.enabled", false)
	v.SetDefault("sql.db_path", "churn.db")
	v.SetDefault("sql.script_path", "SQLQueries.sql")
	v.SetDefault("report.dir", "reports")
	v.SetDefault("report.global_importance", "reports/global_importance.png")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional; defaults cover a bare checkout)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for _, dir := range []string{cfg.Data.Artifacts, cfg.Report.Dir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrapf(err, "config: create dir %s", dir)
		}
	}

	return &cfg, nil
}

// Validate checks required fields. A missing SQL descriptor key is a
// configuration error, never a silent fallback.
func (c *Config) Validate() error {
	if c.Data.Path == "" {
		return eris.New("config: data.path is required")
	}
	if c.Model.Threshold < 0 || c.Model.Threshold > 1 {
		return eris.Errorf("config: model.threshold %v outside [0,1]", c.Model.Threshold)
	}
	if !supportedSolvers[c.Model.Solver] {
		return eris.Errorf("config: unsupported solver %q", c.Model.Solver)
	}
	if !supportedClassWeights[c.Model.ClassWeight] {
		return eris.Errorf("config: unsupported class_weight %q", c.Model.ClassWeight)
	}
	if c.Model.MaxIter <= 0 {
		return eris.Errorf("config: model.max_iter must be positive, got %d", c.Model.MaxIter)
	}
	if c.SQL.Enabled {
		if c.SQL.TableName == "" {
			return eris.New("config: sql.table_name is required when sql.enabled")
		}
		if c.SQL.ViewChurn == "" {
			return eris.New("config: sql.view_churn is required when sql.enabled")
		}
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
