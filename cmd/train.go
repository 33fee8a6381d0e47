package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/churn-cli/internal/pipeline"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the churn model from CSV or sqlite depending on config",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return pipeline.NewTrainer(cfg, zap.L()).Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)
}
