package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/churn-cli/internal/pipeline"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Render the global feature-attribution report",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return pipeline.NewExplainer(cfg, zap.L()).Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
}
