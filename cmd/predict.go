package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/churn-cli/internal/pipeline"
)

var predictOpts pipeline.PredictOptions

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Generate churn predictions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return pipeline.NewPredictor(cfg, zap.L()).Run(cmd.Context(), predictOpts)
	},
}

func init() {
	predictCmd.Flags().StringVar(&predictOpts.InputPath, "input", "", "custom CSV input file (optional)")
	predictCmd.Flags().StringVar(&predictOpts.OutputPath, "output", "", "custom CSV output file (optional)")
	predictCmd.Flags().BoolVar(&predictOpts.JoinedOnly, "joined", false, "predict only newly joined customers via the sqlite joined view")
	predictCmd.Flags().BoolVar(&predictOpts.SQLSave, "sql-save", false, "also replace the sqlite predictions table")
	rootCmd.AddCommand(predictCmd)
}
