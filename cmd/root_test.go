package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"train", "predict", "explain"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "churn-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestPredictCommand_Flags(t *testing.T) {
	for _, name := range []string{"input", "output", "joined", "sql-save"} {
		require.NotNil(t, predictCmd.Flags().Lookup(name), "predict command should have --%s flag", name)
	}

	joined := predictCmd.Flags().Lookup("joined")
	assert.Equal(t, "false", joined.DefValue)
}

func TestTrainAndExplainCommands_NoFlags(t *testing.T) {
	assert.False(t, trainCmd.Flags().HasFlags())
	assert.False(t, explainCmd.Flags().HasFlags())
}
