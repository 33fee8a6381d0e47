package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestFileSource(t *testing.T) (*FileSource, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "customers.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))
	return NewFile(path, zap.NewNop()), dir
}

func TestFile_FetchTrainingRows(t *testing.T) {
	s, _ := newTestFileSource(t)

	got, err := s.FetchTrainingRows(context.Background())
	require.NoError(t, err)
	// Flat files are read unfiltered; label filtering happens downstream.
	assert.Equal(t, 4, got.NumRows())
	assert.Contains(t, got.Columns(), "Customer_Status")
}

func TestFile_JoinedOnlyRejected(t *testing.T) {
	s, _ := newTestFileSource(t)

	_, err := s.FetchInferenceRows(context.Background(), true)
	assert.Error(t, err)
}

func TestFile_PersistPredictions(t *testing.T) {
	s, dir := newTestFileSource(t)
	ctx := context.Background()

	raw, err := s.FetchInferenceRows(ctx, false)
	require.NoError(t, err)

	dest := filepath.Join(dir, "predictions.csv")
	require.NoError(t, s.PersistPredictions(ctx, raw, dest))

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
