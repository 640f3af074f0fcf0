package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roverlab/mapmem/internal/graph"
	"github.com/roverlab/mapmem/internal/storage"
)

// seedDB creates a badger map database with two comparable signatures.
func seedDB(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	store := storage.NewBadgerStore()
	require.NoError(t, store.Open(dir))
	defer store.Close()

	ctx := context.Background()
	for id := 1; id <= 2; id++ {
		words := graph.NewWordTable()
		for w := 1; w <= 3; w++ {
			words.Add(w, graph.WordRef{KP: graph.KeyPoint{X: float32(w), Y: float32(id)}})
		}
		sig := graph.NewSignature(id, 0, words, graph.Identity(),
			nil, nil, nil, 0, 0, 0, 0, graph.Identity())
		require.NoError(t, store.Put(ctx, sig))
	}
	return dir
}

func TestStatsCmd(t *testing.T) {
	dir := seedDB(t)

	cmd := &StatsCmd{Path: dir}
	assert.NoError(t, cmd.Run())
}

func TestStatsCmd_MissingPath(t *testing.T) {
	t.Parallel()

	cmd := &StatsCmd{Path: filepath.Join(t.TempDir(), "nope")}
	assert.Error(t, cmd.Run())
}

func TestStatsCmd_EmptyDB(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewBadgerStore()
	require.NoError(t, store.Open(dir))
	require.NoError(t, store.Close())

	cmd := &StatsCmd{Path: dir}
	assert.NoError(t, cmd.Run())
}

func TestCompareCmd(t *testing.T) {
	dir := seedDB(t)

	cmd := &CompareCmd{Path: dir, A: 1, B: 2}
	assert.NoError(t, cmd.Run())
}

func TestCompareCmd_UnknownID(t *testing.T) {
	dir := seedDB(t)

	cmd := &CompareCmd{Path: dir, A: 1, B: 42}
	assert.Error(t, cmd.Run())
}
