package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/evopoker/internal/evolve"
)

func testConfig() evolve.Config {
	return evolve.Config{
		Ranks:            4,
		BetMax:           10,
		BetStep:          2,
		Ante:             2,
		PopulationSize:   6,
		Generations:      4,
		ParentProportion: 0.5,
		MutationRate:     0.1,
		Seed:             7,
	}
}

func writeRun(t *testing.T, dir string, cfg evolve.Config) []*evolve.Snapshot {
	t.Helper()
	writer, err := NewWriter(dir, cfg)
	require.NoError(t, err)

	driver, err := evolve.NewDriver(cfg)
	require.NoError(t, err)

	var snaps []*evolve.Snapshot
	err = driver.Run(context.Background(), func(s *evolve.Snapshot) error {
		snaps = append(snaps, s)
		return writer.Append(s)
	})
	require.NoError(t, err)
	return snaps
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	want := writeRun(t, dir, cfg)

	run, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, run.Meta().Config)
	require.Equal(t, cfg.Generations, run.Generations())

	for i, wantSnap := range want {
		got, err := run.Snapshot(i)
		require.NoError(t, err)
		assert.Equal(t, wantSnap.Generation, got.Generation)
		assert.Equal(t, wantSnap.PopulationA, got.PopulationA)
		assert.Equal(t, wantSnap.PopulationB, got.PopulationB)
		assert.Equal(t, wantSnap.Payoffs, got.Payoffs)
		assert.Equal(t, wantSnap.FitnessA, got.FitnessA)
		assert.Equal(t, wantSnap.FitnessB, got.FitnessB)
	}
}

func TestWriterRefusesExistingRun(t *testing.T) {
	dir := t.TempDir()
	_, err := NewWriter(dir, testConfig())
	require.NoError(t, err)

	_, err = NewWriter(dir, testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already contains")
}

func TestOpenRejectsUnknownVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meta.json"), []byte(`{"version": 99}`), 0o644))

	_, err := Open(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	meta := `{"version": 1, "config": {"ranks": 1}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meta.json"), []byte(meta), 0o644))

	_, err := Open(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config invalid")
}

func TestRefreshPicksUpNewSnapshots(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	writer, err := NewWriter(dir, cfg)
	require.NoError(t, err)

	driver, err := evolve.NewDriver(cfg)
	require.NoError(t, err)
	snaps, err := driver.RunAll(context.Background())
	require.NoError(t, err)

	require.NoError(t, writer.Append(snaps[0]))
	run, err := Open(dir)
	require.NoError(t, err)
	require.Equal(t, 1, run.Generations())

	require.NoError(t, writer.Append(snaps[1]))
	require.NoError(t, run.Refresh())
	assert.Equal(t, 2, run.Generations())
}
