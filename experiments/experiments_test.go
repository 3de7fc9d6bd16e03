package experiments

import (
	"context"
	"flipper/experiments/metrics"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	t.Run("known experiments", func(t *testing.T) {
		for _, name := range Names() {
			e, err := ByName(name, time.Millisecond)
			require.NoError(t, err)
			require.Equal(t, name, e.Name)
			require.NotEmpty(t, e.MatchUps)
		}
	})

	t.Run("unknown experiment", func(t *testing.T) {
		_, err := ByName("speedup", time.Millisecond)
		require.ErrorContains(t, err, "throughput")
	})

	t.Run("baselines are listed with the configs", func(t *testing.T) {
		e := Parallelization(time.Millisecond)
		ids := map[int]bool{}
		for _, c := range e.Configs {
			ids[c.ID] = true
		}
		for _, m := range e.MatchUps {
			require.True(t, ids[m[0].ID])
			require.True(t, ids[m[1].ID])
			require.Equal(t, 0, m[0].ID)
		}
	})
}

func TestRunner(t *testing.T) {
	small := metrics.AgentConfig{ID: 1, Goroutines: 1, Episodes: 5}
	cut := metrics.AgentConfig{ID: 2, Goroutines: 2, Episodes: 5, Cutoff: 4, Evaluator: "corners"}
	e := Experiment{
		Name:     "unit",
		Configs:  []metrics.AgentConfig{small, cut},
		MatchUps: [][2]metrics.AgentConfig{{small, cut}},
	}

	t.Run("writes every report", func(t *testing.T) {
		dir, err := Runner{Games: 2, OutputDir: t.TempDir(), Seed: 1}.Run(context.Background(), e)

		require.NoError(t, err)
		for _, name := range []string{"agent_configs.csv", "game_records.csv", "move_records.csv", "wins.html"} {
			_, err := os.Stat(filepath.Join(dir, name))
			require.NoError(t, err, name)
		}
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Runner{Games: 1, OutputDir: t.TempDir()}.Run(ctx, e)

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestCreateMCTS(t *testing.T) {
	require.NotNil(t, CreateMCTS(metrics.AgentConfig{Goroutines: 1, Episodes: 1, Evaluator: "mobility", Exploration: 1}, 3))
	require.Panics(t, func() {
		CreateMCTS(metrics.AgentConfig{Goroutines: 1}, 0)
	})
}
