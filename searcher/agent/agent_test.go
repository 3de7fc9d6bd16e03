package agent

import (
	"context"
	"flipper/game"
	"flipper/searcher"
	"testing"

	"github.com/stretchr/testify/require"
)

func stuckModel() *game.GameModel {
	b := game.EmptyBoard()
	b.Set(0, 0, game.CellBlack)
	b.Set(7, 7, game.CellWhite)
	return game.NewGameModel(b)
}

func TestEvaluationAgent(t *testing.T) {
	t.Run("plays a legal opening move", func(t *testing.T) {
		model := game.NewGameModel(game.NewBoard())
		a := NewEvaluationAgent(searcher.NewMCTS(2, searcher.WithEpisodes(100), searcher.WithSeed(1)))

		move, _, err := a.FindMove(context.Background(), model, nil)

		require.NoError(t, err)
		require.Contains(t, model.UpdatesFor(game.PlayerBlack), move)
	})

	t.Run("reports when nothing can be played", func(t *testing.T) {
		a := NewEvaluationAgent(searcher.NewMCTS(1, searcher.WithEpisodes(10)))

		_, _, err := a.FindMove(context.Background(), stuckModel(), nil)

		require.ErrorIs(t, err, ErrNoMoves)
	})
}

func TestTrainingAgent(t *testing.T) {
	t.Run("plays a legal opening move", func(t *testing.T) {
		model := game.NewGameModel(game.NewBoard())
		a := NewTrainingAgent(searcher.NewMCTS(1, searcher.WithEpisodes(50), searcher.WithSeed(2)), 1.0, 7)

		move, _, err := a.FindMove(context.Background(), model, nil)

		require.NoError(t, err)
		require.Contains(t, model.UpdatesFor(game.PlayerBlack), move)
	})

	t.Run("rejects a non-positive temperature", func(t *testing.T) {
		require.Panics(t, func() {
			NewTrainingAgent(searcher.NewMCTS(1, searcher.WithEpisodes(1)), 0, 1)
		})
	})
}

func TestAdjustTemperature(t *testing.T) {
	a, b := game.NewMove(2, 3), game.NewMove(3, 2)
	visits := map[game.Move]float64{a: 1, b: 3}

	t.Run("temperature one keeps visit proportions", func(t *testing.T) {
		got := adjustTemperature(visits, 1.0)
		require.InDelta(t, 0.25, got[a], 1e-9)
		require.InDelta(t, 0.75, got[b], 1e-9)
	})

	t.Run("low temperature sharpens", func(t *testing.T) {
		got := adjustTemperature(visits, 0.5)
		require.InDelta(t, 0.1, got[a], 1e-9)
		require.InDelta(t, 0.9, got[b], 1e-9)
	})

	t.Run("unvisited policy is uniform", func(t *testing.T) {
		got := adjustTemperature(map[game.Move]float64{a: 0, b: 0}, 1.0)
		require.Equal(t, 0.5, got[a])
		require.Equal(t, 0.5, got[b])
	})
}

func TestSample(t *testing.T) {
	a, b := game.NewMove(2, 3), game.NewMove(3, 2)
	policy := map[game.Move]float64{a: 0.25, b: 0.75}

	require.Equal(t, a, sample(policy, 0.1))
	require.Equal(t, b, sample(policy, 0.25))
	require.Equal(t, b, sample(policy, 0.99))
	require.Equal(t, b, sample(policy, 1.0), "Rounding fallback returns the last move")
}

func TestRandomAgent(t *testing.T) {
	t.Run("plays legal moves", func(t *testing.T) {
		model := game.NewGameModel(game.NewBoard())
		a := NewRandomAgent(3)

		for i := 0; i < 10; i++ {
			move, metric, err := a.FindMove(context.Background(), model, nil)
			require.NoError(t, err)
			require.Contains(t, model.UpdatesFor(game.PlayerBlack), move)
			require.Zero(t, metric.Episodes)
		}
	})

	t.Run("same seed same moves", func(t *testing.T) {
		model := game.NewGameModel(game.NewBoard())
		a1, a2 := NewRandomAgent(9), NewRandomAgent(9)
		for i := 0; i < 5; i++ {
			m1, _, _ := a1.FindMove(context.Background(), model, nil)
			m2, _, _ := a2.FindMove(context.Background(), model, nil)
			require.Equal(t, m1, m2)
		}
	})

	t.Run("reports when nothing can be played", func(t *testing.T) {
		_, _, err := NewRandomAgent(1).FindMove(context.Background(), stuckModel(), nil)
		require.ErrorIs(t, err, ErrNoMoves)
	})
}
