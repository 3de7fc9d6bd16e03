package agent

import (
	"context"
	"flipper/experiments/metrics"
	"flipper/game"
	"flipper/searcher"
	"math"

	"golang.org/x/exp/rand"
)

type trainingAgent struct {
	mcts        *searcher.MCTS
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns a new agent for self-play during training. Moves
// are sampled in proportion to visits^(1/temperature).
func NewTrainingAgent(mcts *searcher.MCTS, temperature float64, seed uint64) Agent {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	return &trainingAgent{
		mcts:        mcts,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (a *trainingAgent) FindMove(ctx context.Context, model game.Model, path []searcher.Segment) (game.Move, metrics.SearchMetric, error) {
	visits, metric := a.mcts.Simulate(ctx, model, path)
	if len(visits) == 0 {
		return game.Move{}, metric, ErrNoMoves
	}
	policy := adjustTemperature(visits, a.temperature)
	return sample(policy, a.rng.Float64()), metric, nil
}

func adjustTemperature(policy map[game.Move]float64, temperature float64) map[game.Move]float64 {
	// Compute temperature-adjusted move probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make(map[game.Move]float64, len(policy))
	for move, visit := range policy {
		prob := math.Pow(visit, exponent)
		sum += prob
		adjusted[move] = prob
	}
	if sum == 0 { // Nothing visited yet
		for move := range adjusted {
			adjusted[move] = 1.0 / float64(len(adjusted))
		}
		return adjusted
	}
	// Normalize
	for move := range adjusted {
		adjusted[move] /= sum
	}
	return adjusted
}

// sample walks the moves in row-major order so that a given draw always
// picks the same move.
func sample(policy map[game.Move]float64, sampled float64) game.Move {
	cumulative := 0.0
	var lastMove game.Move
	for _, move := range searcher.SortedMoves(policy) {
		lastMove = move
		cumulative += policy[move]
		if sampled < cumulative {
			return move
		}
	}
	return lastMove // Fallback in case of rounding errors
}
