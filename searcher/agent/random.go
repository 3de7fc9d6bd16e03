package agent

import (
	"context"
	"flipper/experiments/metrics"
	"flipper/game"
	"flipper/searcher"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns a baseline agent that plays a uniformly random
// legal move without searching.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(ctx context.Context, model game.Model, path []searcher.Segment) (game.Move, metrics.SearchMetric, error) {
	moves := model.UpdatesFor(model.ActivePlayer())
	if len(moves) == 0 {
		return game.Move{}, metrics.SearchMetric{}, ErrNoMoves
	}
	return moves[a.rng.Intn(len(moves))], metrics.SearchMetric{}, nil
}
