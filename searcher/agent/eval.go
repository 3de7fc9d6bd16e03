package agent

import (
	"context"
	"flipper/experiments/metrics"
	"flipper/game"
	"flipper/searcher"
)

type evaluationAgent struct {
	mcts *searcher.MCTS
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation.
func NewEvaluationAgent(mcts *searcher.MCTS) Agent {
	return evaluationAgent{mcts: mcts}
}

func (a evaluationAgent) FindMove(ctx context.Context, model game.Model, path []searcher.Segment) (game.Move, metrics.SearchMetric, error) {
	policy, metric := a.mcts.Simulate(ctx, model, path)
	move, ok := searcher.MostVisited(policy)
	if !ok {
		return game.Move{}, metric, ErrNoMoves
	}
	return move, metric, nil
}
