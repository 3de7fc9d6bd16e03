package agent

import (
	"context"
	"errors"
	"flipper/experiments/metrics"
	"flipper/game"
	"flipper/searcher"
)

var ErrNoMoves = errors.New("no legal moves")

type Agent interface {
	// FindMove returns the move to play for the active player of model and
	// performance metrics (if collected) from the search. path lists the
	// moves played since this agent's previous call.
	FindMove(ctx context.Context, model game.Model, path []searcher.Segment) (game.Move, metrics.SearchMetric, error)
}
