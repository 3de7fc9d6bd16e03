package engine

import (
	"context"
	"flipper/experiments/metrics"
)

// MaxMoves bounds a game. Each move fills a square so a real game never gets
// close; it guards against agents that keep a game alive by other means.
const MaxMoves = 1000

type Engine interface {
	// Run plays a game till it is decided, nobody can move or a max number of
	// moves is reached. The winner is empty when nobody reached the margin.
	Run(ctx context.Context) (winner string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
