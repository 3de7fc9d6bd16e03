package engine

import (
	"context"
	"flipper/experiments/metrics"
	"flipper/game"
	"flipper/searcher"
	"flipper/searcher/agent"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
)

type LocalGame struct {
	model  *game.GameModel
	agents map[game.Player]agent.Agent
}

var _ Engine = (*LocalGame)(nil)

// LocalEngine pits two agents against each other on board, the first agent
// playing Black. A nil board starts from the opening position.
func LocalEngine(board *game.Board, agents []agent.Agent) *LocalGame {
	if len(agents) != 2 {
		panic("need exactly two agents")
	}
	if board == nil {
		board = game.NewBoard()
	}

	return &LocalGame{
		model: game.NewGameModel(board),
		agents: map[game.Player]agent.Agent{
			game.PlayerBlack: agents[0],
			game.PlayerWhite: agents[1],
		},
	}
}

func (e *LocalGame) Model() *game.GameModel {
	return e.model
}

// Run executes the entire game loop until the game is over.
func (e *LocalGame) Run(ctx context.Context) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	// Moves each agent has not seen since its last search
	paths := map[game.Player][]searcher.Segment{}

	gameMetric := metrics.GameMetric{
		StartingPlayer: e.model.ActivePlayer().String(),
		StartTime:      time.Now(),
	}
	log.Info().Msgf("player %s is starting", gameMetric.StartingPlayer)

	var moveMetrics []metrics.MoveMetric
	step := 0
	for !e.model.IsTerminal() && step < MaxMoves {
		if err := ctx.Err(); err != nil {
			return "", gameMetric, moveMetrics, fmt.Errorf("game interrupted after %d moves: %w", step, err)
		}

		player := e.model.ActivePlayer()
		legal := e.model.UpdatesFor(player)

		move, searchMetric, err := e.agents[player].FindMove(ctx, e.model, paths[player])
		if err != nil || !slices.Contains(legal, move) {
			log.Warn().Err(err).Msgf("player %s returned an illegal move %s, playing %s instead", player, move, legal[0])
			move = legal[0]
		}
		step++
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player.String(),
			SearchMetric: searchMetric,
		})

		e.model.Apply(move)

		segment := searcher.Segment{Move: move, StateHash: e.model.Hash()}
		paths[player] = nil
		for _, p := range e.model.Players() {
			paths[p] = append(paths[p], segment)
		}
	}

	if step >= MaxMoves {
		log.Warn().Msgf("stopped after %d moves", MaxMoves)
	}

	winner := ""
	if p, ok := e.model.Winner(); ok {
		winner = p.String()
	}
	black, white := e.model.Board().Scores()
	gameMetric.Winner = winner
	gameMetric.BlackDiscs = black
	gameMetric.WhiteDiscs = white
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = step

	log.Info().Int("black", black).Int("white", white).Int("moves", step).Msgf("game over, winner: %q", winner)
	return winner, gameMetric, moveMetrics, nil
}
