package gamemaster

import (
	"context"
	"errors"
	"flipper/game"
	"flipper/searcher"
	"flipper/searcher/agent"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const DefaultTimeCeiling = 3 * time.Second

var (
	ErrGameOver    = errors.New("game is over")
	ErrNotYourTurn = errors.New("not your turn")
	ErrIllegalMove = errors.New("illegal move")
)

// Update is one applied move and the positions whose colour it changed,
// placed cell first.
type Update struct {
	Player   game.Player
	Move     game.Move
	Captured []game.Move
	Hash     game.StateHash
}

type Option func(s *Session)

// WithHumanPlayer sets the colour of the human. Black by default.
func WithHumanPlayer(p game.Player) Option {
	return func(s *Session) {
		s.human = p
	}
}

// WithTimeCeiling bounds the wall-clock time of one agent turn.
func WithTimeCeiling(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.ceiling = d
		}
	}
}

// WithRevealDelay holds the agent's choice on display until the time
// ceiling has elapsed since its turn started.
func WithRevealDelay() Option {
	return func(s *Session) {
		s.reveal = true
	}
}

// WithBoard starts the session from board instead of the opening position.
func WithBoard(board *game.Board) Option {
	return func(s *Session) {
		if board != nil {
			s.board = board
		}
	}
}

// Session is a game between a human and an agent. The human plays through
// Play, the agent through PlayAgent. Every applied move is published on
// Updates; the channel is closed once the game is over.
type Session struct {
	ID uuid.UUID

	mu       sync.Mutex
	board    *game.Board
	human    game.Player
	ai       agent.Agent
	ceiling  time.Duration
	reveal   bool
	path     []searcher.Segment // Moves the agent has not searched from yet
	pending  *game.Move
	thinking bool
	gameOver bool
	updateCh chan Update
}

func NewSession(ai agent.Agent, options ...Option) *Session {
	s := &Session{
		ID:       uuid.New(),
		board:    game.NewBoard(),
		human:    game.PlayerBlack,
		ai:       ai,
		ceiling:  DefaultTimeCeiling,
		updateCh: make(chan Update, game.Size*game.Size),
	}
	for _, option := range options {
		option(s)
	}

	if s.model().IsTerminal() {
		s.gameOver = true
		close(s.updateCh)
	}

	log.Info().Str("session", s.ID.String()).Msgf("new session, human plays %s", s.human)
	return s
}

func (s *Session) Updates() <-chan Update {
	return s.updateCh
}

func (s *Session) Human() game.Player {
	return s.human
}

// Board returns a snapshot of the live board.
func (s *Session) Board() *game.Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.board.Clone()
}

// Pending returns the agent's chosen move while it waits to be applied.
func (s *Session) Pending() (game.Move, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return game.Move{}, false
	}
	return *s.pending, true
}

func (s *Session) IsHumanTurn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return !s.gameOver && s.board.CurrentPlayer == s.human
}

func (s *Session) IsOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.gameOver
}

// Winner returns the player who reached the winning margin, if any.
func (s *Session) Winner() (game.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.model().Winner()
}

// Play applies the human's move at (row, col) and returns the changed
// positions.
func (s *Session) Play(row, col int) ([]game.Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gameOver {
		return nil, ErrGameOver
	}
	if s.board.CurrentPlayer != s.human {
		return nil, ErrNotYourTurn
	}
	if !s.board.CanMoveIn(row, col) {
		return nil, fmt.Errorf("%w: %s", ErrIllegalMove, game.NewMove(row, col))
	}

	return s.apply(game.NewMove(row, col)), nil
}

// PlayAgent lets the agent search a copy of the board within the time
// ceiling and applies its move to the live board once the search is done.
func (s *Session) PlayAgent(ctx context.Context) ([]game.Move, error) {
	s.mu.Lock()
	if s.gameOver {
		s.mu.Unlock()
		return nil, ErrGameOver
	}
	if s.board.CurrentPlayer == s.human || s.thinking {
		s.mu.Unlock()
		return nil, ErrNotYourTurn
	}
	s.thinking = true
	model := game.NewGameModel(s.board.Clone())
	path := s.path
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.thinking = false
		s.pending = nil
		s.mu.Unlock()
	}()

	start := time.Now()
	searchCtx, cancel := context.WithTimeout(ctx, s.ceiling)
	move, metric, err := s.ai.FindMove(searchCtx, model, path)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("agent failed to move: %w", err)
	}
	delta := time.Since(start)

	legal := model.UpdatesFor(model.ActivePlayer())
	if !model.Board().CanMoveIn(move.Row, move.Col) {
		log.Warn().Str("session", s.ID.String()).Msgf("agent returned an illegal move %s, playing %s instead", move, legal[0])
		move = legal[0]
	}
	log.Info().Str("session", s.ID.String()).Dur("search", delta).Int("episodes", metric.Episodes).Msgf("agent chose %s", move)

	s.mu.Lock()
	s.pending = &move
	s.mu.Unlock()

	if s.reveal {
		wait := min(s.ceiling-delta, s.ceiling)
		if wait > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("agent move not applied: %w", ctx.Err())
			case <-time.After(wait):
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.path = nil
	return s.apply(move), nil
}

// apply plays move for the current player. Callers hold the lock and have
// checked legality.
func (s *Session) apply(move game.Move) []game.Move {
	player := s.board.CurrentPlayer
	captured := s.board.MakeMove(player, move.Row, move.Col)
	s.board.CurrentPlayer = player.Opponent()

	hash := s.board.Hash()
	s.path = append(s.path, searcher.Segment{Move: move, StateHash: hash})
	s.updateCh <- Update{Player: player, Move: move, Captured: captured, Hash: hash}

	if s.model().IsTerminal() {
		s.gameOver = true
		close(s.updateCh)
		black, white := s.board.Scores()
		log.Info().Str("session", s.ID.String()).Int("black", black).Int("white", white).Msg("game over")
	}
	return captured
}

func (s *Session) model() *game.GameModel {
	return game.NewGameModel(s.board)
}
